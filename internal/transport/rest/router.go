package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxsheet/voxsheet-backend/internal/transport/middleware"
)

// Handlers bundles the endpoint handlers the router mounts.
type Handlers struct {
	Health        *HealthHandler
	Conversations *ConversationHandler
	Actions       *ActionHandler
	Rollbacks     *RollbackHandler
	Audit         *AuditHandler
}

// NewRouter mounts the API surface. Health probes and /metrics bypass the
// middleware chain; everything under /api/v1 goes through it, including
// authentication.
func NewRouter(h Handlers, chain middleware.Middleware) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/v1/conversations", h.Conversations.Start)
	api.HandleFunc("GET /api/v1/conversations/{id}", h.Conversations.Get)
	api.HandleFunc("DELETE /api/v1/conversations/{id}", h.Conversations.End)
	api.HandleFunc("GET /api/v1/conversations/{id}/transitions", h.Conversations.History)
	api.HandleFunc("POST /api/v1/conversations/{id}/transcript", h.Conversations.Transcript)
	api.HandleFunc("POST /api/v1/conversations/{id}/confirm", h.Conversations.Confirm)

	api.HandleFunc("POST /api/v1/actions/execute", h.Actions.Execute)

	api.HandleFunc("GET /api/v1/rollback", h.Rollbacks.History)
	api.HandleFunc("POST /api/v1/rollback/{id}/execute", h.Rollbacks.ExecuteUndo)

	api.HandleFunc("GET /api/v1/audit", h.Audit.List)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", h.Health.Health)
	root.HandleFunc("GET /health/live", h.Health.Live)
	root.HandleFunc("GET /health/ready", h.Health.Ready)
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/api/v1/", chain(api))

	return root
}
