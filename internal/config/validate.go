package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if !c.Grid.UseStub && c.Grid.BaseURL == "" {
		return fmt.Errorf("grid.base_url is required unless grid.use_stub is set")
	}

	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must be >= 0 (got %d)", c.RateLimit.Requests)
	}

	return nil
}

func (p *PipelineConfig) validate() error {
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1] (got %v)", p.ConfidenceThreshold)
	}
	if p.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be > 0 (got %v)", p.StaleAfter)
	}
	if p.RollbackTTL <= 0 {
		return fmt.Errorf("rollback_ttl must be > 0 (got %v)", p.RollbackTTL)
	}
	if p.AuditRetentionDays <= 0 {
		return fmt.Errorf("audit_retention_days must be > 0 (got %d)", p.AuditRetentionDays)
	}
	return nil
}
