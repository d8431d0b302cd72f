package domain

// ActionIntent is the structured result of classifying one utterance.
// It lives for the duration of a turn and is only persisted embedded in
// audit details.
type ActionIntent struct {
	Kind ActionKind `json:"kind"`

	// Params shape depends on Kind; see ActionParams accessors.
	Params ActionParams `json:"params"`

	// Confidence is the classifier's own certainty in [0,1].
	Confidence float64 `json:"confidence"`

	// ConfirmationRequired is the classifier's hint. The simulator's
	// judgment is ORed with it and can only add confirmations, never
	// remove them.
	ConfirmationRequired bool `json:"confirmation_required"`

	// Clarification carries the question to ask the user when the
	// classifier could not commit to an interpretation.
	Clarification string `json:"clarification,omitempty"`
}

// RiskLevel classifies the blast radius of a dry-run.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) String() string { return string(r) }

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// DryRunReport is the read-only simulation of one intent's effect.
// Recomputed per request, never persisted on its own.
type DryRunReport struct {
	// AffectedRefs lists the cell references touched, or coarser row/column
	// bands for bulk operations.
	AffectedRefs []string `json:"affected_refs"`

	RiskLevel  RiskLevel `json:"risk_level"`
	Reversible bool      `json:"reversible"`

	// Preview is the human-readable description shown before confirmation.
	Preview string `json:"preview"`

	Warnings []string `json:"warnings,omitempty"`

	// EstimatedImpact counts affected cells (or rows/columns for bulk ops).
	EstimatedImpact int `json:"estimated_impact"`
}

// RequiresConfirmation is the confirmation-gate rule: high risk or an
// irreversible action always needs explicit user approval.
func (r *DryRunReport) RequiresConfirmation() bool {
	return r.RiskLevel == RiskHigh || !r.Reversible
}
