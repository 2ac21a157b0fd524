package ports

import "github.com/reglet-dev/provisioning-sdk/domain/entities"

// Confirmer asks an operator to confirm elevated-risk requests.
type Confirmer interface {
	// IsInteractive reports whether an operator can be asked at all.
	IsInteractive() bool

	// ConfirmRisks presents the risks of a request for application.
	// always is true when the operator approves all future requests for application.
	ConfirmRisks(application string, level entities.Risk, risks []string) (approved bool, always bool, err error)
}

// ApprovalStore persists standing approvals.
type ApprovalStore interface {
	Load() (*entities.ApprovalSet, error)
	Save(approvals *entities.ApprovalSet) error
}
