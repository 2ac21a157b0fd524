package ports

import (
	"context"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
)

// AccountProvisioner applies account operations to a target system.
// Connectors implement it; the dispatcher routes each account to the method
// matching its action.
type AccountProvisioner interface {
	Create(ctx context.Context, application string, account *entities.AccountEntity) error
	Modify(ctx context.Context, application string, account *entities.AccountEntity) error
	Delete(ctx context.Context, application string, account *entities.AccountEntity) error
}
