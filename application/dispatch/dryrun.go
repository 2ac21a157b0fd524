package dispatch

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// DryRunProvisioner logs every operation it receives and changes nothing.
type DryRunProvisioner struct {
	Logger *slog.Logger
}

var _ ports.AccountProvisioner = (*DryRunProvisioner)(nil)

func (p *DryRunProvisioner) Create(ctx context.Context, application string, account *entities.AccountEntity) error {
	p.log(ctx, application, account)
	return nil
}

func (p *DryRunProvisioner) Modify(ctx context.Context, application string, account *entities.AccountEntity) error {
	p.log(ctx, application, account)
	return nil
}

func (p *DryRunProvisioner) Delete(ctx context.Context, application string, account *entities.AccountEntity) error {
	p.log(ctx, application, account)
	return nil
}

func (p *DryRunProvisioner) log(ctx context.Context, application string, account *entities.AccountEntity) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	namespaces := make([]string, 0, len(account.Namespace()))
	for _, ns := range account.Namespace() {
		namespaces = append(namespaces, ns.Name())
	}
	logger.InfoContext(ctx, "dry run",
		slog.String("application", application),
		slog.String("account", account.ID()),
		slog.String("action", account.Action().String()),
		slog.Int("attributes", account.Size()),
		slog.Any("namespaces", namespaces))
}
