// Package dispatch routes the accounts of a decoded request to a connector.
//
// Accounts are dispatched one at a time in request order. A request is never
// reordered or parallelised, since later operations may depend on earlier ones
// (an account created before its entitlements are modified elsewhere, for example).
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// dispatcherConfig holds configuration for the Dispatcher.
type dispatcherConfig struct {
	logger          *slog.Logger
	policy          ports.RequestPolicy
	newRequestID    func() string
	continueOnError bool
}

func defaultDispatcherConfig() dispatcherConfig {
	return dispatcherConfig{
		logger:       slog.New(slog.DiscardHandler),
		newRequestID: uuid.NewString,
	}
}

// Option configures a Dispatcher instance.
type Option func(*dispatcherConfig)

// WithLogger sets the logger used for per-account progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContinueOnError keeps dispatching after a failed account.
// Default is false: the first failure skips all remaining accounts.
func WithContinueOnError(enabled bool) Option {
	return func(c *dispatcherConfig) {
		c.continueOnError = enabled
	}
}

// WithPolicy checks every request against p before anything is dispatched.
// A denied request is not dispatched at all.
func WithPolicy(p ports.RequestPolicy) Option {
	return func(c *dispatcherConfig) {
		c.policy = p
	}
}

// WithRequestIDGenerator replaces the random UUID request ids.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *dispatcherConfig) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// Dispatcher routes account operations to an AccountProvisioner.
// It holds no per-request state and may be shared.
type Dispatcher struct {
	provisioner ports.AccountProvisioner
	config      dispatcherConfig
}

// New creates a Dispatcher for provisioner.
func New(provisioner ports.AccountProvisioner, opts ...Option) *Dispatcher {
	cfg := defaultDispatcherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dispatcher{provisioner: provisioner, config: cfg}
}

// DispatchApplication dispatches every account of app in order.
//
// The returned error is the first ProvisioningError when dispatch stopped early,
// the joined account errors when continuing on error, a PolicyError when the
// request was denied, or the context error when ctx ended. The report is
// returned in every case except a nil application.
func (d *Dispatcher) DispatchApplication(ctx context.Context, app *entities.ApplicationEntity) (*Report, error) {
	if app == nil {
		return nil, fmt.Errorf("dispatch: nil application")
	}
	var denied *entities.ValidationResult
	if d.config.policy != nil {
		denied = d.config.policy.CheckApplication(app)
	}
	return d.run(ctx, app.Name(), app.Accounts(), denied)
}

// DispatchAccount dispatches a single account operation for application.
func (d *Dispatcher) DispatchAccount(ctx context.Context, application string, account *entities.AccountEntity) (*Report, error) {
	if account == nil {
		return nil, fmt.Errorf("dispatch: nil account")
	}
	var denied *entities.ValidationResult
	if d.config.policy != nil {
		denied = d.config.policy.CheckAccount(application, account)
	}
	return d.run(ctx, application, []*entities.AccountEntity{account}, denied)
}

func (d *Dispatcher) run(ctx context.Context, application string, accounts []*entities.AccountEntity, check *entities.ValidationResult) (*Report, error) {
	report := &Report{
		RequestID:   d.config.newRequestID(),
		Application: application,
		Started:     time.Now(),
		Outcomes:    make([]Outcome, len(accounts)),
	}
	for i, account := range accounts {
		report.Outcomes[i] = Outcome{
			Index:   i,
			Account: account.ID(),
			Action:  account.Action(),
			Status:  StatusSkipped,
		}
	}

	logger := d.config.logger.With(
		slog.String("request_id", report.RequestID),
		slog.String("application", application))

	if check != nil && !check.Valid {
		err := &errors.PolicyError{Violations: check.Errors}
		logger.Warn("request denied", slog.Int("violations", len(check.Errors)))
		return report, err
	}

	logger.Info("dispatch started", slog.Int("accounts", len(accounts)))

	var firstErr error
	for i, account := range accounts {
		if err := ctx.Err(); err != nil {
			logger.Warn("dispatch cancelled", slog.Int("remaining", len(accounts)-i), slog.Any("error", err))
			return report, err
		}

		outcome := &report.Outcomes[i]
		start := time.Now()
		err := d.apply(ctx, application, account)
		outcome.Duration = time.Since(start)

		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = &errors.ProvisioningError{
				Application: application,
				Account:     account.ID(),
				Action:      account.Action(),
				Err:         err,
			}
			logger.Error("account failed",
				slog.String("account", account.ID()),
				slog.String("action", account.Action().String()),
				slog.Any("error", err))
			if firstErr == nil {
				firstErr = outcome.Err
			}
			if !d.config.continueOnError {
				return report, outcome.Err
			}
			continue
		}

		outcome.Status = StatusApplied
		logger.Debug("account applied",
			slog.String("account", account.ID()),
			slog.String("action", account.Action().String()),
			slog.Duration("duration", outcome.Duration))
	}

	logger.Info("dispatch finished",
		slog.Int("applied", report.Count(StatusApplied)),
		slog.Int("failed", report.Count(StatusFailed)))

	if firstErr != nil {
		return report, report.Err()
	}
	return report, nil
}

func (d *Dispatcher) apply(ctx context.Context, application string, account *entities.AccountEntity) error {
	switch account.Action() {
	case entities.AccountCreate:
		return d.provisioner.Create(ctx, application, account)
	case entities.AccountModify:
		return d.provisioner.Modify(ctx, application, account)
	case entities.AccountDelete:
		return d.provisioner.Delete(ctx, application, account)
	default:
		return fmt.Errorf("%w: %s", entities.ErrUnknownAction, account.Action())
	}
}
