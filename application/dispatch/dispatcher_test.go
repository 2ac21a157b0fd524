package dispatch_test

import (
	"bytes"
	"context"
	stdErrors "errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/reglet-dev/provisioning-sdk/application/dispatch"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	action  entities.AccountAction
	account string
}

type fakeProvisioner struct {
	mu     sync.Mutex
	calls  []call
	fail   map[string]error
	onCall func()
}

func (f *fakeProvisioner) record(action entities.AccountAction, account *entities.AccountEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{action: action, account: account.ID()})
	if f.onCall != nil {
		f.onCall()
	}
	return f.fail[account.ID()]
}

func (f *fakeProvisioner) Create(_ context.Context, _ string, a *entities.AccountEntity) error {
	return f.record(entities.AccountCreate, a)
}

func (f *fakeProvisioner) Modify(_ context.Context, _ string, a *entities.AccountEntity) error {
	return f.record(entities.AccountModify, a)
}

func (f *fakeProvisioner) Delete(_ context.Context, _ string, a *entities.AccountEntity) error {
	return f.record(entities.AccountDelete, a)
}

func newApplication(t *testing.T) *entities.ApplicationEntity {
	t.Helper()
	create, err := entities.NewAccountEntity("azitterbacke", entities.AccountCreate,
		entities.WithAttributes(entities.Attr("firstName", "Alfons")))
	require.NoError(t, err)
	modify, err := entities.NewAccountEntity("mmustermann", entities.AccountModify,
		entities.WithAttributes(entities.Attr("mail", "max@example.com")))
	require.NoError(t, err)
	del, err := entities.NewAccountEntity("amusterfrau", entities.AccountDelete)
	require.NoError(t, err)
	app, err := entities.NewApplicationEntity("CTSAccount", create, modify, del)
	require.NoError(t, err)
	return app
}

func fixedID() string { return "req-1" }

func TestDispatcher_RoutesInOrder(t *testing.T) {
	prov := &fakeProvisioner{}
	d := dispatch.New(prov, dispatch.WithRequestIDGenerator(fixedID))

	report, err := d.DispatchApplication(context.Background(), newApplication(t))
	require.NoError(t, err)

	assert.Equal(t, []call{
		{entities.AccountCreate, "azitterbacke"},
		{entities.AccountModify, "mmustermann"},
		{entities.AccountDelete, "amusterfrau"},
	}, prov.calls)

	assert.Equal(t, "req-1", report.RequestID)
	assert.Equal(t, "CTSAccount", report.Application)
	assert.True(t, report.Succeeded())
	assert.Equal(t, 3, report.Count(dispatch.StatusApplied))
	assert.NoError(t, report.Err())
	for i, o := range report.Outcomes {
		assert.Equal(t, i, o.Index)
	}
}

func TestDispatcher_StopsAtFirstFailure(t *testing.T) {
	boom := stdErrors.New("connection refused")
	prov := &fakeProvisioner{fail: map[string]error{"mmustermann": boom}}
	d := dispatch.New(prov)

	report, err := d.DispatchApplication(context.Background(), newApplication(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var provErr *errors.ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "mmustermann", provErr.Account)
	assert.Equal(t, entities.AccountModify, provErr.Action)
	assert.Equal(t, "modify of account mmustermann in CTSAccount failed: connection refused", err.Error())

	assert.Len(t, prov.calls, 2)
	assert.Equal(t, dispatch.StatusApplied, report.Outcomes[0].Status)
	assert.Equal(t, dispatch.StatusFailed, report.Outcomes[1].Status)
	assert.Equal(t, dispatch.StatusSkipped, report.Outcomes[2].Status)
	assert.False(t, report.Succeeded())
	assert.Len(t, report.Failed(), 1)
}

func TestDispatcher_ContinueOnError(t *testing.T) {
	boom := stdErrors.New("no such user")
	prov := &fakeProvisioner{fail: map[string]error{"azitterbacke": boom, "amusterfrau": boom}}
	d := dispatch.New(prov, dispatch.WithContinueOnError(true))

	report, err := d.DispatchApplication(context.Background(), newApplication(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Len(t, prov.calls, 3)
	assert.Equal(t, 2, report.Count(dispatch.StatusFailed))
	assert.Equal(t, 1, report.Count(dispatch.StatusApplied))
}

func TestDispatcher_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prov := &fakeProvisioner{onCall: cancel}
	d := dispatch.New(prov)

	report, err := d.DispatchApplication(ctx, newApplication(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, prov.calls, 1)
	assert.Equal(t, dispatch.StatusApplied, report.Outcomes[0].Status)
	assert.Equal(t, 2, report.Count(dispatch.StatusSkipped))
}

func TestDispatcher_PolicyDenied(t *testing.T) {
	prov := &fakeProvisioner{}
	p := policy.NewPolicy(
		policy.WithDenialHandler(&policy.NopDenialHandler{}),
		policy.WithAllowedApplications("LDAP"),
	)
	d := dispatch.New(prov, dispatch.WithPolicy(p))

	report, err := d.DispatchApplication(context.Background(), newApplication(t))
	var policyErr *errors.PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, "application", policyErr.Violations[0].Field)
	assert.Empty(t, prov.calls)
	assert.Equal(t, 3, report.Count(dispatch.StatusSkipped))
}

func TestDispatcher_DispatchAccount(t *testing.T) {
	prov := &fakeProvisioner{}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := dispatch.New(prov, dispatch.WithLogger(logger))

	account, err := entities.NewAccountEntity("amusterfrau", entities.AccountDelete)
	require.NoError(t, err)

	report, err := d.DispatchAccount(context.Background(), "CTSAccount", account)
	require.NoError(t, err)
	assert.Len(t, report.Outcomes, 1)
	assert.NotEmpty(t, report.RequestID)
	assert.Equal(t, []call{{entities.AccountDelete, "amusterfrau"}}, prov.calls)

	out := buf.String()
	assert.Contains(t, out, "dispatch started")
	assert.Contains(t, out, "account applied")
	assert.Contains(t, out, "request_id="+report.RequestID)
}

func TestDispatcher_NilRequests(t *testing.T) {
	d := dispatch.New(&fakeProvisioner{})
	_, err := d.DispatchApplication(context.Background(), nil)
	assert.Error(t, err)
	_, err = d.DispatchAccount(context.Background(), "CTSAccount", nil)
	assert.Error(t, err)
}

func TestDryRunProvisioner(t *testing.T) {
	var buf bytes.Buffer
	prov := &dispatch.DryRunProvisioner{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	report, err := dispatch.New(prov).DispatchApplication(context.Background(), newApplication(t))
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Contains(t, buf.String(), "account=amusterfrau action=delete")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "applied", dispatch.StatusApplied.String())
	assert.Equal(t, "failed", dispatch.StatusFailed.String())
	assert.Equal(t, "skipped", dispatch.StatusSkipped.String())
}
