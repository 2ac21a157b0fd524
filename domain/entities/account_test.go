package entities_test

import (
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountEntity(t *testing.T) {
	account, err := entities.NewAccountEntity("azitterbacke", entities.AccountCreate,
		entities.WithAttributes(
			entities.Attr("firstName", "Alfons"),
			entities.Attr("lastName", "Zitterbacke"),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "azitterbacke", account.ID())
	assert.Equal(t, entities.AccountCreate, account.Action())
	assert.True(t, account.Is(entities.AccountCreate))
	assert.Equal(t, 2, account.Size())

	v, ok := account.Value("firstName")
	assert.True(t, ok)
	assert.Equal(t, entities.String("Alfons"), v)

	_, ok = account.Value("middleName")
	assert.False(t, ok)

	assert.Equal(t, []entities.AttributeValue{
		entities.Attr("firstName", "Alfons"),
		entities.Attr("lastName", "Zitterbacke"),
	}, account.Attributes())

	assert.Nil(t, account.Namespace())
	assert.False(t, account.HasEntitlements())
}

func TestNewAccountEntity_Errors(t *testing.T) {
	ns, err := entities.NewNamespace("group", groupAction(t, entities.EntitlementAssign, nil))
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		action  entities.AccountAction
		opts    []entities.AccountOption
		wantErr error
	}{
		{"empty id", "", entities.AccountCreate, nil, entities.ErrEmptyID},
		{"unknown action", "x", entities.AccountAction(9), nil, entities.ErrUnknownAction},
		{
			"duplicate attribute", "x", entities.AccountModify,
			[]entities.AccountOption{entities.WithAttributes(entities.Attr("a", "1"), entities.Attr("a", "2"))},
			entities.ErrDuplicateAttribute,
		},
		{
			"duplicate namespace", "x", entities.AccountModify,
			[]entities.AccountOption{entities.WithNamespaces(ns, ns)},
			entities.ErrDuplicateNamespace,
		},
		{
			"zero namespace", "x", entities.AccountModify,
			[]entities.AccountOption{entities.WithNamespaces(entities.Namespace{})},
			entities.ErrNoActions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := entities.NewAccountEntity(tt.id, tt.action, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, account)
		})
	}
}

func TestAccountEntity_DeleteIsPermissive(t *testing.T) {
	account, err := entities.NewAccountEntity("amusterfrau", entities.AccountDelete,
		entities.WithAttributes(entities.Attr("reason", "left")))
	require.NoError(t, err)
	assert.Equal(t, 1, account.Size())
}

func TestAccountEntity_Entitlements(t *testing.T) {
	revoke := groupAction(t, entities.EntitlementRevoke, riskPtr(entities.RiskLow))
	assign := groupAction(t, entities.EntitlementAssign, riskPtr(entities.RiskLow))
	modify := groupAction(t, entities.EntitlementModify, nil)

	group, err := entities.NewNamespace("group", revoke, assign, modify)
	require.NoError(t, err)
	role, err := entities.NewNamespace("role", assign)
	require.NoError(t, err)

	account, err := entities.NewAccountEntity("azitterbacke", entities.AccountModify,
		entities.WithNamespaces(group, role))
	require.NoError(t, err)

	require.Len(t, account.Namespace(), 2)
	assert.Equal(t, "group", account.Namespace()[0].Name())
	assert.Equal(t, "role", account.Namespace()[1].Name())
	assert.True(t, account.HasEntitlements())

	assert.Len(t, account.ToAssign("group"), 1)
	assert.Len(t, account.ToRevoke("group"), 1)
	assert.Len(t, account.ToModify("group"), 1)
	assert.Nil(t, account.ToAssign("application"))

	ns, ok := account.Lookup("group")
	require.True(t, ok)
	assert.Equal(t, 3, ns.Len())
	assert.Equal(t, entities.EntitlementRevoke, ns.Actions()[0].Operation())
	assert.True(t, ns.Actions()[1].Is(entities.EntitlementAssign))
}

func TestAccountEntity_ReturnsCopies(t *testing.T) {
	ns, err := entities.NewNamespace("group", groupAction(t, entities.EntitlementAssign, nil))
	require.NoError(t, err)
	account, err := entities.NewAccountEntity("x", entities.AccountModify,
		entities.WithAttributes(entities.Attr("a", "1")),
		entities.WithNamespaces(ns))
	require.NoError(t, err)

	attrs := account.Attributes()
	attrs[0] = entities.Attr("b", "2")
	namespaces := account.Namespace()
	namespaces[0] = entities.Namespace{}

	v, ok := account.Value("a")
	assert.True(t, ok)
	assert.Equal(t, entities.String("1"), v)
	assert.Equal(t, "group", account.Namespace()[0].Name())
}

func TestAccountEntity_Equal(t *testing.T) {
	build := func(value string) *entities.AccountEntity {
		a, err := entities.NewAccountEntity("x", entities.AccountModify,
			entities.WithAttributes(entities.Attr("a", value)))
		require.NoError(t, err)
		return a
	}
	assert.True(t, build("1").Equal(build("1")))
	assert.False(t, build("1").Equal(build("2")))
	assert.False(t, build("1").Equal(nil))
}

func TestEntitlementAction(t *testing.T) {
	action, err := entities.NewEntitlementAction(entities.EntitlementAssign, entities.Attr("name", "cn=Dude"))
	require.NoError(t, err)

	assert.False(t, action.HasRisk())
	assert.Equal(t, entities.DefaultRisk, action.Risk())

	high := action.WithRisk(entities.RiskHigh)
	assert.True(t, high.HasRisk())
	assert.Equal(t, entities.RiskHigh, high.Risk())
	assert.False(t, action.HasRisk(), "WithRisk must not modify the receiver")
	assert.False(t, action.Equal(high))

	v, ok := action.Value("name")
	assert.True(t, ok)
	assert.Equal(t, entities.String("cn=Dude"), v)
	assert.Equal(t, 1, action.Size())

	_, err = entities.NewEntitlementAction(entities.EntitlementOperation(7))
	assert.ErrorIs(t, err, entities.ErrUnknownAction)

	_, err = entities.NewNamespace("group")
	assert.ErrorIs(t, err, entities.ErrNoActions)

	_, err = entities.NewNamespace("", action)
	assert.ErrorIs(t, err, entities.ErrEmptyID)
}

func TestParseAccountAction(t *testing.T) {
	for _, name := range []string{"create", "modify", "delete"} {
		action, err := entities.ParseAccountAction(name)
		require.NoError(t, err)
		assert.Equal(t, name, action.String())
	}
	_, err := entities.ParseAccountAction("Create")
	assert.ErrorIs(t, err, entities.ErrUnknownAction)
	_, err = entities.ParseAccountAction("enable")
	assert.ErrorIs(t, err, entities.ErrUnknownAction)

	for _, name := range []string{"assign", "revoke", "modify"} {
		op, err := entities.ParseEntitlementOperation(name)
		require.NoError(t, err)
		assert.Equal(t, name, op.String())
	}
	_, err = entities.ParseEntitlementOperation("grant")
	assert.ErrorIs(t, err, entities.ErrUnknownAction)
}
