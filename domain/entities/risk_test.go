package entities_test

import (
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupAction(t *testing.T, op entities.EntitlementOperation, risk *entities.Risk) entities.EntitlementAction {
	t.Helper()
	action, err := entities.NewEntitlementAction(op, entities.Attr("name", "cn=Dude,dc=example,dc=com"))
	require.NoError(t, err)
	if risk != nil {
		action = action.WithRisk(*risk)
	}
	return action
}

func riskPtr(r entities.Risk) *entities.Risk { return &r }

func accountWith(t *testing.T, action entities.AccountAction, namespace string, actions ...entities.EntitlementAction) *entities.AccountEntity {
	t.Helper()
	var opts []entities.AccountOption
	if len(actions) > 0 {
		ns, err := entities.NewNamespace(namespace, actions...)
		require.NoError(t, err)
		opts = append(opts, entities.WithNamespaces(ns))
	}
	account, err := entities.NewAccountEntity("azitterbacke", action, opts...)
	require.NoError(t, err)
	return account
}

func TestParseRisk(t *testing.T) {
	tests := []struct {
		in      string
		want    entities.Risk
		wantErr bool
	}{
		{"low", entities.RiskLow, false},
		{"medium", entities.RiskMedium, false},
		{"high", entities.RiskHigh, false},
		{"High", entities.RiskLow, true},
		{"", entities.RiskLow, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := entities.ParseRisk(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, entities.ErrUnknownRisk)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestRiskAssessor_AssessAccount(t *testing.T) {
	assessor := entities.NewRiskAssessor()

	t.Run("Account without entitlements is Low risk", func(t *testing.T) {
		a := accountWith(t, entities.AccountCreate, "")
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(a))
	})

	t.Run("Missing risk defaults to Low", func(t *testing.T) {
		a := accountWith(t, entities.AccountModify, "group", groupAction(t, entities.EntitlementAssign, nil))
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(a))
	})

	t.Run("Highest stated risk wins", func(t *testing.T) {
		a := accountWith(t, entities.AccountModify, "group",
			groupAction(t, entities.EntitlementAssign, riskPtr(entities.RiskMedium)),
			groupAction(t, entities.EntitlementRevoke, riskPtr(entities.RiskHigh)),
		)
		assert.Equal(t, entities.RiskHigh, assessor.AssessAccount(a))
	})

	t.Run("Delete is Medium risk by default", func(t *testing.T) {
		a := accountWith(t, entities.AccountDelete, "")
		assert.Equal(t, entities.RiskMedium, assessor.AssessAccount(a))
	})

	t.Run("Nil account is Low risk", func(t *testing.T) {
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(nil))
	})
}

func TestRiskAssessor_NamespaceFloor(t *testing.T) {
	assessor := entities.NewRiskAssessor(
		entities.WithNamespaceFloor("role", entities.RiskHigh),
		entities.WithDeleteRisk(entities.RiskLow),
	)

	t.Run("Floor raises assign", func(t *testing.T) {
		a := accountWith(t, entities.AccountModify, "role", groupAction(t, entities.EntitlementAssign, riskPtr(entities.RiskLow)))
		assert.Equal(t, entities.RiskHigh, assessor.AssessAccount(a))
	})

	t.Run("Floor does not apply to revoke", func(t *testing.T) {
		a := accountWith(t, entities.AccountModify, "role", groupAction(t, entities.EntitlementRevoke, nil))
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(a))
	})

	t.Run("Floor is scoped to its namespace", func(t *testing.T) {
		a := accountWith(t, entities.AccountModify, "group", groupAction(t, entities.EntitlementAssign, nil))
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(a))
	})

	t.Run("Delete risk is configurable", func(t *testing.T) {
		a := accountWith(t, entities.AccountDelete, "")
		assert.Equal(t, entities.RiskLow, assessor.AssessAccount(a))
	})
}

func TestRiskAssessor_AssessApplication(t *testing.T) {
	assessor := entities.NewRiskAssessor()

	low := accountWith(t, entities.AccountCreate, "")
	medium := accountWith(t, entities.AccountModify, "group", groupAction(t, entities.EntitlementAssign, riskPtr(entities.RiskMedium)))

	app, err := entities.NewApplicationEntity("CTSAccount", low, medium)
	require.NoError(t, err)

	assert.Equal(t, entities.RiskMedium, assessor.AssessApplication(app))
	assert.Equal(t, entities.RiskLow, assessor.AssessApplication(nil))
}

func TestRiskAssessor_DescribeRisks(t *testing.T) {
	assessor := entities.NewRiskAssessor()

	modify := accountWith(t, entities.AccountModify, "group",
		groupAction(t, entities.EntitlementAssign, riskPtr(entities.RiskHigh)),
		groupAction(t, entities.EntitlementRevoke, nil),
	)
	remove, err := entities.NewAccountEntity("amusterfrau", entities.AccountDelete)
	require.NoError(t, err)

	app, err := entities.NewApplicationEntity("CTSAccount", modify, remove)
	require.NoError(t, err)

	risks := assessor.DescribeRisks(app)
	assert.Equal(t, []string{
		"Assigns high risk entitlement in namespace group for account azitterbacke",
		"Deletes account amusterfrau (medium risk)",
	}, risks)
	assert.Nil(t, assessor.DescribeRisks(nil))
}
