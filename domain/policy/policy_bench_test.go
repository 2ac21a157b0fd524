package policy_test

import (
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
	"github.com/reglet-dev/provisioning-sdk/internal/testutil"
)

func BenchmarkCheckApplication(b *testing.B) {
	p := policy.NewPolicy(
		policy.WithDenialHandler(&policy.NopDenialHandler{}),
		policy.WithAllowedApplications("CTS*"),
		policy.WithAllowedNamespaces("group", "role/*"),
		policy.WithMaxRisk(entities.RiskMedium),
	)
	app := testutil.MustApplication(b, "CTSAccount",
		testutil.MustAccount(b, "azitterbacke", entities.AccountCreate, entities.WithNamespaces(
			testutil.MustNamespace(b, "group",
				entitlement(b, entities.EntitlementAssign, entities.RiskLow),
				entitlement(b, entities.EntitlementRevoke, entities.RiskMedium)),
		)),
		testutil.MustAccount(b, "amusterfrau", entities.AccountDelete),
	)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.CheckApplication(app)
	}
}
