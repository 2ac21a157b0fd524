package entities

import (
	"fmt"
)

// Risk is the risk level attached to an entitlement action.
type Risk int

const (
	RiskLow    Risk = iota // Default when a request does not state one
	RiskMedium             // Elevated access
	RiskHigh               // Privileged access
)

// DefaultRisk is assumed for entitlement actions that carry no risk.
const DefaultRisk = RiskLow

// String returns the wire name of the risk level.
func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the defined levels.
func (r Risk) Valid() bool {
	return r >= RiskLow && r <= RiskHigh
}

// ParseRisk converts a wire name into a Risk. Matching is case-sensitive.
func ParseRisk(s string) (Risk, error) {
	switch s {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return RiskLow, fmt.Errorf("%w: %q", ErrUnknownRisk, s)
}

// riskAssessorConfig holds configuration for the RiskAssessor.
type riskAssessorConfig struct {
	namespaceFloor map[string]Risk
	deleteRisk     Risk
}

func defaultRiskAssessorConfig() riskAssessorConfig {
	return riskAssessorConfig{
		namespaceFloor: make(map[string]Risk),
		deleteRisk:     RiskMedium,
	}
}

// RiskAssessorOption configures a RiskAssessor instance.
type RiskAssessorOption func(*riskAssessorConfig)

// WithNamespaceFloor raises every assign or modify action in the namespace to at least
// the given level, whatever the request states.
func WithNamespaceFloor(namespace string, floor Risk) RiskAssessorOption {
	return func(c *riskAssessorConfig) {
		c.namespaceFloor[namespace] = floor
	}
}

// WithDeleteRisk sets the level reported for account deletions.
func WithDeleteRisk(level Risk) RiskAssessorOption {
	return func(c *riskAssessorConfig) {
		c.deleteRisk = level
	}
}

// RiskAssessor evaluates the risk of provisioning requests.
type RiskAssessor struct {
	config riskAssessorConfig
}

// NewRiskAssessor creates a new RiskAssessor with the given options.
func NewRiskAssessor(opts ...RiskAssessorOption) *RiskAssessor {
	cfg := defaultRiskAssessorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RiskAssessor{config: cfg}
}

// AssessApplication returns the highest risk of all accounts in the application.
func (r *RiskAssessor) AssessApplication(app *ApplicationEntity) Risk {
	if app == nil {
		return RiskLow
	}
	highest := RiskLow
	for _, account := range app.accounts {
		level := r.AssessAccount(account)
		if level == RiskHigh {
			return RiskHigh
		}
		if level > highest {
			highest = level
		}
	}
	return highest
}

// AssessAccount returns the highest risk of a single account operation.
func (r *RiskAssessor) AssessAccount(account *AccountEntity) Risk {
	if account == nil {
		return RiskLow
	}
	highest := RiskLow
	if account.action == AccountDelete {
		highest = r.config.deleteRisk
	}
	for _, ns := range account.namespaces {
		for _, action := range ns.actions {
			if level := r.AssessAction(ns.name, action); level > highest {
				highest = level
			}
		}
	}
	return highest
}

// AssessAction returns the effective risk of one entitlement action in namespace.
// Revoking access never raises risk above the stated level; granting access is
// subject to the namespace floor.
func (r *RiskAssessor) AssessAction(namespace string, action EntitlementAction) Risk {
	level := action.Risk()
	if action.operation == EntitlementRevoke {
		return level
	}
	if floor, ok := r.config.namespaceFloor[namespace]; ok && floor > level {
		return floor
	}
	return level
}

// DescribeRisks returns a list of human-readable risk descriptions.
func (r *RiskAssessor) DescribeRisks(app *ApplicationEntity) []string {
	if app == nil {
		return nil
	}
	var risks []string
	for _, account := range app.accounts {
		risks = append(risks, r.DescribeAccountRisks(account)...)
	}
	return risks
}

// DescribeAccountRisks returns the descriptions for a single account.
func (r *RiskAssessor) DescribeAccountRisks(account *AccountEntity) []string {
	if account == nil {
		return nil
	}
	var risks []string
	if account.action == AccountDelete && r.config.deleteRisk > RiskLow {
		risks = append(risks, fmt.Sprintf("Deletes account %s (%s risk)", account.id, r.config.deleteRisk))
	}
	for _, ns := range account.namespaces {
		for _, action := range ns.actions {
			level := r.AssessAction(ns.name, action)
			if level == RiskLow {
				continue
			}
			risks = append(risks, fmt.Sprintf("%s %s risk entitlement in namespace %s for account %s",
				describeOperation(action.operation), level, ns.name, account.id))
		}
	}
	return risks
}

func describeOperation(op EntitlementOperation) string {
	switch op {
	case EntitlementAssign:
		return "Assigns"
	case EntitlementRevoke:
		return "Revokes"
	default:
		return "Modifies"
	}
}
