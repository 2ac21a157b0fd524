// Package policy holds opt-in, caller-level rules for provisioning requests.
//
// The entity model accepts any well-formed request. A Policy narrows that down to
// what a particular connector deployment is willing to execute.
package policy

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// Rule names reported to the DenialHandler and used as ValidationError fields prefix.
const (
	RuleApplication = "application"
	RuleNamespace   = "namespace"
	RuleRisk        = "risk"
	RuleDelete      = "delete"
)

// policyConfig holds configuration for the Policy engine.
type policyConfig struct {
	applications  []string               // Allowed application name patterns, empty allows all
	namespaces    []string               // Allowed namespace patterns, empty allows all
	maxRisk       entities.Risk          // Highest entitlement risk permitted
	strictDelete  bool                   // Delete accounts must carry no attributes or entitlements
	assessor      *entities.RiskAssessor // Computes effective entitlement risk
	denialHandler ports.DenialHandler    // Handler invoked on policy denials
}

func defaultPolicyConfig() policyConfig {
	return policyConfig{
		maxRisk:       entities.RiskHigh,
		assessor:      entities.NewRiskAssessor(),
		denialHandler: &StderrDenialHandler{}, // Log to stderr by default
	}
}

// PolicyOption configures the Policy.
type PolicyOption func(*policyConfig)

// WithAllowedApplications restricts application names to the given glob patterns.
// Invalid patterns match nothing, so a list holding only invalid patterns denies
// every application.
func WithAllowedApplications(patterns ...string) PolicyOption {
	return func(c *policyConfig) {
		c.applications = append(c.applications, patterns...)
	}
}

// WithAllowedNamespaces restricts entitlement namespaces to the given glob patterns.
// Invalid patterns match nothing.
func WithAllowedNamespaces(patterns ...string) PolicyOption {
	return func(c *policyConfig) {
		c.namespaces = append(c.namespaces, patterns...)
	}
}

// WithMaxRisk sets the highest effective risk an entitlement action may carry.
// Default is RiskHigh (everything allowed).
func WithMaxRisk(level entities.Risk) PolicyOption {
	return func(c *policyConfig) {
		c.maxRisk = level
	}
}

// WithStrictDelete rejects delete operations that carry attributes or entitlements.
func WithStrictDelete(enabled bool) PolicyOption {
	return func(c *policyConfig) {
		c.strictDelete = enabled
	}
}

// WithRiskAssessor sets the assessor used to compute effective entitlement risk.
func WithRiskAssessor(assessor *entities.RiskAssessor) PolicyOption {
	return func(c *policyConfig) {
		if assessor != nil {
			c.assessor = assessor
		}
	}
}

// WithDenialHandler sets the denial handler.
func WithDenialHandler(h ports.DenialHandler) PolicyOption {
	return func(c *policyConfig) {
		c.denialHandler = h
	}
}

// Policy implements ports.RequestPolicy. It is stateless and safe for concurrent use.
type Policy struct {
	config policyConfig
}

var _ ports.RequestPolicy = (*Policy)(nil)

// NewPolicy creates a new Policy.
func NewPolicy(opts ...PolicyOption) *Policy {
	cfg := defaultPolicyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.denialHandler == nil {
		cfg.denialHandler = &NopDenialHandler{}
	}
	return &Policy{config: cfg}
}

// InvalidPatterns returns the configured allow-list patterns that are not valid
// globs. Such patterns never match.
func (p *Policy) InvalidPatterns() []string {
	var invalid []string
	for _, list := range [][]string{p.config.applications, p.config.namespaces} {
		for _, pattern := range list {
			if !ValidPattern(pattern) {
				invalid = append(invalid, pattern)
			}
		}
	}
	return invalid
}

// ValidPattern reports whether pattern is a non-empty, well-formed glob.
func ValidPattern(pattern string) bool {
	return pattern != "" && doublestar.ValidatePattern(pattern)
}

// matchAny allows everything only when no patterns were configured at all.
func matchAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if !ValidPattern(pattern) {
			continue
		}
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (p *Policy) deny(result *entities.ValidationResult, rule, path, reason string) {
	result.Add(path, reason)
	p.config.denialHandler.OnDenial(rule, path, reason)
}

// CheckApplication checks the application name and every account. All violations
// are reported; checking does not stop at the first one.
func (p *Policy) CheckApplication(app *entities.ApplicationEntity) *entities.ValidationResult {
	result := &entities.ValidationResult{Valid: true}
	if app == nil {
		p.deny(result, RuleApplication, "", "no request")
		return result
	}
	if !matchAny(p.config.applications, app.Name()) {
		p.deny(result, RuleApplication, "application",
			fmt.Sprintf("application %s is not allowed", app.Name()))
	}
	for i, account := range app.Accounts() {
		p.checkAccount(result, account, fmt.Sprintf("accounts[%d]", i))
	}
	return result
}

// CheckAccount checks a standalone account request against the policy. The
// application name is checked as well when it is not empty.
func (p *Policy) CheckAccount(application string, account *entities.AccountEntity) *entities.ValidationResult {
	result := &entities.ValidationResult{Valid: true}
	if application != "" && !matchAny(p.config.applications, application) {
		p.deny(result, RuleApplication, "application",
			fmt.Sprintf("application %s is not allowed", application))
	}
	p.checkAccount(result, account, "")
	return result
}

func (p *Policy) checkAccount(result *entities.ValidationResult, account *entities.AccountEntity, path string) {
	if account == nil {
		p.deny(result, RuleApplication, path, "no account")
		return
	}

	if p.config.strictDelete && account.Is(entities.AccountDelete) {
		if account.Size() > 0 {
			p.deny(result, RuleDelete, join(path, "attributes"),
				fmt.Sprintf("delete of account %s must not carry attributes", account.ID()))
		}
		if account.HasEntitlements() {
			p.deny(result, RuleDelete, join(path, "entitlements"),
				fmt.Sprintf("delete of account %s must not carry entitlements", account.ID()))
		}
	}

	for i, ns := range account.Namespace() {
		nsPath := fmt.Sprintf("%s[%d]", join(path, "entitlements"), i)
		if !matchAny(p.config.namespaces, ns.Name()) {
			p.deny(result, RuleNamespace, join(nsPath, "namespace"),
				fmt.Sprintf("namespace %s is not allowed", ns.Name()))
			continue
		}
		for j, action := range ns.Actions() {
			level := p.config.assessor.AssessAction(ns.Name(), action)
			if level > p.config.maxRisk {
				p.deny(result, RuleRisk, fmt.Sprintf("%s.actions[%d]", nsPath, j),
					fmt.Sprintf("%s risk exceeds maximum %s", level, p.config.maxRisk))
			}
		}
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
