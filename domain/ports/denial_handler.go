package ports

// DenialHandler is called when a policy check denies part of a request.
// Implementations can log, collect metrics, or take other actions.
type DenialHandler interface {
	// OnDenial is called once per violation.
	// rule: the rule that failed, e.g. "application", "namespace", "risk", "delete"
	// path: location of the offending element, e.g. "accounts[0].entitlements[1]"
	// reason: human-readable denial reason
	OnDenial(rule string, path string, reason string)
}
