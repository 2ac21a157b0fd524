package entities

import "fmt"

// AccountAction is the operation requested for an account.
type AccountAction int

const (
	AccountCreate AccountAction = iota
	AccountModify
	AccountDelete
)

// String returns the wire name of the action.
func (a AccountAction) String() string {
	switch a {
	case AccountCreate:
		return "create"
	case AccountModify:
		return "modify"
	case AccountDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the defined actions.
func (a AccountAction) Valid() bool {
	return a >= AccountCreate && a <= AccountDelete
}

// ParseAccountAction converts a wire name into an AccountAction.
// Matching is case-sensitive.
func ParseAccountAction(s string) (AccountAction, error) {
	switch s {
	case "create":
		return AccountCreate, nil
	case "modify":
		return AccountModify, nil
	case "delete":
		return AccountDelete, nil
	}
	return AccountCreate, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// EntitlementOperation is the operation requested for an entitlement.
type EntitlementOperation int

const (
	EntitlementAssign EntitlementOperation = iota
	EntitlementRevoke
	EntitlementModify
)

// String returns the wire name of the operation.
func (o EntitlementOperation) String() string {
	switch o {
	case EntitlementAssign:
		return "assign"
	case EntitlementRevoke:
		return "revoke"
	case EntitlementModify:
		return "modify"
	default:
		return "unknown"
	}
}

// Valid reports whether o is one of the defined operations.
func (o EntitlementOperation) Valid() bool {
	return o >= EntitlementAssign && o <= EntitlementModify
}

// ParseEntitlementOperation converts a wire name into an EntitlementOperation.
// Matching is case-sensitive.
func ParseEntitlementOperation(s string) (EntitlementOperation, error) {
	switch s {
	case "assign":
		return EntitlementAssign, nil
	case "revoke":
		return EntitlementRevoke, nil
	case "modify":
		return EntitlementModify, nil
	}
	return EntitlementAssign, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}
