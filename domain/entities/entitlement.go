package entities

import (
	"fmt"
	"slices"
)

// EntitlementAction is one assign, revoke or modify action against an entitlement.
type EntitlementAction struct {
	attributes []AttributeValue
	operation  EntitlementOperation
	risk       Risk
	hasRisk    bool
}

// NewEntitlementAction creates an action without a stated risk.
func NewEntitlementAction(op EntitlementOperation, attrs ...AttributeValue) (EntitlementAction, error) {
	if !op.Valid() {
		return EntitlementAction{}, fmt.Errorf("%w: %d", ErrUnknownAction, op)
	}
	for _, a := range attrs {
		if a.id == "" {
			return EntitlementAction{}, ErrEmptyID
		}
	}
	return EntitlementAction{operation: op, attributes: slices.Clone(attrs)}, nil
}

// WithRisk returns a copy of the action with the risk stated explicitly.
func (e EntitlementAction) WithRisk(r Risk) EntitlementAction {
	e.risk = r
	e.hasRisk = true
	return e
}

// Operation returns the requested operation.
func (e EntitlementAction) Operation() EntitlementOperation { return e.operation }

// Is reports whether the action requests op.
func (e EntitlementAction) Is(op EntitlementOperation) bool { return e.operation == op }

// Risk returns the stated risk, or DefaultRisk if the request stated none.
func (e EntitlementAction) Risk() Risk {
	if !e.hasRisk {
		return DefaultRisk
	}
	return e.risk
}

// HasRisk reports whether the risk was stated explicitly.
func (e EntitlementAction) HasRisk() bool { return e.hasRisk }

// Size returns the number of attributes.
func (e EntitlementAction) Size() int { return len(e.attributes) }

// Attributes returns the attributes in request order.
func (e EntitlementAction) Attributes() []AttributeValue {
	return slices.Clone(e.attributes)
}

// Value returns the value of the first attribute named id.
func (e EntitlementAction) Value(id string) (Value, bool) {
	for _, a := range e.attributes {
		if a.id == id {
			return a.value, true
		}
	}
	return Value{}, false
}

// Equal reports whether both actions carry the same operation, risk and attributes.
func (e EntitlementAction) Equal(other EntitlementAction) bool {
	return e.operation == other.operation &&
		e.hasRisk == other.hasRisk &&
		e.risk == other.risk &&
		slices.Equal(e.attributes, other.attributes)
}

// Namespace groups entitlement actions under a namespace such as "group" or "role".
type Namespace struct {
	name    string
	actions []EntitlementAction
}

// NewNamespace creates a namespace. At least one action is required.
func NewNamespace(name string, actions ...EntitlementAction) (Namespace, error) {
	if name == "" {
		return Namespace{}, ErrEmptyID
	}
	if len(actions) == 0 {
		return Namespace{}, fmt.Errorf("%w: %s", ErrNoActions, name)
	}
	return Namespace{name: name, actions: slices.Clone(actions)}, nil
}

// Name returns the namespace identifier.
func (n Namespace) Name() string { return n.name }

// Len returns the number of actions.
func (n Namespace) Len() int { return len(n.actions) }

// Actions returns the actions in request order.
func (n Namespace) Actions() []EntitlementAction {
	return slices.Clone(n.actions)
}

// ToAssign returns the assign actions in request order.
func (n Namespace) ToAssign() []EntitlementAction { return n.filter(EntitlementAssign) }

// ToRevoke returns the revoke actions in request order.
func (n Namespace) ToRevoke() []EntitlementAction { return n.filter(EntitlementRevoke) }

// ToModify returns the modify actions in request order.
func (n Namespace) ToModify() []EntitlementAction { return n.filter(EntitlementModify) }

func (n Namespace) filter(op EntitlementOperation) []EntitlementAction {
	var result []EntitlementAction
	for _, a := range n.actions {
		if a.operation == op {
			result = append(result, a)
		}
	}
	return result
}

// Equal reports whether both namespaces have the same name and actions.
func (n Namespace) Equal(other Namespace) bool {
	return n.name == other.name && slices.EqualFunc(n.actions, other.actions, EntitlementAction.Equal)
}
