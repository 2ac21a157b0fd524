package entities

import (
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// accountConfig collects the optional parts of an account.
type accountConfig struct {
	attributes []AttributeValue
	namespaces []Namespace
}

// AccountOption configures an AccountEntity at construction.
type AccountOption func(*accountConfig)

// WithAttributes appends attribute changes to the account.
func WithAttributes(attrs ...AttributeValue) AccountOption {
	return func(c *accountConfig) {
		c.attributes = append(c.attributes, attrs...)
	}
}

// WithNamespaces appends entitlement namespaces to the account.
func WithNamespaces(namespaces ...Namespace) AccountOption {
	return func(c *accountConfig) {
		c.namespaces = append(c.namespaces, namespaces...)
	}
}

// AccountEntity is one account-level operation within a provisioning request.
//
// The model does not enforce that delete operations carry no attributes and no
// namespaces; see the policy package for that check.
type AccountEntity struct {
	attributes *orderedmap.OrderedMap[string, AttributeValue]
	id         string
	namespaces []Namespace // nil when the request carries no entitlements
	action     AccountAction
}

// NewAccountEntity creates an account operation.
// Attribute ids and namespace names must be unique within the account.
func NewAccountEntity(id string, action AccountAction, opts ...AccountOption) (*AccountEntity, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}

	var cfg accountConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	attributes := orderedmap.New[string, AttributeValue](len(cfg.attributes))
	for _, a := range cfg.attributes {
		if a.id == "" {
			return nil, ErrEmptyID
		}
		if _, present := attributes.Set(a.id, a); present {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAttribute, a.id)
		}
	}

	var namespaces []Namespace
	if len(cfg.namespaces) > 0 {
		seen := make(map[string]struct{}, len(cfg.namespaces))
		for _, ns := range cfg.namespaces {
			if ns.name == "" || len(ns.actions) == 0 {
				return nil, fmt.Errorf("%w: %q", ErrNoActions, ns.name)
			}
			if _, dup := seen[ns.name]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateNamespace, ns.name)
			}
			seen[ns.name] = struct{}{}
		}
		namespaces = slices.Clone(cfg.namespaces)
	}

	return &AccountEntity{
		id:         id,
		action:     action,
		attributes: attributes,
		namespaces: namespaces,
	}, nil
}

// ID returns the stable account identifier.
func (a *AccountEntity) ID() string { return a.id }

// Action returns the requested operation.
func (a *AccountEntity) Action() AccountAction { return a.action }

// Is reports whether the account requests action.
func (a *AccountEntity) Is(action AccountAction) bool { return a.action == action }

// Size returns the number of attribute changes.
func (a *AccountEntity) Size() int { return a.attributes.Len() }

// Value looks up a single attribute. Absence is reported by the boolean, not an error.
func (a *AccountEntity) Value(id string) (Value, bool) {
	attr, ok := a.attributes.Get(id)
	if !ok {
		return Value{}, false
	}
	return attr.value, true
}

// Attributes returns the attribute changes in request order.
func (a *AccountEntity) Attributes() []AttributeValue {
	result := make([]AttributeValue, 0, a.attributes.Len())
	for pair := a.attributes.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Namespace returns the entitlement namespaces in request order.
// It returns nil, not an empty slice, when the request carried no entitlements.
func (a *AccountEntity) Namespace() []Namespace {
	if a.namespaces == nil {
		return nil
	}
	return slices.Clone(a.namespaces)
}

// HasEntitlements reports whether the account carries any namespace.
func (a *AccountEntity) HasEntitlements() bool { return a.namespaces != nil }

// Lookup returns the namespace with the given name.
func (a *AccountEntity) Lookup(name string) (Namespace, bool) {
	for _, ns := range a.namespaces {
		if ns.name == name {
			return ns, true
		}
	}
	return Namespace{}, false
}

// ToAssign returns the assign actions of the namespace, or nil if it is absent.
func (a *AccountEntity) ToAssign(namespace string) []EntitlementAction {
	ns, _ := a.Lookup(namespace)
	return ns.ToAssign()
}

// ToRevoke returns the revoke actions of the namespace, or nil if it is absent.
func (a *AccountEntity) ToRevoke(namespace string) []EntitlementAction {
	ns, _ := a.Lookup(namespace)
	return ns.ToRevoke()
}

// ToModify returns the modify actions of the namespace, or nil if it is absent.
func (a *AccountEntity) ToModify(namespace string) []EntitlementAction {
	ns, _ := a.Lookup(namespace)
	return ns.ToModify()
}

// Equal reports whether both accounts describe the same operation.
func (a *AccountEntity) Equal(other *AccountEntity) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id == other.id &&
		a.action == other.action &&
		slices.Equal(a.Attributes(), other.Attributes()) &&
		(a.namespaces == nil) == (other.namespaces == nil) &&
		slices.EqualFunc(a.namespaces, other.namespaces, Namespace.Equal)
}

// String returns a short description for logs.
func (a *AccountEntity) String() string {
	return fmt.Sprintf("%s %s (%d attributes, %d namespaces)", a.action, a.id, a.attributes.Len(), len(a.namespaces))
}
