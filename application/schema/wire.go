package schema

// The document types below describe the wire format for schema generation only.
// Requests are never decoded into them; see Codec for the actual mapping.

// ApplicationDocument is the application-wrapped request.
type ApplicationDocument struct {
	Application string            `json:"application" jsonschema:"minLength=1,description=Name of the target application"`
	Accounts    []AccountDocument `json:"accounts" jsonschema:"minItems=1,description=Account operations in processing order"`
}

// AccountDocument is a single account operation.
type AccountDocument struct {
	ID           string              `json:"id" jsonschema:"minLength=1,description=Stable account identifier"`
	Action       string              `json:"action" jsonschema:"enum=create,enum=modify,enum=delete"`
	Attributes   []AttributeDocument `json:"attributes,omitempty"`
	Entitlements []NamespaceDocument `json:"entitlements,omitempty"`
}

// AttributeDocument is a single attribute change.
type AttributeDocument struct {
	ID    string `json:"id" jsonschema:"minLength=1"`
	Value any    `json:"value" jsonschema:"oneof_type=string;number;boolean;null"`
}

// NamespaceDocument groups entitlement actions under a namespace.
type NamespaceDocument struct {
	Namespace string                      `json:"namespace" jsonschema:"minLength=1,example=group,example=role"`
	Actions   []EntitlementActionDocument `json:"actions" jsonschema:"minItems=1"`
}

// EntitlementActionDocument is one action against an entitlement.
type EntitlementActionDocument struct {
	Action     string              `json:"action" jsonschema:"enum=assign,enum=revoke,enum=modify"`
	Risk       string              `json:"risk,omitempty" jsonschema:"enum=low,enum=medium,enum=high"`
	Attributes []AttributeDocument `json:"attributes,omitempty"`
}
