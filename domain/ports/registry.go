package ports

// SchemaRegistry manages JSON schemas for request kinds ("application", "account").
type SchemaRegistry interface {
	// Register adds a schema generated from a Go struct.
	Register(kind string, model interface{}) error

	// GetSchema retrieves the JSON Schema for a request kind.
	GetSchema(kind string) (string, bool)

	// List returns all registered kinds.
	List() []string
}
