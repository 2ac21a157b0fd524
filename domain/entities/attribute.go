package entities

// AttributeValue is a single named attribute change.
// It is comparable; two values are equal when both id and value are equal.
type AttributeValue struct {
	id    string
	value Value
}

// NewAttributeValue creates an attribute change. The id must not be empty.
func NewAttributeValue(id string, value Value) (AttributeValue, error) {
	if id == "" {
		return AttributeValue{}, ErrEmptyID
	}
	return AttributeValue{id: id, value: value}, nil
}

// Attr is like NewAttributeValue for a string value but panics on an empty id.
// It is meant for literals in tests and examples.
func Attr(id, value string) AttributeValue {
	a, err := NewAttributeValue(id, String(value))
	if err != nil {
		panic(err)
	}
	return a
}

// ID returns the attribute name.
func (a AttributeValue) ID() string { return a.id }

// Value returns the attribute value.
func (a AttributeValue) Value() Value { return a.value }
