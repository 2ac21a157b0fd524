package entities

import (
	"strconv"
)

// ValueKind enumerates the JSON scalar kinds an attribute value can take.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// String returns the JSON type name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a scalar attribute value.
// Numbers keep the literal text they were created from so that they are written back
// exactly as they were read. The zero Value is null.
type Value struct {
	text string
	kind ValueKind
	b    bool
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a number value holding an integer.
func Int(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// Float returns a number value holding a float in its shortest representation.
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a number value from a JSON number literal.
// The literal is not re-formatted; callers must pass valid JSON number syntax.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// Kind reports the scalar kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Literal returns the number literal and whether v is a number.
func (v Value) Literal() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.text, true
}

// Int64 parses a number value as an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	return n, err == nil
}

// Float64 parses a number value as a float.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Interface converts v to the natural Go type: nil, string, bool, int64 or float64.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindBool:
		return v.b
	case KindNumber:
		if n, ok := v.Int64(); ok {
			return n
		}
		f, _ := v.Float64()
		return f
	default:
		return nil
	}
}

// GoString renders v the way it appears on the wire.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.text)
	case KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}
