package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// LogMessageWire is the JSON line written for each log record.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`        // 24 bytes
	Attrs     []LogAttrWire `json:"attrs,omitempty"`  // 24 bytes (slice)
	Level     string        `json:"level"`            // 16 bytes
	Message   string        `json:"message"`          // 16 bytes
	Source    string        `json:"source,omitempty"` // 16 bytes
}

// LogAttrWire represents a single slog attribute for wire transfer.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`  // "string", "int64", "bool", "float64", "time", "error", "any"
	Value string `json:"value"` // String representation of the value
}

// toLogAttrWire converts a slog.Attr to LogAttrWire.
func toLogAttrWire(attr slog.Attr) LogAttrWire {
	wire := LogAttrWire{Key: attr.Key}
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		wire.Type, wire.Value = "string", v.String()
	case slog.KindInt64:
		wire.Type, wire.Value = "int64", strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		wire.Type, wire.Value = "uint64", strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		wire.Type, wire.Value = "bool", strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		wire.Type, wire.Value = "float64", strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type, wire.Value = "time", v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type, wire.Value = "duration", v.Duration().String()
	case slog.KindGroup:
		// The handler flattens groups before they get here.
		wire.Type, wire.Value = "group", fmt.Sprintf("%v", v.Group())
	default:
		wire.Type, wire.Value = anyValue(v.Any())
	}
	return wire
}

// anyValue renders arbitrary values. Errors and enum-like types with a String
// method use their text; everything else is tried as JSON.
func anyValue(v any) (typ, value string) {
	switch x := v.(type) {
	case nil:
		return "any", "<nil>"
	case error:
		return "error", x.Error()
	case fmt.Stringer:
		return "string", x.String()
	}
	if data, err := json.Marshal(v); err == nil {
		return "json", string(data)
	}
	return "any", fmt.Sprintf("%v", v)
}
