package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLogAttrWire(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{
			name:     "string",
			attr:     slog.String("key", "value"),
			wantType: "string",
			wantVal:  "value",
		},
		{
			name:     "int64",
			attr:     slog.Int64("key", 123),
			wantType: "int64",
			wantVal:  "123",
		},
		{
			name:     "bool",
			attr:     slog.Bool("key", true),
			wantType: "bool",
			wantVal:  "true",
		},
		{
			name:     "float64",
			attr:     slog.Float64("key", 1.23),
			wantType: "float64",
			wantVal:  "1.23",
		},
		{
			name:     "time",
			attr:     slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantType: "time",
			wantVal:  "2024-01-01T00:00:00Z",
		},
		{
			name:     "duration",
			attr:     slog.Duration("key", 1*time.Hour),
			wantType: "duration",
			wantVal:  "1h0m0s",
		},
		{
			name:     "error",
			attr:     slog.Any("key", errors.New("test error")),
			wantType: "error",
			wantVal:  "test error",
		},
		{
			name:     "stringer",
			attr:     slog.Any("key", entities.AccountDelete),
			wantType: "string",
			wantVal:  "delete",
		},
		{
			name:     "nil",
			attr:     slog.Any("key", nil),
			wantType: "any",
			wantVal:  "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := toLogAttrWire(tt.attr)
			assert.Equal(t, tt.attr.Key, wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			assert.Equal(t, tt.wantVal, wire.Value)
		})
	}
}

func TestToLogAttrWire_JSON(t *testing.T) {
	type outcome struct {
		Account string `json:"account"`
	}
	obj := outcome{Account: "azitterbacke"}

	wire := toLogAttrWire(slog.Any("key", obj))
	assert.Equal(t, "json", wire.Type)

	var decoded outcome
	require.NoError(t, json.Unmarshal([]byte(wire.Value), &decoded))
	assert.Equal(t, obj, decoded)
}

func TestToLogAttrWire_LogValuer(t *testing.T) {
	wire := toLogAttrWire(slog.Any("key", logValuer{val: "resolved"}))
	assert.Equal(t, "string", wire.Type)
	assert.Equal(t, "resolved", wire.Value)
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(nil)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func TestNewHandler_LevelVar(t *testing.T) {
	var level slog.LevelVar
	h := NewHandler(&bytes.Buffer{}, WithLevel(&level))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))

	level.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogMessageWire {
	t.Helper()
	var msgs []LogMessageWire
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var msg LogMessageWire
		require.NoError(t, json.Unmarshal([]byte(line), &msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestHandler_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, WithLevel(slog.LevelDebug), WithSource(true))

	logger.Debug("account applied", slog.String("account", "azitterbacke"))
	logger.Info("dispatch finished", slog.Int("applied", 3))

	msgs := decodeLines(t, &buf)
	require.Len(t, msgs, 2)

	assert.Equal(t, "DEBUG", msgs[0].Level)
	assert.Equal(t, "account applied", msgs[0].Message)
	assert.Equal(t, []LogAttrWire{{Key: "account", Type: "string", Value: "azitterbacke"}}, msgs[0].Attrs)
	assert.Contains(t, msgs[0].Source, "log_test.go:")
	assert.False(t, msgs[0].Timestamp.IsZero())

	assert.Equal(t, "INFO", msgs[1].Level)
	assert.Equal(t, "3", msgs[1].Attrs[0].Value)
}

func TestHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf).
		With(slog.String("request_id", "req-1")).
		WithGroup("account").
		With(slog.String("id", "amusterfrau"))

	logger.Info("account failed",
		slog.Group("error", slog.String("kind", "MissingField"), slog.String("path", "action")),
		slog.Group("empty"))

	msgs := decodeLines(t, &buf)
	require.Len(t, msgs, 1)

	var keys []string
	for _, a := range msgs[0].Attrs {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"request_id", "account.id", "account.error.kind", "account.error.path"}, keys)
}

func TestHandler_FiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, WithLevel(slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("request denied")

	msgs := decodeLines(t, &buf)
	require.Len(t, msgs, 1)
	assert.Equal(t, "request denied", msgs[0].Message)
	assert.Empty(t, msgs[0].Source)
}
