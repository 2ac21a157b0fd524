// Package log provides a slog handler that writes one JSON object per record.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Handler implements slog.Handler, writing each record as a LogMessageWire line.
type Handler struct {
	opts   handlerConfig
	mu     *sync.Mutex
	w      io.Writer
	attrs  []LogAttrWire
	prefix string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Leveler
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
// A *slog.LevelVar may be passed to change the level at runtime.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		if level != nil {
			c.level = level
		}
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a new Handler writing to w with the given options.
// A nil writer writes to stderr.
func NewHandler(w io.Writer, opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if w == nil {
		w = os.Stderr
	}
	return &Handler{opts: cfg, mu: &sync.Mutex{}, w: w}
}

// New returns a logger backed by a new Handler.
func New(w io.Writer, opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(w, opts...))
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle serializes a slog.Record and writes it as a single line.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		msg.Source = fmt.Sprintf("%s:%d", frame.File, frame.Line)
	}

	msg.Attrs = append(msg.Attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = appendAttr(msg.Attrs, h.prefix, attr)
		return true
	})

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("log: marshal record: %w", err)
	}
	data = append(data, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(data)
	return err
}

// WithAttrs returns a new Handler that includes the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, attr := range attrs {
		h2.attrs = appendAttr(h2.attrs, h.prefix, attr)
	}
	return h2
}

// WithGroup returns a new Handler that qualifies later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.attrs = append([]LogAttrWire(nil), h.attrs...)
	return &h2
}

// appendAttr flattens groups into dotted keys and drops empty attributes.
func appendAttr(dst []LogAttrWire, prefix string, attr slog.Attr) []LogAttrWire {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if len(group) == 0 {
			return dst
		}
		p := prefix
		if attr.Key != "" {
			p = prefix + attr.Key + "."
		}
		for _, a := range group {
			dst = appendAttr(dst, p, a)
		}
		return dst
	}
	wire := toLogAttrWire(attr)
	wire.Key = prefix + strings.TrimSpace(wire.Key)
	return append(dst, wire)
}
