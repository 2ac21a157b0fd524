package policy

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.DenialHandler = (*StderrDenialHandler)(nil)
var _ ports.DenialHandler = (*NopDenialHandler)(nil)
var _ ports.DenialHandler = (*SlogDenialHandler)(nil)

// StderrDenialHandler logs denials to stderr.
type StderrDenialHandler struct{}

func (h *StderrDenialHandler) OnDenial(rule, path, reason string) {
	fmt.Fprintf(os.Stderr, "Request Denied [%s]: %s (Reason: %s)\n", rule, path, reason)
}

// NopDenialHandler does nothing.
type NopDenialHandler struct{}

func (h *NopDenialHandler) OnDenial(rule, path, reason string) {}

// SlogDenialHandler reports denials as warnings on a structured logger.
type SlogDenialHandler struct {
	Logger *slog.Logger
}

func (h *SlogDenialHandler) OnDenial(rule, path, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("request denied",
		slog.String("rule", rule),
		slog.String("path", path),
		slog.String("reason", reason))
}
