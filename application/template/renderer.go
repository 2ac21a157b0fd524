// Package template renders request templates before they are decoded.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/mailru/easyjson/jwriter"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
// Variables are reachable as {{.vars.key}}; {{json .vars.key}} emits a quoted
// JSON string.
type GoTemplateEngine struct {
	config templateConfig
}

var _ ports.TemplateEngine = (*GoTemplateEngine)(nil)

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) *GoTemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

var funcs = template.FuncMap{
	"json": quote,
}

// quote renders v as a JSON string literal without HTML escaping.
func quote(v interface{}) string {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.String(fmt.Sprint(v))
	return string(w.Buffer.BuildBytes())
}

// Render processes the raw request bytes with the provided variables.
func (e *GoTemplateEngine) Render(raw []byte, vars map[string]interface{}) ([]byte, error) {
	tmpl := template.New("request").Funcs(funcs)
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "parse", Type: "template", Err: err}
	}

	if vars == nil {
		vars = map[string]interface{}{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"vars": vars}); err != nil {
		return nil, &errors.WireFormatError{Operation: "render", Type: "template", Err: err}
	}
	return buf.Bytes(), nil
}
