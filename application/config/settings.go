// Package config loads provisioning tool settings and reads free-form connector
// configuration.
package config

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
	"gopkg.in/yaml.v3"
)

// validate caches struct metadata across calls.
var validate = newValidator()

// newValidator registers the "glob" tag for policy allow-list patterns.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return policy.ValidPattern(fl.Field().String())
	})
	return v
}

// Settings configures the codec, policy, dispatcher and logging of a provisioning tool.
type Settings struct {
	Codec     CodecSettings    `yaml:"codec"`
	Policy    PolicySettings   `yaml:"policy"`
	Dispatch  DispatchSettings `yaml:"dispatch"`
	Log       LogSettings      `yaml:"log"`
	Connector Config           `yaml:"connector"`
}

// CodecSettings configures the request codec.
type CodecSettings struct {
	DisallowUnknownFields bool   `yaml:"disallow_unknown_fields"`
	Indent                string `yaml:"indent" validate:"omitempty,max=8"`
	MaxRequestSize        int    `yaml:"max_request_size" validate:"omitempty,min=1"`
}

// PolicySettings configures the caller-level request policy.
type PolicySettings struct {
	Applications    []string          `yaml:"applications" validate:"dive,required,glob"`
	Namespaces      []string          `yaml:"namespaces" validate:"dive,required,glob"`
	MaxRisk         string            `yaml:"max_risk" validate:"omitempty,oneof=low medium high"`
	DeleteRisk      string            `yaml:"delete_risk" validate:"omitempty,oneof=low medium high"`
	NamespaceFloors map[string]string `yaml:"namespace_floors" validate:"dive,keys,required,endkeys,oneof=low medium high"`
	StrictDelete    bool              `yaml:"strict_delete"`
}

// DispatchSettings configures the account dispatcher.
type DispatchSettings struct {
	ContinueOnError bool `yaml:"continue_on_error"`
}

// LogSettings configures the log handler.
type LogSettings struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Source bool   `yaml:"source"`
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		Log: LogSettings{Level: "info"},
	}
}

// Load reads and validates settings from a YAML file.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer f.Close()
	return Decode(f)
}

// Parse validates settings held in memory.
func Parse(data []byte) (*Settings, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads and validates settings from r. Unknown keys are rejected.
// An empty document yields Default.
func Decode(r io.Reader) (*Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, &errors.ConfigError{Err: fmt.Errorf("decode settings: %w", err)}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings. The first failing field is reported.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &errors.ConfigError{
				Field: fe.Namespace(),
				Err:   fmt.Errorf("failed on the '%s' rule with value %v", fe.Tag(), fe.Value()),
			}
		}
		return &errors.ConfigError{Err: err}
	}
	return nil
}

// CodecOptions translates the codec settings.
func (s *Settings) CodecOptions(logger *slog.Logger) []schema.Option {
	opts := []schema.Option{schema.WithLogger(logger)}
	if s.Codec.DisallowUnknownFields {
		opts = append(opts, schema.WithDisallowUnknownFields())
	}
	if s.Codec.Indent != "" {
		opts = append(opts, schema.WithIndent("", s.Codec.Indent))
	}
	if s.Codec.MaxRequestSize > 0 {
		opts = append(opts, schema.WithMaxRequestSize(s.Codec.MaxRequestSize))
	}
	return opts
}

// RiskAssessor builds the assessor described by the policy settings.
func (s *Settings) RiskAssessor() *entities.RiskAssessor {
	var opts []entities.RiskAssessorOption
	for ns, floor := range s.Policy.NamespaceFloors {
		if r, err := entities.ParseRisk(floor); err == nil {
			opts = append(opts, entities.WithNamespaceFloor(ns, r))
		}
	}
	if r, err := entities.ParseRisk(s.Policy.DeleteRisk); err == nil {
		opts = append(opts, entities.WithDeleteRisk(r))
	}
	return entities.NewRiskAssessor(opts...)
}

// PolicyOptions translates the policy settings.
func (s *Settings) PolicyOptions() []policy.PolicyOption {
	opts := []policy.PolicyOption{
		policy.WithStrictDelete(s.Policy.StrictDelete),
		policy.WithRiskAssessor(s.RiskAssessor()),
	}
	if len(s.Policy.Applications) > 0 {
		opts = append(opts, policy.WithAllowedApplications(s.Policy.Applications...))
	}
	if len(s.Policy.Namespaces) > 0 {
		opts = append(opts, policy.WithAllowedNamespaces(s.Policy.Namespaces...))
	}
	if r, err := entities.ParseRisk(s.Policy.MaxRisk); err == nil {
		opts = append(opts, policy.WithMaxRisk(r))
	}
	return opts
}

// LogLevel returns the configured slog level, info when unset.
func (s *Settings) LogLevel() slog.Level {
	switch s.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidateConfig validates a Config map against a struct with validation tags.
// It first marshals the map to JSON, then unmarshals it into the target struct,
// and finally runs the validator on the struct.
func ValidateConfig(config Config, targetStruct interface{}) error {
	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config map: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, targetStruct); err != nil {
		return fmt.Errorf("failed to unmarshal config into struct: %w", err)
	}

	if err := validate.Struct(targetStruct); err != nil {
		return &errors.ConfigError{Err: err}
	}

	return nil
}
