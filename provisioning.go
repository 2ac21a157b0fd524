// Package provisioning turns raw provisioning requests into connector calls.
//
// A Pipeline decodes a JSON request with the schema codec, optionally validates
// the raw payload against the published JSON Schema first, and hands the decoded
// accounts to a dispatcher in request order:
//
//	p, err := provisioning.New(myConnector, provisioning.WithPolicy(pol))
//	report, err := p.Process(ctx, body)
//
// Lower-level building blocks live in application/schema, application/dispatch
// and domain/policy.
package provisioning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reglet-dev/provisioning-sdk/application/dispatch"
	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/application/validation"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// pipelineConfig holds configuration for the Pipeline.
type pipelineConfig struct {
	codec              *schema.Codec
	validator          ports.PayloadValidator
	policy             ports.RequestPolicy
	logger             *slog.Logger
	defaultApplication string
	dispatchOpts       []dispatch.Option
	validatePayload    bool
}

func defaultPipelineConfig() pipelineConfig {
	return pipelineConfig{
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures a Pipeline.
type Option func(*pipelineConfig)

// WithCodec sets the codec used to decode requests.
func WithCodec(codec *schema.Codec) Option {
	return func(c *pipelineConfig) {
		c.codec = codec
	}
}

// WithPayloadValidation validates raw documents against the JSON Schema before
// decoding. A nil validator uses the default schema registry.
func WithPayloadValidation(v ports.PayloadValidator) Option {
	return func(c *pipelineConfig) {
		c.validatePayload = true
		c.validator = v
	}
}

// WithPolicy denies requests that violate p before anything is dispatched.
func WithPolicy(p ports.RequestPolicy) Option {
	return func(c *pipelineConfig) {
		c.policy = p
	}
}

// WithLogger sets the logger shared by the codec and the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(c *pipelineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultApplication names the application standalone account requests belong to.
func WithDefaultApplication(name string) Option {
	return func(c *pipelineConfig) {
		c.defaultApplication = name
	}
}

// WithDispatchOptions passes options through to the dispatcher.
func WithDispatchOptions(opts ...dispatch.Option) Option {
	return func(c *pipelineConfig) {
		c.dispatchOpts = append(c.dispatchOpts, opts...)
	}
}

// Pipeline decodes, checks and dispatches provisioning requests.
// It is safe for concurrent use if the provisioner is.
type Pipeline struct {
	config     pipelineConfig
	dispatcher *dispatch.Dispatcher
}

// New creates a Pipeline dispatching to provisioner.
func New(provisioner ports.AccountProvisioner, opts ...Option) (*Pipeline, error) {
	if provisioner == nil {
		return nil, fmt.Errorf("provisioning: nil provisioner")
	}
	cfg := defaultPipelineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.codec == nil {
		cfg.codec = schema.NewCodec(schema.WithLogger(cfg.logger))
	}
	if cfg.validatePayload && cfg.validator == nil {
		registry, err := schema.DefaultRegistry()
		if err != nil {
			return nil, err
		}
		cfg.validator = validation.NewPayloadValidator(registry)
	}

	dispatchOpts := []dispatch.Option{dispatch.WithLogger(cfg.logger)}
	if cfg.policy != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithPolicy(cfg.policy))
	}
	dispatchOpts = append(dispatchOpts, cfg.dispatchOpts...)

	return &Pipeline{
		config:     cfg,
		dispatcher: dispatch.New(provisioner, dispatchOpts...),
	}, nil
}

// Decode validates (when enabled) and decodes a request without dispatching it.
func (p *Pipeline) Decode(data []byte) (schema.Request, error) {
	if p.config.validatePayload {
		result, err := p.config.validator.Validate(data)
		if err != nil {
			return schema.Request{}, err
		}
		if !result.Valid {
			return schema.Request{}, payloadError(result)
		}
	}
	return p.config.codec.Unmarshal(data)
}

// Process decodes data and dispatches every account it contains.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*dispatch.Report, error) {
	req, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	if req.IsApplication() {
		return p.dispatcher.DispatchApplication(ctx, req.Application)
	}
	return p.dispatcher.DispatchAccount(ctx, p.config.defaultApplication, req.Account)
}

// ProcessApplication dispatches an already decoded application request.
func (p *Pipeline) ProcessApplication(ctx context.Context, app *entities.ApplicationEntity) (*dispatch.Report, error) {
	return p.dispatcher.DispatchApplication(ctx, app)
}

// payloadError folds a failed validation into a single MalformedRequest located
// at the first violation.
func payloadError(result *entities.ValidationResult) error {
	if len(result.Errors) == 0 {
		return errors.NewSchemaError(errors.MalformedRequest, "", "payload does not match the request schema")
	}
	messages := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		messages = append(messages, e.Message)
	}
	return errors.NewSchemaError(errors.MalformedRequest, result.Errors[0].Field, "%s", strings.Join(messages, "; "))
}
