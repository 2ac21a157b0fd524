package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// Request kinds registered by DefaultRegistry.
const (
	KindApplication = "application"
	KindAccount     = "account"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates). Disable only for testing or hot-reloading.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry implements ports.SchemaRegistry.
type Registry struct {
	config  registryConfig
	mu      sync.Mutex
	schemas sync.Map // map[string]string (json schema)
}

// NewRegistry creates a new, empty Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// DefaultRegistry returns a registry holding the application and account request schemas.
func DefaultRegistry() (ports.SchemaRegistry, error) {
	r := NewRegistry()
	if err := r.Register(KindApplication, &ApplicationDocument{}); err != nil {
		return nil, err
	}
	if err := r.Register(KindAccount, &AccountDocument{}); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a schema generated from a Go struct.
func (r *Registry) Register(kind string, model interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.strictMode {
		if _, exists := r.schemas.Load(kind); exists {
			return fmt.Errorf("request kind %q already registered", kind)
		}
	}

	data, err := GenerateSchema(model)
	if err != nil {
		return fmt.Errorf("failed to generate schema for %s: %w", kind, err)
	}
	r.schemas.Store(kind, string(data))
	return nil
}

// GetSchema retrieves the JSON Schema for a request kind.
func (r *Registry) GetSchema(kind string) (string, bool) {
	v, ok := r.schemas.Load(kind)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// List returns all registered kinds in sorted order.
func (r *Registry) List() []string {
	var keys []string
	r.schemas.Range(func(k, v interface{}) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}
