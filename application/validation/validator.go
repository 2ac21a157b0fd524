// Package validation checks raw provisioning requests against the registered JSON
// schemas before they reach the codec.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadValidator implements ports.PayloadValidator using JSON schemas from a registry.
type PayloadValidator struct {
	registry ports.SchemaRegistry

	mu       sync.Mutex
	compiler *jsonschema.Compiler
	compiled map[string]*jsonschema.Schema
}

var _ ports.PayloadValidator = (*PayloadValidator)(nil)

// NewPayloadValidator creates a new validator.
func NewPayloadValidator(registry ports.SchemaRegistry) *PayloadValidator {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	return &PayloadValidator{
		registry: registry,
		compiler: compiler,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate picks the request kind from the document shape: a top-level
// "application" key selects the application schema, anything else the account schema.
func (v *PayloadValidator) Validate(data []byte) (*entities.ValidationResult, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		result := &entities.ValidationResult{}
		result.Add("", fmt.Sprintf("request is not well-formed JSON: %v", err))
		return result, nil
	}

	kind := schema.KindAccount
	if obj, ok := doc.(map[string]interface{}); ok {
		if _, ok := obj["application"]; ok {
			kind = schema.KindApplication
		}
	}
	return v.validate(kind, doc)
}

// ValidateKind validates data against the schema registered for kind.
func (v *PayloadValidator) ValidateKind(kind string, data []byte) (*entities.ValidationResult, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		result := &entities.ValidationResult{}
		result.Add("", fmt.Sprintf("request is not well-formed JSON: %v", err))
		return result, nil
	}
	return v.validate(kind, doc)
}

func (v *PayloadValidator) validate(kind string, doc interface{}) (*entities.ValidationResult, error) {
	sch, err := v.schema(kind)
	if err != nil {
		return nil, err
	}

	result := &entities.ValidationResult{Valid: true}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validating %s request: %w", kind, err)
		}
		for _, leaf := range leaves(ve) {
			result.Add(pointerToPath(leaf.InstanceLocation), leaf.Message)
		}
		if result.Valid {
			result.Add("", ve.Message)
		}
	}
	return result, nil
}

// schema compiles the registered schema for kind once and caches it.
func (v *PayloadValidator) schema(kind string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sch, ok := v.compiled[kind]; ok {
		return sch, nil
	}

	schemaStr, ok := v.registry.GetSchema(kind)
	if !ok {
		return nil, fmt.Errorf("no schema registered for request kind %s", kind)
	}

	url := kind + ".json"
	if err := v.compiler.AddResource(url, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", kind, err)
	}
	sch, err := v.compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", kind, err)
	}
	v.compiled[kind] = sch
	return sch, nil
}

// leaves flattens a validation error tree to the errors that have no causes,
// ordered by instance location.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		out = append(out, leaves(cause)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstanceLocation < out[j].InstanceLocation
	})
	return out
}

// pointerToPath converts a JSON pointer such as "/accounts/1/action" into the key
// path notation used by schema errors, "accounts[1].action".
func pointerToPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		if isIndex(token) {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func isIndex(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
