// Package parser adapts request formats other than JSON to the schema codec.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/mailru/easyjson/jwriter"
	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
	"gopkg.in/yaml.v3"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// YamlRequestParser implements RequestParser for YAML.
// Documents are transcoded to JSON with their key order intact and then decoded
// by a schema.Codec, so YAML and JSON requests follow identical rules.
type YamlRequestParser struct {
	codec *schema.Codec
}

var _ ports.RequestParser = (*YamlRequestParser)(nil)

// NewYamlRequestParser creates a new YamlRequestParser decoding with codec.
// A nil codec uses the default codec settings.
func NewYamlRequestParser(codec *schema.Codec) *YamlRequestParser {
	if codec == nil {
		codec = schema.NewCodec()
	}
	return &YamlRequestParser{codec: codec}
}

// ParseApplication decodes an application-wrapped YAML request.
func (p *YamlRequestParser) ParseApplication(data []byte) (*entities.ApplicationEntity, error) {
	doc, err := ToJSON(data)
	if err != nil {
		return nil, err
	}
	return p.codec.UnmarshalApplication(doc)
}

// ParseAccount decodes a standalone YAML account request.
func (p *YamlRequestParser) ParseAccount(data []byte) (*entities.AccountEntity, error) {
	doc, err := ToJSON(data)
	if err != nil {
		return nil, err
	}
	return p.codec.UnmarshalAccount(doc)
}

// Parse decodes either request shape.
func (p *YamlRequestParser) Parse(data []byte) (schema.Request, error) {
	doc, err := ToJSON(data)
	if err != nil {
		return schema.Request{}, err
	}
	return p.codec.Unmarshal(doc)
}

// ToJSON transcodes a single YAML document into compact JSON. Mapping key order is
// preserved and scalars keep their resolved YAML type.
func ToJSON(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &errors.WireFormatError{Operation: "decode", Type: "yaml", Err: err}
	}
	if root.Kind == 0 {
		return nil, &errors.WireFormatError{Operation: "decode", Type: "yaml", Err: fmt.Errorf("empty document")}
	}

	w := &jwriter.Writer{NoEscapeHTML: true}
	if err := writeNode(w, &root); err != nil {
		return nil, &errors.WireFormatError{Operation: "transcode", Type: "yaml", Err: err}
	}
	out, err := w.BuildBytes()
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "transcode", Type: "yaml", Err: err}
	}
	return out, nil
}

func writeNode(w *jwriter.Writer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return fmt.Errorf("line %d: expected a single document", n.Line)
		}
		return writeNode(w, n.Content[0])
	case yaml.AliasNode:
		return writeNode(w, n.Alias)
	case yaml.MappingNode:
		return writeMapping(w, n)
	case yaml.SequenceNode:
		w.RawByte('[')
		for i, item := range n.Content {
			if i > 0 {
				w.RawByte(',')
			}
			if err := writeNode(w, item); err != nil {
				return err
			}
		}
		w.RawByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalar(w, n)
	default:
		return fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func writeMapping(w *jwriter.Writer, n *yaml.Node) error {
	w.RawByte('{')
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		if key.Tag == "!!merge" {
			return fmt.Errorf("line %d: merge keys are not supported", key.Line)
		}
		if i > 0 {
			w.RawByte(',')
		}
		w.String(key.Value)
		w.RawByte(':')
		if err := writeNode(w, value); err != nil {
			return err
		}
	}
	w.RawByte('}')
	return nil
}

func writeScalar(w *jwriter.Writer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		w.RawString("null")
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		w.Bool(b)
	case "!!int":
		if jsonNumber.MatchString(n.Value) {
			w.RawString(n.Value)
			return nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		w.RawString(strconv.FormatInt(i, 10))
	case "!!float":
		if jsonNumber.MatchString(n.Value) {
			w.RawString(n.Value)
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}
		w.RawString(strconv.FormatFloat(f, 'g', -1, 64))
	default:
		w.String(n.Value)
	}
	return nil
}
