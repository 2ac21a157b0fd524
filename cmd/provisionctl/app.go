package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/provisioning-sdk/application/config"
	"github.com/reglet-dev/provisioning-sdk/application/schema"
	"github.com/reglet-dev/provisioning-sdk/application/template"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/infrastructure/parser"
	"github.com/reglet-dev/provisioning-sdk/internal/bounded"
	"github.com/reglet-dev/provisioning-sdk/log"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// app carries the process streams shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// inputFlags are accepted by every command that reads a request.
type inputFlags struct {
	config string
	format string
	vars   varFlag
}

func (f *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "Path to a settings YAML file")
	fs.StringVar(&f.format, "format", "", "Request format: json or yaml (default: from the file extension)")
	fs.Var(&f.vars, "var", "Render the request as a template with key=value (repeatable)")
}

// varFlag collects repeated key=value flags.
type varFlag map[string]interface{}

func (v *varFlag) String() string {
	if v == nil || *v == nil {
		return ""
	}
	pairs := make([]string, 0, len(*v))
	for k, val := range *v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(pairs, ",")
}

func (v *varFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if *v == nil {
		*v = varFlag{}
	}
	(*v)[key] = value
	return nil
}

// environment is the configured library stack for one command run.
type environment struct {
	settings *config.Settings
	logger   *slog.Logger
	codec    *schema.Codec
}

func (a *app) environment(f *inputFlags) (*environment, error) {
	settings := config.Default()
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}
	logger := log.New(a.stderr,
		log.WithLevel(settings.LogLevel()),
		log.WithSource(settings.Log.Source))
	return &environment{
		settings: settings,
		logger:   logger,
		codec:    schema.NewCodec(settings.CodecOptions(logger)...),
	}, nil
}

// request is a raw request read from a file or stdin.
type request struct {
	name   string
	format string
	data   []byte
}

// readRequest reads path, or stdin when path is "-", and renders it when
// template variables were given.
func (a *app) readRequest(env *environment, path string, in *inputFlags) (*request, error) {
	format, err := resolveFormat(path, in.format)
	if err != nil {
		return nil, err
	}

	r := a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read request: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := bounded.ReadAll(r, env.settings.Codec.MaxRequestSize)
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}

	if len(in.vars) > 0 {
		data, err = template.NewGoTemplateEngine().Render(data, in.vars)
		if err != nil {
			return nil, err
		}
	}
	return &request{name: path, format: format, data: data}, nil
}

func resolveFormat(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return formatJSON, nil
	}
}

// json returns the request as a JSON document.
func (r *request) json() ([]byte, error) {
	if r.format == formatYAML {
		return parser.ToJSON(r.data)
	}
	return r.data, nil
}

// decode decodes the request with the environment's codec.
func (e *environment) decode(r *request) (schema.Request, error) {
	if r.format == formatYAML {
		return parser.NewYamlRequestParser(e.codec).Parse(r.data)
	}
	return e.codec.Unmarshal(r.data)
}

// asApplication wraps a single account request in an application named name.
func asApplication(req schema.Request, name string) (*entities.ApplicationEntity, error) {
	if req.IsApplication() {
		return req.Application, nil
	}
	return entities.NewApplicationEntity(name, req.Account)
}

// singleArg returns the only positional argument of fs.
func singleArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("expected exactly one %s, got %d", what, fs.NArg())
	}
	return fs.Arg(0), nil
}
