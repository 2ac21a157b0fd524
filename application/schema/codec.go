// Package schema maps provisioning requests between the entity model and the JSON
// wire format.
//
// Decoding is explicit and field by field: every required key is checked, enumerated
// values are matched case-sensitively and any violation is reported as a single
// errors.SchemaError carrying its kind and key path. Nothing is returned for a request
// that fails; parsing is all-or-nothing.
//
// Encoding writes keys in a fixed order and leaves out optional sections that were
// absent on the decoded request, so that for a canonical document D
//
//	MarshalApplication(UnmarshalApplication(D)) == D
//
// byte for byte. A canonical document is compact, has no insignificant whitespace,
// no empty optional arrays and no null optional members. Its strings are escaped
// one way only: a quote as \" and a backslash as \\, control characters as \n, \r,
// \t or a lowercase \u00xx, U+2028 and U+2029 as \u2028 and \u2029. Every other
// character, '/' and non-ASCII text included, is written literally. Escapes such
// as \/ or \u00e9 decode to the same value but re-encode in the canonical form.
// Documents must be valid UTF-8.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
	"github.com/reglet-dev/provisioning-sdk/internal/bounded"
)

// codecConfig holds configuration for the Codec.
type codecConfig struct {
	logger          *slog.Logger
	prefix          string
	indent          string
	disallowUnknown bool
	maxRequestSize  int
}

func defaultCodecConfig() codecConfig {
	return codecConfig{
		logger:         slog.New(slog.DiscardHandler),
		maxRequestSize: bounded.DefaultMaxRequestSize,
	}
}

// Option configures a Codec instance.
type Option func(*codecConfig)

// WithDisallowUnknownFields rejects objects carrying keys outside the wire format.
// By default unknown keys are ignored.
func WithDisallowUnknownFields() Option {
	return func(c *codecConfig) {
		c.disallowUnknown = true
	}
}

// WithIndent makes Marshal produce indented output. Indented output is not
// canonical and does not round-trip byte for byte.
func WithIndent(prefix, indent string) Option {
	return func(c *codecConfig) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithMaxRequestSize limits how many bytes DecodeApplication and DecodeAccount
// read from a stream. Values of zero or less keep the default of 1MB.
func WithMaxRequestSize(n int) Option {
	return func(c *codecConfig) {
		if n > 0 {
			c.maxRequestSize = n
		}
	}
}

// WithLogger sets the logger used to report rejected requests at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *codecConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Codec converts between provisioning entities and JSON.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	config codecConfig
}

var _ ports.RequestParser = (*Codec)(nil)

// NewCodec creates a new Codec with the given options.
func NewCodec(opts ...Option) *Codec {
	cfg := defaultCodecConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Codec{config: cfg}
}

var defaultCodec = NewCodec()

// Request is the result of decoding a document whose shape is not known in advance.
// Exactly one of the fields is set.
type Request struct {
	Application *entities.ApplicationEntity
	Account     *entities.AccountEntity
}

// IsApplication reports whether the document was application-wrapped.
func (r Request) IsApplication() bool { return r.Application != nil }

func (c *Codec) decoder() decoder {
	return decoder{disallowUnknown: c.config.disallowUnknown}
}

func (c *Codec) reject(kind string, err error) error {
	attrs := []any{slog.String("request", kind), slog.Any("error", err)}
	if k, ok := errors.KindOf(err); ok {
		attrs = append(attrs, slog.String("kind", k.String()))
	}
	c.config.logger.Debug("request rejected", attrs...)
	return err
}

// UnmarshalApplication decodes an application-wrapped request.
func (c *Codec) UnmarshalApplication(data []byte) (*entities.ApplicationEntity, error) {
	d := c.decoder()
	obj, err := d.root(data)
	if err != nil {
		return nil, c.reject(keyApplication, err)
	}
	app, err := d.application(obj, "")
	if err != nil {
		return nil, c.reject(keyApplication, err)
	}
	return app, nil
}

// UnmarshalAccount decodes a standalone account request.
func (c *Codec) UnmarshalAccount(data []byte) (*entities.AccountEntity, error) {
	d := c.decoder()
	obj, err := d.root(data)
	if err != nil {
		return nil, c.reject("account", err)
	}
	account, err := d.account(obj, "")
	if err != nil {
		return nil, c.reject("account", err)
	}
	return account, nil
}

// Unmarshal decodes either shape. A top-level "application" key selects the
// application-wrapped form; anything else is decoded as a standalone account.
func (c *Codec) Unmarshal(data []byte) (Request, error) {
	d := c.decoder()
	obj, err := d.root(data)
	if err != nil {
		return Request{}, c.reject("request", err)
	}
	if _, ok := obj[keyApplication]; ok {
		app, err := d.application(obj, "")
		if err != nil {
			return Request{}, c.reject(keyApplication, err)
		}
		return Request{Application: app}, nil
	}
	account, err := d.account(obj, "")
	if err != nil {
		return Request{}, c.reject("account", err)
	}
	return Request{Account: account}, nil
}

// ParseApplication implements ports.RequestParser.
func (c *Codec) ParseApplication(data []byte) (*entities.ApplicationEntity, error) {
	return c.UnmarshalApplication(data)
}

// ParseAccount implements ports.RequestParser.
func (c *Codec) ParseAccount(data []byte) (*entities.AccountEntity, error) {
	return c.UnmarshalAccount(data)
}

// DecodeApplication reads an application-wrapped request from r. Streams longer
// than the configured maximum request size fail with a *bounded.TooLargeError.
func (c *Codec) DecodeApplication(r io.Reader) (*entities.ApplicationEntity, error) {
	data, err := bounded.ReadAll(r, c.config.maxRequestSize)
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "read", Type: keyApplication, Err: err}
	}
	return c.UnmarshalApplication(data)
}

// DecodeAccount reads a standalone account request from r, bounded like
// DecodeApplication.
func (c *Codec) DecodeAccount(r io.Reader) (*entities.AccountEntity, error) {
	data, err := bounded.ReadAll(r, c.config.maxRequestSize)
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "read", Type: "account", Err: err}
	}
	return c.UnmarshalAccount(data)
}

// MarshalApplication encodes an application request.
func (c *Codec) MarshalApplication(app *entities.ApplicationEntity) ([]byte, error) {
	if app == nil {
		return nil, &errors.WireFormatError{Operation: "marshal", Type: keyApplication, Err: fmt.Errorf("nil entity")}
	}
	e := newEncoder()
	e.application(app)
	return c.build(e, keyApplication)
}

// MarshalAccount encodes a standalone account request.
func (c *Codec) MarshalAccount(account *entities.AccountEntity) ([]byte, error) {
	if account == nil {
		return nil, &errors.WireFormatError{Operation: "marshal", Type: "account", Err: fmt.Errorf("nil entity")}
	}
	e := newEncoder()
	e.account(account)
	return c.build(e, "account")
}

// EncodeApplication writes an application request to w.
func (c *Codec) EncodeApplication(w io.Writer, app *entities.ApplicationEntity) error {
	data, err := c.MarshalApplication(app)
	if err != nil {
		return err
	}
	return c.write(w, data, keyApplication)
}

// EncodeAccount writes a standalone account request to w.
func (c *Codec) EncodeAccount(w io.Writer, account *entities.AccountEntity) error {
	data, err := c.MarshalAccount(account)
	if err != nil {
		return err
	}
	return c.write(w, data, "account")
}

func (c *Codec) build(e encoder, kind string) ([]byte, error) {
	data, err := e.w.BuildBytes()
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "marshal", Type: kind, Err: err}
	}
	if c.config.indent == "" && c.config.prefix == "" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, c.config.prefix, c.config.indent); err != nil {
		return nil, &errors.WireFormatError{Operation: "indent", Type: kind, Err: err}
	}
	return buf.Bytes(), nil
}

func (c *Codec) write(w io.Writer, data []byte, kind string) error {
	if _, err := w.Write(data); err != nil {
		return &errors.WireFormatError{Operation: "write", Type: kind, Err: err}
	}
	return nil
}

// UnmarshalApplication decodes an application-wrapped request with the default codec.
func UnmarshalApplication(data []byte) (*entities.ApplicationEntity, error) {
	return defaultCodec.UnmarshalApplication(data)
}

// UnmarshalAccount decodes a standalone account request with the default codec.
func UnmarshalAccount(data []byte) (*entities.AccountEntity, error) {
	return defaultCodec.UnmarshalAccount(data)
}

// Unmarshal decodes either request shape with the default codec.
func Unmarshal(data []byte) (Request, error) {
	return defaultCodec.Unmarshal(data)
}

// MarshalApplication encodes an application request with the default codec.
func MarshalApplication(app *entities.ApplicationEntity) ([]byte, error) {
	return defaultCodec.MarshalApplication(app)
}

// MarshalAccount encodes a standalone account request with the default codec.
func MarshalAccount(account *entities.AccountEntity) ([]byte, error) {
	return defaultCodec.MarshalAccount(account)
}
