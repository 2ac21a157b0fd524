package schema

import (
	"fmt"
	"regexp"

	"github.com/mailru/easyjson/jwriter"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
)

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// encoder writes entities in the fixed key order of the wire format.
// Optional sections that are absent on the entity are left out entirely.
type encoder struct {
	w *jwriter.Writer
}

func newEncoder() encoder {
	return encoder{w: &jwriter.Writer{NoEscapeHTML: true}}
}

func (e encoder) key(name string, first bool) {
	if !first {
		e.w.RawByte(',')
	}
	e.w.String(name)
	e.w.RawByte(':')
}

func (e encoder) application(app *entities.ApplicationEntity) {
	e.w.RawByte('{')
	e.key(keyApplication, true)
	e.w.String(app.Name())
	e.key(keyAccounts, false)
	e.w.RawByte('[')
	for i, account := range app.Accounts() {
		if i > 0 {
			e.w.RawByte(',')
		}
		e.account(account)
	}
	e.w.RawByte(']')
	e.w.RawByte('}')
}

func (e encoder) account(account *entities.AccountEntity) {
	e.w.RawByte('{')
	e.key(keyID, true)
	e.w.String(account.ID())
	e.key(keyAction, false)
	e.w.String(account.Action().String())
	if account.Size() > 0 {
		e.key(keyAttributes, false)
		e.attributes(account.Attributes())
	}
	if namespaces := account.Namespace(); len(namespaces) > 0 {
		e.key(keyEntitlements, false)
		e.w.RawByte('[')
		for i, ns := range namespaces {
			if i > 0 {
				e.w.RawByte(',')
			}
			e.namespace(ns)
		}
		e.w.RawByte(']')
	}
	e.w.RawByte('}')
}

func (e encoder) namespace(ns entities.Namespace) {
	e.w.RawByte('{')
	e.key(keyNamespace, true)
	e.w.String(ns.Name())
	e.key(keyActions, false)
	e.w.RawByte('[')
	for i, action := range ns.Actions() {
		if i > 0 {
			e.w.RawByte(',')
		}
		e.entitlementAction(action)
	}
	e.w.RawByte(']')
	e.w.RawByte('}')
}

func (e encoder) entitlementAction(action entities.EntitlementAction) {
	e.w.RawByte('{')
	e.key(keyAction, true)
	e.w.String(action.Operation().String())
	if action.HasRisk() {
		e.key(keyRisk, false)
		e.w.String(action.Risk().String())
	}
	if action.Size() > 0 {
		e.key(keyAttributes, false)
		e.attributes(action.Attributes())
	}
	e.w.RawByte('}')
}

func (e encoder) attributes(attrs []entities.AttributeValue) {
	e.w.RawByte('[')
	for i, attr := range attrs {
		if i > 0 {
			e.w.RawByte(',')
		}
		e.w.RawByte('{')
		e.key(keyID, true)
		e.w.String(attr.ID())
		e.key(keyValue, false)
		e.value(attr.ID(), attr.Value())
		e.w.RawByte('}')
	}
	e.w.RawByte(']')
}

// value writes a scalar as its native JSON type. An invalid number literal is
// recorded on the writer and surfaces when the output is built.
func (e encoder) value(id string, v entities.Value) {
	switch v.Kind() {
	case entities.KindString:
		s, _ := v.Str()
		e.w.String(s)
	case entities.KindNumber:
		lit, _ := v.Literal()
		if !numberLiteral.MatchString(lit) {
			if e.w.Error == nil {
				e.w.Error = fmt.Errorf("attribute %s: invalid number literal %q", id, lit)
			}
			e.w.RawString("null")
			return
		}
		e.w.RawString(lit)
	case entities.KindBool:
		b, _ := v.Boolean()
		e.w.Bool(b)
	default:
		e.w.RawString("null")
	}
}
