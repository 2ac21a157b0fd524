package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
)

// member is one value of a JSON object, still in its raw form.
type member struct {
	raw []byte
	typ jsonparser.ValueType
}

// object holds the members of a JSON object by key.
type object map[string]member

// decoder maps JSON documents onto the entity model field by field.
// It holds no state between calls.
type decoder struct {
	disallowUnknown bool
}

func malformed(path, format string, args ...any) error {
	return errors.NewSchemaError(errors.MalformedRequest, path, format, args...)
}

func missing(path string) error {
	return errors.NewSchemaError(errors.MissingField, path, "a value is required")
}

// root checks the document syntax and returns its top-level object.
func (d decoder) root(data []byte) (object, error) {
	if !json.Valid(data) {
		return nil, malformed("", "request is not well-formed JSON")
	}
	if !utf8.Valid(data) {
		return nil, malformed("", "request is not valid UTF-8")
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, malformed("", "%v", err)
	}
	if typ != jsonparser.Object {
		return nil, malformed("", "request must be a JSON object, found %s", typ)
	}
	return d.object(value, "")
}

// object splits a raw JSON object into its members. Duplicate keys are rejected
// because the request would otherwise be ambiguous.
func (d decoder) object(raw []byte, path string) (object, error) {
	obj := make(object)
	err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, typ jsonparser.ValueType, _ int) error {
		name := string(key)
		if _, dup := obj[name]; dup {
			return malformed(join(path, name), "duplicate key")
		}
		obj[name] = member{raw: value, typ: typ}
		return nil
	})
	if err != nil {
		if _, ok := errors.KindOf(err); ok {
			return nil, err
		}
		return nil, malformed(path, "%v", err)
	}
	return obj, nil
}

// checkKeys rejects keys outside allowed when unknown fields are disallowed.
func (d decoder) checkKeys(obj object, allowed map[string]struct{}, path string) error {
	if !d.disallowUnknown {
		return nil
	}
	var unknown []string
	for key := range obj {
		if _, ok := allowed[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return malformed(join(path, unknown[0]), "unknown field")
}

// each walks the elements of an array member, stopping at the first error.
// It returns the number of elements visited.
func (d decoder) each(m member, path string, fn func(index int, elem member, elemPath string) error) (int, error) {
	var (
		index    int
		firstErr error
	)
	_, err := jsonparser.ArrayEach(m.raw, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		elemPath := fmt.Sprintf("%s[%d]", path, index)
		if err != nil {
			firstErr = malformed(elemPath, "%v", err)
			return
		}
		firstErr = fn(index, member{raw: value, typ: typ}, elemPath)
		index++
	})
	if firstErr != nil {
		return index, firstErr
	}
	if err != nil {
		return index, malformed(path, "%v", err)
	}
	return index, nil
}

// requireString reads a required, non-empty string member.
func (d decoder) requireString(obj object, key, path string) (string, error) {
	p := join(path, key)
	m, ok := obj[key]
	if !ok {
		return "", missing(p)
	}
	if m.typ != jsonparser.String {
		return "", malformed(p, "expected string, found %s", m.typ)
	}
	s, err := jsonparser.ParseString(m.raw)
	if err != nil {
		return "", malformed(p, "%v", err)
	}
	if s == "" {
		return "", malformed(p, "value must not be empty")
	}
	return s, nil
}

// optionalArray returns the member if it is present and not null.
func (d decoder) optionalArray(obj object, key, path string) (member, bool, error) {
	m, ok := obj[key]
	if !ok || m.typ == jsonparser.Null {
		return member{}, false, nil
	}
	if m.typ != jsonparser.Array {
		return member{}, false, malformed(join(path, key), "expected array, found %s", m.typ)
	}
	return m, true, nil
}

// asObject decodes an array element that must be an object.
func (d decoder) asObject(m member, path string) (object, error) {
	if m.typ != jsonparser.Object {
		return nil, malformed(path, "expected object, found %s", m.typ)
	}
	return d.object(m.raw, path)
}

func (d decoder) application(obj object, path string) (*entities.ApplicationEntity, error) {
	if err := d.checkKeys(obj, applicationKeys, path); err != nil {
		return nil, err
	}
	name, err := d.requireString(obj, keyApplication, path)
	if err != nil {
		return nil, err
	}

	accountsPath := join(path, keyAccounts)
	m, ok := obj[keyAccounts]
	if !ok {
		return nil, malformed(accountsPath, "accounts are required")
	}
	if m.typ != jsonparser.Array {
		return nil, malformed(accountsPath, "expected array, found %s", m.typ)
	}

	var accounts []*entities.AccountEntity
	count, err := d.each(m, accountsPath, func(_ int, elem member, elemPath string) error {
		accountObj, err := d.asObject(elem, elemPath)
		if err != nil {
			return err
		}
		account, err := d.account(accountObj, elemPath)
		if err != nil {
			return err
		}
		accounts = append(accounts, account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, malformed(accountsPath, "at least one account is required")
	}

	app, err := entities.NewApplicationEntity(name, accounts...)
	if err != nil {
		return nil, malformed(path, "%v", err)
	}
	return app, nil
}

func (d decoder) account(obj object, path string) (*entities.AccountEntity, error) {
	if err := d.checkKeys(obj, accountKeys, path); err != nil {
		return nil, err
	}
	id, err := d.requireString(obj, keyID, path)
	if err != nil {
		return nil, err
	}
	actionName, err := d.requireString(obj, keyAction, path)
	if err != nil {
		return nil, err
	}
	action, err := entities.ParseAccountAction(actionName)
	if err != nil {
		return nil, &errors.SchemaError{Kind: errors.InvalidAction, Path: join(path, keyAction), Err: err}
	}

	var opts []entities.AccountOption

	attrs, err := d.attributes(obj, path, true)
	if err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		opts = append(opts, entities.WithAttributes(attrs...))
	}

	namespaces, err := d.namespaces(obj, path)
	if err != nil {
		return nil, err
	}
	if len(namespaces) > 0 {
		opts = append(opts, entities.WithNamespaces(namespaces...))
	}

	account, err := entities.NewAccountEntity(id, action, opts...)
	if err != nil {
		return nil, malformed(path, "%v", err)
	}
	return account, nil
}

// attributes decodes the optional "attributes" array of obj. Account attribute ids
// must be unique; entitlement attributes may repeat.
func (d decoder) attributes(obj object, path string, unique bool) ([]entities.AttributeValue, error) {
	m, ok, err := d.optionalArray(obj, keyAttributes, path)
	if err != nil || !ok {
		return nil, err
	}
	var (
		attrs []entities.AttributeValue
		seen  map[string]struct{}
	)
	if unique {
		seen = make(map[string]struct{})
	}
	_, err = d.each(m, join(path, keyAttributes), func(_ int, elem member, elemPath string) error {
		pair, err := d.asObject(elem, elemPath)
		if err != nil {
			return err
		}
		attr, err := d.attribute(pair, elemPath)
		if err != nil {
			return err
		}
		if unique {
			if _, dup := seen[attr.ID()]; dup {
				return malformed(join(elemPath, keyID), "duplicate attribute %q", attr.ID())
			}
			seen[attr.ID()] = struct{}{}
		}
		attrs = append(attrs, attr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

func (d decoder) attribute(obj object, path string) (entities.AttributeValue, error) {
	if err := d.checkKeys(obj, attributeKeys, path); err != nil {
		return entities.AttributeValue{}, err
	}
	idPath := join(path, keyID)
	m, ok := obj[keyID]
	if !ok {
		return entities.AttributeValue{}, malformed(idPath, "attribute id is required")
	}
	if m.typ != jsonparser.String {
		return entities.AttributeValue{}, malformed(idPath, "expected string, found %s", m.typ)
	}
	id, err := jsonparser.ParseString(m.raw)
	if err != nil {
		return entities.AttributeValue{}, malformed(idPath, "%v", err)
	}

	valuePath := join(path, keyValue)
	raw, ok := obj[keyValue]
	if !ok {
		return entities.AttributeValue{}, missing(valuePath)
	}
	value, err := d.value(raw, valuePath)
	if err != nil {
		return entities.AttributeValue{}, err
	}

	attr, err := entities.NewAttributeValue(id, value)
	if err != nil {
		return entities.AttributeValue{}, malformed(idPath, "%v", err)
	}
	return attr, nil
}

// value converts a scalar member. Numbers keep their literal text.
func (d decoder) value(m member, path string) (entities.Value, error) {
	switch m.typ {
	case jsonparser.Null:
		return entities.Null(), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(m.raw)
		if err != nil {
			return entities.Value{}, malformed(path, "%v", err)
		}
		return entities.String(s), nil
	case jsonparser.Number:
		return entities.Number(string(m.raw)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(m.raw)
		if err != nil {
			return entities.Value{}, malformed(path, "%v", err)
		}
		return entities.Bool(b), nil
	default:
		return entities.Value{}, malformed(path, "expected scalar value, found %s", m.typ)
	}
}

// namespaces decodes the optional "entitlements" array. It returns nil when the
// array is absent, null or empty.
func (d decoder) namespaces(obj object, path string) ([]entities.Namespace, error) {
	m, ok, err := d.optionalArray(obj, keyEntitlements, path)
	if err != nil || !ok {
		return nil, err
	}
	var namespaces []entities.Namespace
	seen := make(map[string]struct{})
	_, err = d.each(m, join(path, keyEntitlements), func(_ int, elem member, elemPath string) error {
		nsObj, err := d.asObject(elem, elemPath)
		if err != nil {
			return err
		}
		ns, err := d.namespace(nsObj, elemPath)
		if err != nil {
			return err
		}
		if _, dup := seen[ns.Name()]; dup {
			return malformed(join(elemPath, keyNamespace), "duplicate namespace %q", ns.Name())
		}
		seen[ns.Name()] = struct{}{}
		namespaces = append(namespaces, ns)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return namespaces, nil
}

func (d decoder) namespace(obj object, path string) (entities.Namespace, error) {
	if err := d.checkKeys(obj, namespaceKeys, path); err != nil {
		return entities.Namespace{}, err
	}
	name, err := d.requireString(obj, keyNamespace, path)
	if err != nil {
		return entities.Namespace{}, err
	}

	actionsPath := join(path, keyActions)
	m, ok := obj[keyActions]
	if !ok {
		return entities.Namespace{}, missing(actionsPath)
	}
	if m.typ != jsonparser.Array {
		return entities.Namespace{}, malformed(actionsPath, "expected array, found %s", m.typ)
	}

	var actions []entities.EntitlementAction
	count, err := d.each(m, actionsPath, func(_ int, elem member, elemPath string) error {
		actionObj, err := d.asObject(elem, elemPath)
		if err != nil {
			return err
		}
		action, err := d.entitlementAction(actionObj, elemPath)
		if err != nil {
			return err
		}
		actions = append(actions, action)
		return nil
	})
	if err != nil {
		return entities.Namespace{}, err
	}
	if count == 0 {
		return entities.Namespace{}, malformed(actionsPath, "at least one action is required")
	}

	ns, err := entities.NewNamespace(name, actions...)
	if err != nil {
		return entities.Namespace{}, malformed(path, "%v", err)
	}
	return ns, nil
}

func (d decoder) entitlementAction(obj object, path string) (entities.EntitlementAction, error) {
	if err := d.checkKeys(obj, actionKeys, path); err != nil {
		return entities.EntitlementAction{}, err
	}
	opName, err := d.requireString(obj, keyAction, path)
	if err != nil {
		return entities.EntitlementAction{}, err
	}
	op, err := entities.ParseEntitlementOperation(opName)
	if err != nil {
		return entities.EntitlementAction{}, &errors.SchemaError{Kind: errors.InvalidAction, Path: join(path, keyAction), Err: err}
	}

	attrs, err := d.attributes(obj, path, false)
	if err != nil {
		return entities.EntitlementAction{}, err
	}
	action, err := entities.NewEntitlementAction(op, attrs...)
	if err != nil {
		return entities.EntitlementAction{}, malformed(path, "%v", err)
	}

	riskPath := join(path, keyRisk)
	m, ok := obj[keyRisk]
	if !ok || m.typ == jsonparser.Null {
		return action, nil
	}
	if m.typ != jsonparser.String {
		return entities.EntitlementAction{}, malformed(riskPath, "expected string, found %s", m.typ)
	}
	riskName, err := jsonparser.ParseString(m.raw)
	if err != nil {
		return entities.EntitlementAction{}, malformed(riskPath, "%v", err)
	}
	risk, err := entities.ParseRisk(riskName)
	if err != nil {
		return entities.EntitlementAction{}, &errors.SchemaError{Kind: errors.MalformedRequest, Path: riskPath, Err: err}
	}
	return action.WithRisk(risk), nil
}
