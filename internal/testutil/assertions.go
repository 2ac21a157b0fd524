// Package testutil provides common test utilities and assertions for SDK tests
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ReadFixture returns testdata/name with surrounding whitespace removed.
func ReadFixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading fixture %s", name)
	return bytes.TrimSpace(data)
}

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t testing.TB, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertTopLevelKeys asserts that a JSON object has exactly the given keys, in any order.
func AssertTopLevelKeys(t testing.TB, data []byte, keys ...string) {
	t.Helper()

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded), "output is not a JSON object")
	got := make([]string, 0, len(decoded))
	for k := range decoded {
		got = append(got, k)
	}
	assert.ElementsMatch(t, keys, got)
}

// AssertSchemaError asserts that err is a SchemaError of kind located at path.
func AssertSchemaError(t testing.TB, err error, kind errors.Kind, path string) {
	t.Helper()

	var se *errors.SchemaError
	require.ErrorAs(t, err, &se, "expected a schema error")
	assert.Equal(t, kind, se.Kind, "kind")
	assert.Equal(t, path, se.Path, "path")
}

// MustAccount builds an account or fails the test.
func MustAccount(t testing.TB, id string, action entities.AccountAction, opts ...entities.AccountOption) *entities.AccountEntity {
	t.Helper()
	account, err := entities.NewAccountEntity(id, action, opts...)
	require.NoError(t, err)
	return account
}

// MustApplication builds an application or fails the test.
func MustApplication(t testing.TB, name string, accounts ...*entities.AccountEntity) *entities.ApplicationEntity {
	t.Helper()
	app, err := entities.NewApplicationEntity(name, accounts...)
	require.NoError(t, err)
	return app
}

// MustNamespace builds a namespace or fails the test.
func MustNamespace(t testing.TB, name string, actions ...entities.EntitlementAction) entities.Namespace {
	t.Helper()
	ns, err := entities.NewNamespace(name, actions...)
	require.NoError(t, err)
	return ns
}

// MustEntitlement builds an entitlement action or fails the test.
func MustEntitlement(t testing.TB, op entities.EntitlementOperation, attrs ...entities.AttributeValue) entities.EntitlementAction {
	t.Helper()
	action, err := entities.NewEntitlementAction(op, attrs...)
	require.NoError(t, err)
	return action
}
