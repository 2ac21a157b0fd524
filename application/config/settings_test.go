package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/provisioning-sdk/application/config"
	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/errors"
	"github.com/reglet-dev/provisioning-sdk/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `
codec:
  disallow_unknown_fields: true
  indent: "  "
  max_request_size: 65536
policy:
  applications: ["CTS*", "LDAP"]
  namespaces: [group]
  max_risk: medium
  delete_risk: high
  namespace_floors:
    admin: high
  strict_delete: true
dispatch:
  continue_on_error: true
log:
  level: debug
  source: true
connector:
  url: ldaps://ldap.example.com
  port: 636
`

func TestParse(t *testing.T) {
	s, err := config.Parse([]byte(settingsYAML))
	require.NoError(t, err)

	assert.True(t, s.Codec.DisallowUnknownFields)
	assert.Equal(t, "  ", s.Codec.Indent)
	assert.Equal(t, 65536, s.Codec.MaxRequestSize)
	assert.Equal(t, []string{"CTS*", "LDAP"}, s.Policy.Applications)
	assert.Equal(t, "medium", s.Policy.MaxRisk)
	assert.True(t, s.Policy.StrictDelete)
	assert.True(t, s.Dispatch.ContinueOnError)
	assert.Equal(t, slog.LevelDebug, s.LogLevel())
	assert.True(t, s.Log.Source)

	url, err := config.MustGetString(s.Connector, "url")
	require.NoError(t, err)
	assert.Equal(t, "ldaps://ldap.example.com", url)
	assert.Equal(t, 636, config.GetIntDefault(s.Connector, "port", 389))
}

func TestParse_Empty(t *testing.T) {
	s, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
	assert.Equal(t, slog.LevelInfo, s.LogLevel())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"unknown risk", "policy:\n  max_risk: critical\n", "Settings.Policy.MaxRisk"},
		{"unknown level", "log:\n  level: trace\n", "Settings.Log.Level"},
		{"negative size", "codec:\n  max_request_size: -1\n", "Settings.Codec.MaxRequestSize"},
		{"empty pattern", "policy:\n  namespaces: [\"\"]\n", "Settings.Policy.Namespaces[0]"},
		{"malformed application glob", "policy:\n  applications: [\"CTS[Account\"]\n", "Settings.Policy.Applications[0]"},
		{"malformed namespace glob", "policy:\n  namespaces: [group, \"role/[\"]\n", "Settings.Policy.Namespaces[1]"},
		{"bad floor", "policy:\n  namespace_floors:\n    admin: extreme\n", "Settings.Policy.NamespaceFloors[admin]"},
		{"unknown key", "codec:\n  strict: true\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)

			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provisionctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settingsYAML), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Log.Level)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSettings_PolicyOptions(t *testing.T) {
	s, err := config.Parse([]byte(settingsYAML))
	require.NoError(t, err)

	opts := append(s.PolicyOptions(), policy.WithDenialHandler(&policy.NopDenialHandler{}))
	p := policy.NewPolicy(opts...)

	action, err := entities.NewEntitlementAction(entities.EntitlementAssign)
	require.NoError(t, err)
	ns, err := entities.NewNamespace("group", action.WithRisk(entities.RiskHigh))
	require.NoError(t, err)
	account, err := entities.NewAccountEntity("a", entities.AccountModify, entities.WithNamespaces(ns))
	require.NoError(t, err)

	res := p.CheckAccount("CTSAccount", account)
	assert.False(t, res.Valid, "high risk exceeds configured maximum")

	res = p.CheckAccount("SAP", account)
	assert.Len(t, res.Errors, 2)
}

func TestSettings_RiskAssessor(t *testing.T) {
	s, err := config.Parse([]byte(settingsYAML))
	require.NoError(t, err)
	assessor := s.RiskAssessor()

	deleted, err := entities.NewAccountEntity("a", entities.AccountDelete)
	require.NoError(t, err)
	assert.Equal(t, entities.RiskHigh, assessor.AssessAccount(deleted))

	action, err := entities.NewEntitlementAction(entities.EntitlementAssign)
	require.NoError(t, err)
	assert.Equal(t, entities.RiskHigh, assessor.AssessAction("admin", action))
	assert.Equal(t, entities.RiskLow, assessor.AssessAction("group", action))
}

func TestSettings_CodecOptions(t *testing.T) {
	s := config.Default()
	assert.Len(t, s.CodecOptions(nil), 1)

	s.Codec.DisallowUnknownFields = true
	s.Codec.Indent = "\t"
	assert.Len(t, s.CodecOptions(nil), 3)

	s.Codec.MaxRequestSize = 4096
	assert.Len(t, s.CodecOptions(nil), 4)
}

func TestValidateConfig(t *testing.T) {
	type LDAPConfig struct {
		URL  string `json:"url" validate:"required,url"`
		Port int    `json:"port" validate:"required,min=1,max=65535"`
	}

	var target LDAPConfig
	err := config.ValidateConfig(config.Config{"url": "ldaps://ldap.example.com", "port": 636}, &target)
	require.NoError(t, err)
	assert.Equal(t, 636, target.Port)

	err = config.ValidateConfig(config.Config{"url": "ldaps://ldap.example.com", "port": 0}, &target)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	err = config.ValidateConfig(config.Config{"port": "636"}, &target)
	assert.Error(t, err)
}
