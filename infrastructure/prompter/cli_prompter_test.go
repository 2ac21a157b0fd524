package prompter_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/infrastructure/prompter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var risks = []string{"Assigns high risk entitlement in namespace group for account azitterbacke"}

func TestCliPrompter_ConfirmRisks(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantApproved bool
		wantAlways   bool
	}{
		{"Approve", "y\n", true, false},
		{"Approve long form", " YES \n", true, false},
		{"Approve always", "always\n", true, true},
		{"Deny", "n\n", false, false},
		{"Anything else denies", "maybe\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := prompter.NewCliPrompter(bytes.NewBufferString(tt.input), out)

			approved, always, err := p.ConfirmRisks("CTSAccount", entities.RiskHigh, risks)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApproved, approved)
			assert.Equal(t, tt.wantAlways, always)
			assert.Contains(t, out.String(), "Request for CTSAccount carries high risk:")
			assert.Contains(t, out.String(), "- "+risks[0])
		})
	}
}

func TestCliPrompter_EOF(t *testing.T) {
	p := prompter.NewCliPrompter(&bytes.Buffer{}, io.Discard)

	approved, _, err := p.ConfirmRisks("CTSAccount", entities.RiskMedium, nil)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, approved)
}

func TestCliPrompter_IsInteractive(t *testing.T) {
	p := prompter.NewCliPrompter(&bytes.Buffer{}, io.Discard)
	assert.False(t, p.IsInteractive())
}

func TestCliPrompter_FormatNonInteractiveError(t *testing.T) {
	p := prompter.NewCliPrompter(&bytes.Buffer{}, io.Discard)
	err := p.FormatNonInteractiveError("CTSAccount", entities.RiskHigh, risks)
	assert.Contains(t, err.Error(), "CTSAccount carries high risk")
	assert.Contains(t, err.Error(), risks[0])
}
