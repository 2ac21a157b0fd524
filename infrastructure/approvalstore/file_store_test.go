package approvalstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/infrastructure/approvalstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := approvalstore.NewFileStore(approvalstore.WithPath(filepath.Join(t.TempDir(), "approvals.yaml")))

	approvals, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, approvals.Applications)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "approvals.yaml")
	store := approvalstore.NewFileStore(approvalstore.WithPath(path))
	assert.Equal(t, path, store.Path())

	approvals := &entities.ApprovalSet{}
	approvals.Add("CTSAccount")
	require.NoError(t, store.Save(approvals))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Approves("CTSAccount"))
}

func TestFileStore_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approvals.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applications: {"), 0o600))

	_, err := approvalstore.NewFileStore(approvalstore.WithPath(path)).Load()
	assert.Error(t, err)
}
