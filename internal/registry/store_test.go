package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/vault"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	v, err := vault.New(filepath.Join(dir, "vault.key"))
	require.NoError(t, err)
	path := filepath.Join(dir, "connections.json")
	return NewStore(path, v, logger.Nop()), path
}

func sampleConfig(id, name string) *Config {
	return &Config{
		ID:       id,
		Name:     name,
		Engine:   database.EngineFirebird,
		Host:     "db.internal",
		Port:     3050,
		Database: "/data/crm.fdb",
		Username: "SYSDBA",
		Password: "masterkey",
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, path := newTestStore(t)

	store.Upsert(sampleConfig("a", "crm"))
	store.Upsert(sampleConfig("b", "billing"))
	require.NoError(t, store.Save())

	// Reload through a second instance over the same files.
	v, err := vault.New(filepath.Join(filepath.Dir(path), "vault.key"))
	require.NoError(t, err)
	reloaded := NewStore(path, v, logger.Nop())
	require.NoError(t, reloaded.Load())

	cfg, err := reloaded.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "crm", cfg.Name)
	assert.Equal(t, "masterkey", cfg.Password, "password decrypts once at load")
}

func TestStore_NoPlaintextOnDisk(t *testing.T) {
	store, path := newTestStore(t)

	store.Upsert(sampleConfig("a", "crm"))
	require.NoError(t, store.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "masterkey")

	// The stored password field holds self-describing ciphertext.
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	stored, _ := records[0]["password"].(string)
	assert.Contains(t, stored, ":")
}

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Load())
	assert.Empty(t, store.All())
}

func TestStore_AllRedactsPasswords(t *testing.T) {
	store, _ := newTestStore(t)

	store.Upsert(sampleConfig("a", "crm"))
	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, vault.RedactionMarker, all[0].Password)
}

func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)

	store.Upsert(sampleConfig("z", "zeta"))
	store.Upsert(sampleConfig("a", "alpha"))
	store.Upsert(sampleConfig("m", "mid"))

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestStore_UpsertKeepsPosition(t *testing.T) {
	store, _ := newTestStore(t)

	store.Upsert(sampleConfig("a", "first"))
	store.Upsert(sampleConfig("b", "second"))

	renamed := sampleConfig("a", "renamed")
	store.Upsert(renamed)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "renamed", all[0].Name)
}

func TestStore_RemoveUnknown(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Remove("ghost")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestStore_BrokenSecretLoadsWithoutPassword(t *testing.T) {
	store, path := newTestStore(t)

	store.Upsert(sampleConfig("a", "crm"))
	require.NoError(t, store.Save())

	// Corrupt the stored ciphertext in place.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	records[0]["password"] = "deadbeef:deadbeef"
	mangled, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, mangled, 0o600))

	v, err := vault.New(filepath.Join(filepath.Dir(path), "vault.key"))
	require.NoError(t, err)
	reloaded := NewStore(path, v, logger.Nop())
	require.NoError(t, reloaded.Load(), "a broken secret must not fail the load")

	cfg, err := reloaded.Get("a")
	require.NoError(t, err)
	assert.Empty(t, cfg.Password)

	statuses := reloaded.VerifySecrets()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].OK)
	assert.NotEmpty(t, statuses[0].Error)
}

func TestStore_Rekey(t *testing.T) {
	store, path := newTestStore(t)

	store.Upsert(sampleConfig("a", "crm"))
	require.NoError(t, store.Save())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Rekey())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(after), "ciphertext changes under the new key")

	// The new key still round-trips the password.
	v, err := vault.New(filepath.Join(filepath.Dir(path), "vault.key"))
	require.NoError(t, err)
	reloaded := NewStore(path, v, logger.Nop())
	require.NoError(t, reloaded.Load())
	cfg, err := reloaded.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "masterkey", cfg.Password)
}
