package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, config.ChainIDBase, cfg.ChainID)
	assert.Equal(t, config.DefaultTokenAddress, cfg.TokenAddress)
	assert.Equal(t, config.DefaultIPFSGateway, cfg.IPFSGateway)
	assert.Equal(t, uint64(1), cfg.Confirmations)
	assert.Equal(t, "failover", cfg.RPCAlgorithm)
	assert.False(t, cfg.Connected())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.ChainID = config.ChainIDBaseSepolia
	cfg.ActiveWallet = "alice"
	cfg.Confirmations = 3
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.ChainIDBaseSepolia, reloaded.ChainID)
	assert.Equal(t, "alice", reloaded.ActiveWallet)
	assert.Equal(t, uint64(3), reloaded.Confirmations)
	assert.True(t, reloaded.Connected())
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"active_wallet":"bob"}`), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.ActiveWallet)
	assert.Equal(t, config.ChainIDBase, cfg.ChainID)
	assert.NotNil(t, cfg.CustomRPCs)
	assert.NotNil(t, cfg.ProviderKeys)
}

func TestLoadMalformedConfigErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
}

// ---------------------------------------------------------------------------
// Custom RPCs
// ---------------------------------------------------------------------------

func TestAddCustomRPC(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC(config.ChainIDBase, "https://custom.base.rpc"))
	assert.Equal(t, []string{"https://custom.base.rpc"}, cfg.GetRPCs(config.ChainIDBase))
	assert.Empty(t, cfg.GetRPCs(config.ChainIDBaseSepolia))
}

func TestAddDuplicateRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	require.NoError(t, cfg.AddRPC(config.ChainIDBase, "https://custom.base.rpc"))
	assert.Error(t, cfg.AddRPC(config.ChainIDBase, "https://custom.base.rpc"))
}

func TestRemoveCustomRPC(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	require.NoError(t, cfg.AddRPC(config.ChainIDBase, "https://rpc1.base"))
	require.NoError(t, cfg.AddRPC(config.ChainIDBase, "https://rpc2.base"))
	require.NoError(t, cfg.RemoveRPC(config.ChainIDBase, "https://rpc1.base"))

	rpcs := cfg.GetRPCs(config.ChainIDBase)
	assert.NotContains(t, rpcs, "https://rpc1.base")
	assert.Contains(t, rpcs, "https://rpc2.base")
}

func TestRemoveNonExistentRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.RemoveRPC(config.ChainIDBase, "https://nonexistent.rpc"))
}

// ---------------------------------------------------------------------------
// Provider keys
// ---------------------------------------------------------------------------

func TestProviderKeyPersistence(t *testing.T) {
	t.Setenv(config.AlchemyKeyEnv, "")
	dir := t.TempDir()
	cfg, _ := config.Load(dir)

	cfg.SetProviderKey("alchemy", "stored-key")
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "stored-key", reloaded.GetProviderKey("alchemy"))
}

func TestProviderKeyEnvOverridesStored(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	cfg.SetProviderKey("alchemy", "stored-key")

	t.Setenv(config.AlchemyKeyEnv, "env-key")
	assert.Equal(t, "env-key", cfg.GetProviderKey("alchemy"))
}

func TestSetProviderKeyEmptyRemoves(t *testing.T) {
	t.Setenv(config.AlchemyKeyEnv, "")
	cfg, _ := config.Load(t.TempDir())

	cfg.SetProviderKey("alchemy", "k")
	cfg.SetProviderKey("alchemy", "")
	assert.Empty(t, cfg.GetProviderKey("alchemy"))
}

// ---------------------------------------------------------------------------
// .env loading
// ---------------------------------------------------------------------------

func TestLoadEnvMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, config.LoadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnvSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("W3DASH_TEST_VAR=from-dotenv\n"), 0o600))
	t.Setenv("W3DASH_TEST_VAR", "")
	os.Unsetenv("W3DASH_TEST_VAR") //nolint:errcheck

	require.NoError(t, config.LoadEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("W3DASH_TEST_VAR"))
}
