package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ethereum", cfg.Network)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, config.DefaultRegistryAddress, cfg.RegistryAddress)
	assert.Equal(t, config.DefaultSubgraphURL, cfg.SubgraphURL)
	assert.Equal(t, config.DefaultIPFSGateway, cfg.IPFSGateway)
	assert.Empty(t, cfg.SubgraphAPIKey)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.Network = "sepolia"
	cfg.DefaultWallet = "mywallet"
	cfg.RPCAlgorithm = "round-robin"
	cfg.SubgraphAPIKey = "secret-key"
	cfg.AddKnownChain(11155111)

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sepolia", reloaded.Network)
	assert.Equal(t, "mywallet", reloaded.DefaultWallet)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
	assert.Equal(t, "secret-key", reloaded.SubgraphAPIKey)
	assert.True(t, reloaded.HasKnownChain(11155111))
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// custom RPCs
// ---------------------------------------------------------------------------

func TestAddCustomRPC(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("ethereum", "https://custom.eth.rpc"))
	assert.Contains(t, cfg.GetRPCs("ethereum"), "https://custom.eth.rpc")
}

func TestAddDuplicateRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	cfg.AddRPC("ethereum", "https://custom.eth.rpc") //nolint:errcheck
	err := cfg.AddRPC("ethereum", "https://custom.eth.rpc")
	assert.Error(t, err)
}

func TestRemoveCustomRPC(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	cfg.AddRPC("ethereum", "https://rpc1.eth") //nolint:errcheck
	cfg.AddRPC("ethereum", "https://rpc2.eth") //nolint:errcheck

	require.NoError(t, cfg.RemoveRPC("ethereum", "https://rpc1.eth"))

	rpcs := cfg.GetRPCs("ethereum")
	assert.NotContains(t, rpcs, "https://rpc1.eth")
	assert.Contains(t, rpcs, "https://rpc2.eth")
}

func TestRemoveNonExistentRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.RemoveRPC("ethereum", "https://nonexistent.rpc"))
}

// ---------------------------------------------------------------------------
// known chains
// ---------------------------------------------------------------------------

func TestAddKnownChainOnce(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	assert.False(t, cfg.HasKnownChain(100))
	assert.True(t, cfg.AddKnownChain(100))
	assert.False(t, cfg.AddKnownChain(100), "second add reports already known")
	assert.Len(t, cfg.KnownChains, 1)
}

// ---------------------------------------------------------------------------
// settings
// ---------------------------------------------------------------------------

func TestSetAndGetSetting(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	require.NoError(t, cfg.Set("subgraph-url", "https://example.com/graphql/"))
	got, err := cfg.Get("subgraph-url")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/graphql", got, "trailing slash trimmed")

	require.NoError(t, cfg.Set("network", "  Sepolia "))
	assert.Equal(t, "sepolia", cfg.Network)
}

func TestGetMasksSubgraphKey(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.Set("subgraph-key", "abcd1234efgh5678"))

	got, err := cfg.Get("subgraph-key")
	require.NoError(t, err)
	assert.Equal(t, "abcd********5678", got)
	assert.Equal(t, "abcd1234efgh5678", cfg.SubgraphAPIKey)
}

func TestUnknownSetting(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	assert.ErrorIs(t, cfg.Set("colour", "red"), config.ErrUnknownSetting)
	_, err := cfg.Get("colour")
	assert.ErrorIs(t, err, config.ErrUnknownSetting)
}

func TestSettingsKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range config.Settings() {
		assert.False(t, seen[s.Key], "duplicate key %s", s.Key)
		seen[s.Key] = true
		assert.NotEmpty(t, s.Description)
	}
}

// ---------------------------------------------------------------------------
// paths
// ---------------------------------------------------------------------------

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err, "config.json should be created on save")
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)

	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "lcurate.db"), cfg.StorePath())
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := t.TempDir() + "/subdir"
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", cfg.Network)
}
