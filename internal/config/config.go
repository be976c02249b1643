package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	defaultNetwork   = "ethereum"
	defaultAlgorithm = "fastest"

	// DefaultRegistryAddress is the Light Curate list of decentralized frontends on mainnet.
	DefaultRegistryAddress = "0xda03509Bb770061A61615AD8Fc8e1858520eBd86"
	// DefaultSubgraphURL is the gateway endpoint of the Light Curate mainnet subgraph.
	// The API key is sent as a bearer token rather than embedded in the path.
	DefaultSubgraphURL = "https://gateway.thegraph.com/api/subgraphs/id/A5oqWboEuDezwqpkaJjih4ckGhoHRoXZExqUbja2k1NQ"
	// DefaultIPFSAPIURL is a local Kubo daemon; any node exposing /api/v0/add works.
	DefaultIPFSAPIURL  = "http://127.0.0.1:5001"
	DefaultIPFSGateway = "https://ipfs.io"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	storeFile   = "lcurate.db"
)

// ErrUnknownSetting is returned by Set for keys not in Settings.
var ErrUnknownSetting = errors.New("unknown setting")

// Load reads config from dir (or creates defaults). dir defaults to ~/.lcurate.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".lcurate")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// HasKnownChain reports whether the local wallet has been told about chain id.
func (c *Config) HasKnownChain(id int64) bool {
	return slices.Contains(c.KnownChains, id)
}

// AddKnownChain records chain id as added to the local wallet. It reports
// false when the chain was already known.
func (c *Config) AddKnownChain(id int64) bool {
	if c.HasKnownChain(id) {
		return false
	}
	c.KnownChains = append(c.KnownChains, id)
	return true
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is the JSON file backing the wallet manager.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// StorePath is the bbolt database holding the listing snapshot and tx history.
func (c *Config) StorePath() string {
	return filepath.Join(c.configDir, storeFile)
}

// Settings lists every key `lcurate config set` understands, in display order.
func Settings() []Setting {
	return []Setting{
		{Key: "network", Description: "chain the registry lives on",
			get: func(c *Config) string { return c.Network },
			set: func(c *Config, v string) { c.Network = strings.ToLower(v) }},
		{Key: "rpc-algorithm", Description: "fastest | round-robin | failover",
			get: func(c *Config) string { return c.RPCAlgorithm },
			set: func(c *Config, v string) { c.RPCAlgorithm = v }},
		{Key: "registry", Description: "Light Curate registry contract address",
			get: func(c *Config) string { return c.RegistryAddress },
			set: func(c *Config, v string) { c.RegistryAddress = v }},
		{Key: "subgraph-url", Description: "GraphQL endpoint indexing the registry",
			get: func(c *Config) string { return c.SubgraphURL },
			set: func(c *Config, v string) { c.SubgraphURL = strings.TrimRight(v, "/") }},
		{Key: "subgraph-key", Description: "bearer token for the subgraph gateway",
			get: func(c *Config) string { return maskSecret(c.SubgraphAPIKey) },
			set: func(c *Config, v string) { c.SubgraphAPIKey = v }},
		{Key: "ipfs-api", Description: "IPFS HTTP API used to upload documents",
			get: func(c *Config) string { return c.IPFSAPIURL },
			set: func(c *Config, v string) { c.IPFSAPIURL = strings.TrimRight(v, "/") }},
		{Key: "ipfs-gateway", Description: "gateway used to open /ipfs/ links",
			get: func(c *Config) string { return c.IPFSGateway },
			set: func(c *Config, v string) { c.IPFSGateway = strings.TrimRight(v, "/") }},
	}
}

// Get returns the display value of a setting.
func (c *Config) Get(key string) (string, error) {
	for _, s := range Settings() {
		if s.Key == key {
			return s.get(c), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// Set updates a setting in memory. Call Save to persist it.
func (c *Config) Set(key, value string) error {
	for _, s := range Settings() {
		if s.Key == key {
			s.set(c, strings.TrimSpace(value))
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Network:         defaultNetwork,
		RPCAlgorithm:    defaultAlgorithm,
		CustomRPCs:      make(map[string][]string),
		RegistryAddress: DefaultRegistryAddress,
		SubgraphURL:     DefaultSubgraphURL,
		IPFSAPIURL:      DefaultIPFSAPIURL,
		IPFSGateway:     DefaultIPFSGateway,
		configDir:       dir,
	}
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
