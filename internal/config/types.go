package config

// Config holds all lcurate configuration.
type Config struct {
	Network       string              `json:"network"`        // chain slug the registry lives on
	DefaultWallet string              `json:"default_wallet"` // wallet the local provider exposes
	RPCAlgorithm  string              `json:"rpc_algorithm"`  // "fastest" | "round-robin" | "failover"
	CustomRPCs    map[string][]string `json:"custom_rpcs"`
	KnownChains   []int64             `json:"known_chains"` // chains added via wallet_addEthereumChain

	RegistryAddress string `json:"registry_address"`
	SubgraphURL     string `json:"subgraph_url"`
	SubgraphAPIKey  string `json:"subgraph_api_key,omitempty"`
	IPFSAPIURL      string `json:"ipfs_api_url"`
	IPFSGateway     string `json:"ipfs_gateway"`

	// internal: config dir path used for Save()
	configDir string
}

// Setting describes one key accepted by `lcurate config set`.
type Setting struct {
	Key         string
	Description string
	get         func(*Config) string
	set         func(*Config, string)
}
