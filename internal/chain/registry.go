package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Currency describes a chain's native currency as wallets expect it.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Chain holds all metadata for a single chain.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency Currency `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
	Testnet        bool     `json:"testnet"`
}

// HexChainID returns the chain id in the 0x-prefixed form used by wallet RPCs.
func (c *Chain) HexChainID() string {
	return fmt.Sprintf("0x%x", c.ChainID)
}

// AddChainParams is the wallet_addEthereumChain parameter object.
type AddChainParams struct {
	ChainID           string   `json:"chainId"`
	ChainName         string   `json:"chainName"`
	NativeCurrency    Currency `json:"nativeCurrency"`
	RPCURLs           []string `json:"rpcUrls"`
	BlockExplorerURLs []string `json:"blockExplorerUrls,omitempty"`
}

// AddParams builds the parameters a wallet needs to learn about this chain.
func (c *Chain) AddParams() AddChainParams {
	p := AddChainParams{
		ChainID:        c.HexChainID(),
		ChainName:      c.DisplayName,
		NativeCurrency: c.NativeCurrency,
		RPCURLs:        c.RPCs,
	}
	if c.Explorer != "" {
		p.BlockExplorerURLs = []string{c.Explorer}
	}
	return p
}

// TxURL links a transaction hash on the chain's block explorer.
func (c *Chain) TxURL(hash string) string {
	if c.Explorer == "" {
		return ""
	}
	return c.Explorer + "/tx/" + hash
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of chains Light Curate deployments live on.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "ethereum", "gnosis").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum Mainnet", ChainID: 1,
			NativeCurrency: Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			RPCs:           []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com", "https://cloudflare-eth.com"},
			Explorer:       "https://etherscan.io",
		},
		{
			Name: "gnosis", DisplayName: "Gnosis Chain", ChainID: 100,
			NativeCurrency: Currency{Name: "xDAI", Symbol: "xDAI", Decimals: 18},
			RPCs:           []string{"https://rpc.gnosischain.com", "https://gnosis-rpc.publicnode.com"},
			Explorer:       "https://gnosisscan.io",
		},
		{
			Name: "sepolia", DisplayName: "Sepolia", ChainID: 11155111, Testnet: true,
			NativeCurrency: Currency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
			RPCs:           []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://rpc.sepolia.org"},
			Explorer:       "https://sepolia.etherscan.io",
		},
	}
}
