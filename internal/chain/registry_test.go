package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByName(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		name    string
		chainID int64
	}{
		{"ethereum", 1},
		{"gnosis", 100},
		{"sepolia", 11155111},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.chainID, c.ChainID)
			assert.NotEmpty(t, c.RPCs)
		})
	}
}

func TestRegistryGetByNameIsCaseInsensitive(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("Ethereum")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ChainID)
}

func TestRegistryGetUnknownChain(t *testing.T) {
	registry := chain.NewRegistry()
	_, err := registry.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)

	_, err = registry.GetByChainID(424242)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestRegistryGetByChainID(t *testing.T) {
	c, err := chain.NewRegistry().GetByChainID(100)
	require.NoError(t, err)
	assert.Equal(t, "gnosis", c.Name)
}

func TestHexChainID(t *testing.T) {
	reg := chain.NewRegistry()
	eth, _ := reg.GetByName("ethereum")
	sep, _ := reg.GetByName("sepolia")

	assert.Equal(t, "0x1", eth.HexChainID())
	assert.Equal(t, "0xaa36a7", sep.HexChainID())
}

func TestAddParamsMainnet(t *testing.T) {
	eth, err := chain.NewRegistry().GetByName("ethereum")
	require.NoError(t, err)

	p := eth.AddParams()
	assert.Equal(t, "0x1", p.ChainID)
	assert.Equal(t, "Ethereum Mainnet", p.ChainName)
	assert.Equal(t, "ETH", p.NativeCurrency.Symbol)
	assert.Equal(t, 18, p.NativeCurrency.Decimals)
	assert.Equal(t, []string{"https://etherscan.io"}, p.BlockExplorerURLs)
	assert.Equal(t, eth.RPCs, p.RPCURLs)
}

func TestTxURL(t *testing.T) {
	eth, _ := chain.NewRegistry().GetByName("ethereum")
	assert.Equal(t, "https://etherscan.io/tx/0xabc", eth.TxURL("0xabc"))

	bare := &chain.Chain{Name: "local"}
	assert.Empty(t, bare.TxURL("0xabc"))
}
