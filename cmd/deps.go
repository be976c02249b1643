package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/flow"
	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/rpc"
	"github.com/Mohsinsiddi/lcurate/internal/store"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// assumeYes approves every wallet prompt without asking.
var assumeYes bool

// expectedChain is the chain the configured registry lives on.
func expectedChain() (*chain.Chain, error) {
	c, err := chain.NewRegistry().GetByName(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q; run `lcurate network list`", cfg.Network)
	}
	return c, nil
}

// nativeSymbol is the currency deposits are paid in on the configured network.
func nativeSymbol() string {
	c, err := expectedChain()
	if err != nil {
		return "ETH"
	}
	return c.NativeCurrency.Symbol
}

// dialNode picks an RPC endpoint for c with the configured algorithm.
func dialNode(ctx context.Context, c *chain.Chain) (*chain.EVMClient, error) {
	sctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()

	url, err := rpc.Select(sctx, rpc.Candidates(c, cfg.GetRPCs(c.Name)), cfg.RPCAlgorithm, c.ChainID, log)
	if err != nil {
		return nil, fmt.Errorf("selecting %s RPC: %w", c.DisplayName, err)
	}
	return chain.NewEVMClient(url, chain.WithLogger(log)), nil
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

// newProvider is the local wallet: keychain keys, terminal approvals.
func newProvider() *wallet.LocalProvider {
	dial := func(ctx context.Context, c *chain.Chain) (wallet.Backend, error) {
		return dialNode(ctx, c)
	}
	return wallet.NewLocalProvider(newWalletManager(), chain.NewRegistry(), dial,
		wallet.WithApprover(approve),
		wallet.WithChainBook(cfg),
		wallet.WithProviderLogger(log),
	)
}

// newAdapter wraps the local wallet for the configured network.
func newAdapter() (*wallet.Adapter, error) {
	c, err := expectedChain()
	if err != nil {
		return nil, err
	}
	return wallet.NewAdapter(newProvider(), c, wallet.WithAdapterLogger(log)), nil
}

// approve asks the user about a wallet request. Without a terminal the
// request is rejected unless --yes was given.
func approve(_ context.Context, req wallet.ApprovalRequest) bool {
	if assumeYes {
		log.Debug("auto-approved", zap.String("method", req.Method))
		return true
	}
	if !ui.Interactive() {
		notifier.Error("Cannot ask for approval without a terminal; pass --yes to approve")
		return false
	}
	ok, err := ui.Confirm(req.Title, req.Details)
	return err == nil && ok
}

// newRegistry binds the configured registry. w may be nil for reads.
func newRegistry(ctx context.Context, w tcr.Wallet) (*tcr.Registry, error) {
	if !common.IsHexAddress(cfg.RegistryAddress) {
		return nil, fmt.Errorf("invalid registry address %q; set it with `lcurate config set registry <address>`", cfg.RegistryAddress)
	}
	c, err := expectedChain()
	if err != nil {
		return nil, err
	}
	node, err := dialNode(ctx, c)
	if err != nil {
		return nil, err
	}
	return tcr.NewRegistry(common.HexToAddress(cfg.RegistryAddress), node, w, tcr.WithLogger(log)), nil
}

func newSubgraph() *subgraph.Client {
	return subgraph.NewClient(cfg.SubgraphURL,
		subgraph.WithAPIKey(cfg.SubgraphAPIKey),
		subgraph.WithNotifier(notifier),
		subgraph.WithLogger(log),
	)
}

func newUploader() *ipfs.Client {
	return ipfs.NewClient(cfg.IPFSAPIURL, ipfs.WithLogger(log))
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.StorePath())
}

// newRunner wires a flow runner against the configured registry and returns
// the registry for deposit previews. The returned func closes the local store.
func newRunner(ctx context.Context, wait bool) (*flow.Runner, *tcr.Registry, func(), error) {
	adapter, err := newAdapter()
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := newRegistry(ctx, adapter)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []flow.Option{
		flow.WithNotifier(notifier),
		flow.WithChainName(adapter.Expected().Name),
		flow.WithWait(wait),
		flow.WithLogger(log),
	}
	closeFn := func() {}
	if st, err := openStore(); err != nil {
		log.Warn("history disabled", zap.Error(err))
	} else {
		opts = append(opts, flow.WithHistory(st))
		closeFn = func() { _ = st.Close() }
	}
	return flow.NewRunner(newUploader(), adapter, reg, opts...), reg, closeFn, nil
}
