// Package flow runs the user actions that touch the registry: submitting a
// frontend, requesting its removal and challenging a pending request. Each
// action validates, uploads to IPFS, brings the wallet onto the registry's
// chain and sends one transaction.
package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/notify"
	"github.com/Mohsinsiddi/lcurate/internal/store"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"go.uber.org/zap"
)

// Uploader stores a JSON document and returns its /ipfs/ path.
type Uploader interface {
	UploadJSON(ctx context.Context, name string, v any) (string, error)
}

// Wallet is the part of wallet.Adapter the flows drive.
type Wallet interface {
	SwitchToExpectedChain(ctx context.Context) error
	Connect(ctx context.Context) (string, error)
}

// Registry is the part of tcr.Registry the flows drive.
type Registry interface {
	AddItem(ctx context.Context, item string) (*tcr.Tx, error)
	RemoveItem(ctx context.Context, itemID [32]byte, evidence string) (*tcr.Tx, error)
	ChallengeRequest(ctx context.Context, itemID [32]byte, evidence string) (*tcr.Tx, error)
	WaitMined(ctx context.Context, hash string) (*chain.TxReceipt, error)
}

// History records sent transactions.
type History interface {
	Record(e store.Entry) (store.Entry, error)
}

// Result describes a completed action.
type Result struct {
	Tx      *tcr.Tx
	URI     string // uploaded item or evidence path
	ItemID  string
	Receipt *chain.TxReceipt // nil unless waiting was requested
}

// Runner executes flows.
type Runner struct {
	uploader Uploader
	wallet   Wallet
	registry Registry
	history  History
	notifier notify.Notifier
	chain    string
	wait     bool
	log      *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory records every sent transaction in h.
func WithHistory(h History) Option { return func(r *Runner) { r.history = h } }

// WithNotifier reports progress to n.
func WithNotifier(n notify.Notifier) Option { return func(r *Runner) { r.notifier = n } }

// WithChainName labels history entries.
func WithChainName(name string) Option { return func(r *Runner) { r.chain = name } }

// WithWait makes every flow wait for the transaction receipt.
func WithWait(wait bool) Option { return func(r *Runner) { r.wait = wait } }

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.log = l.Named("flow") } }

// NewRunner returns a Runner.
func NewRunner(u Uploader, w Wallet, reg Registry, opts ...Option) *Runner {
	r := &Runner{
		uploader: u,
		wallet:   w,
		registry: reg,
		notifier: notify.Discard{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit validates l, uploads its item document and calls addItem with the
// uploaded path. Nothing leaves the machine when validation fails.
func (r *Runner) Submit(ctx context.Context, l *listing.Listing) (*Result, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	r.notifier.Info("Uploading to IPFS...")
	uri, err := r.uploader.UploadJSON(ctx, listing.ItemFileName, l.Document())
	if err != nil {
		return nil, err
	}
	r.log.Debug("item uploaded", zap.String("uri", uri))

	if err := r.prepareWallet(ctx); err != nil {
		return nil, err
	}

	r.notifier.Info("Please approve the transaction in your wallet")
	tx, err := r.registry.AddItem(ctx, uri)
	if err != nil {
		return nil, err
	}

	res := &Result{Tx: tx, URI: uri, ItemID: tcr.FormatItemID(tcr.ItemID(uri))}
	if err := r.finish(ctx, res, ""); err != nil {
		return res, err
	}
	r.notifier.Success("Frontend successfully submitted!")
	return res, nil
}

// Remove requests removal of a registered item, backed by ev.
func (r *Runner) Remove(ctx context.Context, itemID string, ev listing.Evidence) (*Result, error) {
	res, err := r.withEvidence(ctx, itemID, ev, r.registry.RemoveItem)
	if err != nil {
		return res, err
	}
	r.notifier.Success("Removal request submitted successfully")
	return res, nil
}

// Challenge challenges the pending request of an item, backed by ev.
func (r *Runner) Challenge(ctx context.Context, itemID string, ev listing.Evidence) (*Result, error) {
	res, err := r.withEvidence(ctx, itemID, ev, r.registry.ChallengeRequest)
	if err != nil {
		return res, err
	}
	r.notifier.Success("Challenge submitted successfully")
	return res, nil
}

type evidenceCall func(ctx context.Context, itemID [32]byte, evidence string) (*tcr.Tx, error)

func (r *Runner) withEvidence(ctx context.Context, rawID string, ev listing.Evidence, call evidenceCall) (*Result, error) {
	id, err := tcr.ParseItemID(rawID)
	if err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	r.notifier.Info("Uploading evidence to IPFS...")
	uri, err := r.uploader.UploadJSON(ctx, listing.EvidenceFileName, ev)
	if err != nil {
		return nil, err
	}

	if err := r.prepareWallet(ctx); err != nil {
		return nil, err
	}

	r.notifier.Info("Please approve the transaction in your wallet")
	tx, err := call(ctx, id, uri)
	if err != nil {
		return nil, err
	}

	res := &Result{Tx: tx, URI: uri, ItemID: tcr.FormatItemID(id)}
	if err := r.finish(ctx, res, uri); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) prepareWallet(ctx context.Context) error {
	if err := r.wallet.SwitchToExpectedChain(ctx); err != nil {
		return err
	}
	account, err := r.wallet.Connect(ctx)
	if err != nil {
		return err
	}
	r.log.Debug("wallet ready", zap.String("account", account))
	return nil
}

// finish records the sent transaction and, if asked, waits for it.
func (r *Runner) finish(ctx context.Context, res *Result, evidence string) error {
	if r.history != nil {
		_, err := r.history.Record(store.Entry{
			Hash:     res.Tx.Hash,
			Method:   res.Tx.Method,
			ItemID:   res.ItemID,
			From:     res.Tx.From,
			Chain:    r.chain,
			Deposit:  depositString(res.Tx.Deposit),
			Evidence: evidence,
			SentAt:   time.Now(),
		})
		if err != nil {
			r.log.Warn("recording history", zap.Error(err))
		}
	}

	if !r.wait {
		return nil
	}
	r.notifier.Info("Waiting for confirmation...")
	receipt, err := r.registry.WaitMined(ctx, res.Tx.Hash)
	res.Receipt = receipt
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", res.Tx.Hash, err)
	}
	return nil
}

func depositString(b *deposit.Breakdown) string {
	if b == nil || b.Total == nil {
		return ""
	}
	return b.Total.String()
}
