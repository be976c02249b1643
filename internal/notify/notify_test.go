package notify_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/notify"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/stretchr/testify/assert"
)

func TestDescribeSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("connect: %w", wallet.ErrUserRejected), notify.MsgRejected},
		{wallet.ErrProviderMissing, notify.MsgNoWallet},
		{fmt.Errorf("send: %w", wallet.ErrNotConnected), notify.MsgNotConnected},
		{fmt.Errorf("%w: have 0.1 ETH, need 0.2 ETH", tcr.ErrInsufficientFunds), notify.MsgInsufficientFunds},
		{tcr.ErrNothingToChallenge, notify.MsgNothingToChallenge},
		{tcr.ErrAlreadyChallenged, notify.MsgAlreadyChallenged},
		{deposit.ErrInvalidArbitrator, notify.MsgInvalidArbitrator},
		{fmt.Errorf("%w: HTTP 502", subgraph.ErrIndexer), notify.MsgIndexer},
		{fmt.Errorf("%w: connection refused", ipfs.ErrUpload), notify.MsgUpload},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, notify.Describe(c.err), c.err.Error())
	}
}

func TestDescribeProviderCodes(t *testing.T) {
	assert.Equal(t, notify.MsgRejected,
		notify.Describe(&wallet.ProviderError{Code: wallet.CodeUserRejected, Message: "nope"}))
	assert.Equal(t, notify.MsgInsufficientFunds,
		notify.Describe(&wallet.ProviderError{Code: wallet.CodeInternal, Message: "insufficient funds for gas * price + value"}))
	assert.Equal(t, "provider error -32603: boom",
		notify.Describe(&wallet.ProviderError{Code: wallet.CodeInternal, Message: "boom"}))
}

func TestDescribeMessages(t *testing.T) {
	assert.Equal(t, notify.MsgRejected, notify.Describe(errors.New("MetaMask Tx Signature: User denied transaction signature.")))
	assert.Equal(t, notify.MsgNonceTooLow, notify.Describe(errors.New("nonce too low: next nonce 5, tx nonce 4")))
	assert.Equal(t, notify.MsgReverted, notify.Describe(errors.New("execution reverted")))
	assert.Equal(t, "", notify.Describe(nil))
}

func TestDescribeTruncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := notify.Describe(errors.New(long))
	assert.Len(t, got, notify.MaxMessageLen)
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("y", notify.MaxMessageLen)
	assert.Equal(t, exact, notify.Describe(errors.New(exact)))
}

func TestDescribeTruncatesOnRunes(t *testing.T) {
	msg := strings.Repeat("a", 99) + "é" + strings.Repeat("b", 20)
	got := notify.Describe(errors.New(msg))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, notify.MaxMessageLen, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("a", notify.MaxMessageLen-3)+"...", got)

	wide := strings.Repeat("日本", 60)
	got = notify.Describe(errors.New(wide))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, notify.MaxMessageLen, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(got, "日本日本"))
}

func TestDescribeIndexerIsNeutral(t *testing.T) {
	got := notify.Describe(fmt.Errorf("%w: registry \"1\" not indexed", subgraph.ErrIndexer))
	assert.Equal(t, notify.MsgIndexer, got)
	assert.NotContains(t, got, "frontends")
}

func TestDescribeValidation(t *testing.T) {
	l := listing.New()
	err := l.Validate()
	got := notify.Describe(err)
	assert.Contains(t, got, "is required")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), notify.MaxMessageLen)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsole(&buf)
	c.Info("loading")
	c.Success("done")
	c.Error("failed")
	c.Fail(wallet.ErrUserRejected)
	c.Fail(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "loading")
	assert.Contains(t, lines[1], "done")
	assert.Contains(t, lines[2], "failed")
	assert.Contains(t, lines[3], notify.MsgRejected)
}

func TestDiscard(t *testing.T) {
	var n notify.Notifier = notify.Discard{}
	n.Info("x")
	n.Success("x")
	n.Error("x")
}
