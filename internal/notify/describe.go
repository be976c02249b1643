package notify

import (
	"errors"
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
)

// MaxMessageLen is the longest message Describe returns before truncating.
const MaxMessageLen = 100

// User-facing messages.
const (
	MsgRejected           = "Transaction rejected by user"
	MsgInsufficientFunds  = "Insufficient funds for transaction"
	MsgNonceTooLow        = "Transaction error: nonce too low. Try again."
	MsgReverted           = "Transaction reverted by the registry contract"
	MsgNoWallet           = "No wallet found. Add one with `lcurate wallet add`"
	MsgNotConnected       = "Please connect your wallet first"
	MsgInvalidArbitrator  = "Registry arbitrator is not set"
	MsgIndexer            = "Failed to reach the registry indexer. Please try again later."
	MsgUpload             = "Failed to upload to IPFS"
	MsgNothingToChallenge = "This item has no pending request to challenge"
	MsgAlreadyChallenged  = "This request has already been challenged"
	MsgUnknown            = "An unknown error occurred"
)

// Describe maps err to a short message for the user. Known sentinel errors
// and provider codes get fixed wording; anything else is its own message,
// truncated to MaxMessageLen characters.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var verr *listing.ValidationError
	if errors.As(err, &verr) {
		return truncate(verr.Error())
	}

	switch {
	case errors.Is(err, wallet.ErrUserRejected):
		return MsgRejected
	case errors.Is(err, wallet.ErrProviderMissing):
		return MsgNoWallet
	case errors.Is(err, wallet.ErrNotConnected):
		return MsgNotConnected
	case errors.Is(err, tcr.ErrInsufficientFunds):
		return MsgInsufficientFunds
	case errors.Is(err, tcr.ErrNothingToChallenge):
		return MsgNothingToChallenge
	case errors.Is(err, tcr.ErrAlreadyChallenged):
		return MsgAlreadyChallenged
	case errors.Is(err, deposit.ErrInvalidArbitrator):
		return MsgInvalidArbitrator
	case errors.Is(err, subgraph.ErrIndexer):
		return MsgIndexer
	case errors.Is(err, ipfs.ErrUpload):
		return MsgUpload
	}

	var perr *wallet.ProviderError
	if errors.As(err, &perr) {
		switch {
		case perr.Code == wallet.CodeUserRejected:
			return MsgRejected
		case perr.Code == wallet.CodeInternal && strings.Contains(perr.Message, "insufficient funds"):
			return MsgInsufficientFunds
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "User denied"), strings.Contains(msg, "user rejected"):
		return MsgRejected
	case strings.Contains(msg, "insufficient funds"):
		return MsgInsufficientFunds
	case strings.Contains(msg, "nonce too low"):
		return MsgNonceTooLow
	case strings.Contains(msg, "execution reverted"):
		return MsgReverted
	case msg == "":
		return MsgUnknown
	}
	return truncate(msg)
}

// truncate cuts msg to at most MaxMessageLen runes, ellipsis included.
func truncate(msg string) string {
	r := []rune(msg)
	if len(r) <= MaxMessageLen {
		return msg
	}
	return string(r[:MaxMessageLen-len(ellipsis)]) + ellipsis
}

const ellipsis = "..."
