package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignMessage signs a message using EIP-191 (personal_sign).
// Returns a 65-byte signature (R || S || V) with V in {27, 28}.
func (s *Signer) SignMessage(message []byte) ([]byte, error) {
	privKey, err := s.key()
	if err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(eip191Hash(message), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

// VerifyMessage recovers the signer address from an EIP-191 signature.
func VerifyMessage(message, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(sig))
	}

	recoverSig := make([]byte, 65)
	copy(recoverSig, sig)
	if recoverSig[64] >= 27 {
		recoverSig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(eip191Hash(message), recoverSig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// eip191Hash returns the Keccak-256 hash of the EIP-191 prefixed message.
func eip191Hash(message []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256(append([]byte(prefix), message...))
}
