package tcr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const ipfsPrefix = "/ipfs/"

// ItemID returns the registry id of an item: keccak256 of its data string.
func ItemID(item string) [32]byte {
	var id [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(item))
	copy(id[:], h.Sum(nil))
	return id
}

// ParseItemID parses a 0x-prefixed 32-byte hex id.
func ParseItemID(s string) ([32]byte, error) {
	var id [32]byte
	raw := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(raw) != 64 {
		return id, fmt.Errorf("invalid item id %q: want 32 bytes of hex", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return id, fmt.Errorf("invalid item id %q: %w", s, err)
	}
	copy(id[:], b)
	return id, nil
}

// FormatItemID renders an id as 0x-prefixed hex.
func FormatItemID(id [32]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}

// FormatEvidenceURI prefixes a content identifier with /ipfs/ exactly once.
func FormatEvidenceURI(uri string) string {
	if strings.HasPrefix(uri, ipfsPrefix) {
		return uri
	}
	return ipfsPrefix + uri
}
