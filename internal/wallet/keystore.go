package wallet

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	keychainService = "lcurate"
	// keyEnvVar, when set, supplies the signing key and bypasses the keychain.
	// Intended for CI and scripted submissions.
	keyEnvVar = "LCURATE_PRIVATE_KEY"
)

// KeyStore persists private keys under a reference string.
type KeyStore interface {
	Store(name, hexKey string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// KeyRef returns the keychain reference for a wallet name.
func KeyRef(name string) string { return keychainService + "." + name }

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

var _ KeyStore = (*Keystore)(nil)

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FilePasswordFunc:         keyring.TerminalPrompt,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:      keychainService,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FilePasswordFunc: keyring.TerminalPrompt,
		})
	}

	return &Keystore{ring: ring}
}

// OpenFileKeystore opens an encrypted file keystore in dir. pass supplies the
// file password without prompting.
func OpenFileKeystore(dir string, pass keyring.PromptFunc) (*Keystore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: pass,
	})
	if err != nil {
		return nil, fmt.Errorf("opening file keystore: %w", err)
	}
	return &Keystore{ring: ring}, nil
}

// Store saves a private key for a wallet name and returns a reference key.
func (k *Keystore) Store(name, hexKey string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	ref := KeyRef(name)
	err := k.ring.Set(keyring.Item{
		Key:   ref,
		Data:  []byte(normaliseHexKey(hexKey)),
		Label: "lcurate wallet " + name,
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a private key by its reference. LCURATE_PRIVATE_KEY takes
// precedence over the keychain when set.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if env := os.Getenv(keyEnvVar); env != "" {
		return normaliseHexKey(env), nil
	}
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return normaliseHexKey(string(item.Data)), nil
}

// Delete removes a stored key.
func (k *Keystore) Delete(ref string) error {
	if k.ring == nil {
		return nil
	}
	if err := k.ring.Remove(ref); err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// normaliseHexKey trims whitespace and any 0x prefix.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// InMemoryKeystore stores keys in memory (for tests).
type InMemoryKeystore struct {
	data map[string]string
}

var _ KeyStore = (*InMemoryKeystore)(nil)

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, hexKey string) (string, error) {
	ref := KeyRef(name)
	k.data[ref] = normaliseHexKey(hexKey)
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	delete(k.data, ref)
	return nil
}
