package wallet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func newManager(t *testing.T) *wallet.Manager {
	t.Helper()
	return wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(wallet.NewInMemoryKeystore()))
}

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr := newManager(t)

	err := mgr.Add("curator", &wallet.Wallet{
		Address: "0x1234567890abcdef1234567890abcdef12345678",
		Type:    wallet.TypeWatchOnly,
	})
	require.NoError(t, err)

	w, err := mgr.Get("curator")
	require.NoError(t, err)
	assert.Equal(t, "curator", w.Name)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.False(t, w.CanSign())
	assert.Equal(t, common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678").Hex(), w.Address, "address is checksummed")
	assert.NotEmpty(t, w.CreatedAt)
}

func TestAddRejectsBadAddress(t *testing.T) {
	mgr := newManager(t)
	err := mgr.Add("bad", &wallet.Wallet{Address: "0x123...", Type: wallet.TypeWatchOnly})
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := newManager(t)

	require.NoError(t, mgr.Add("dup", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))
	err := mgr.Add("dup", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly})
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(ks))

	require.NoError(t, mgr.AddWithKey("signer", testKey))

	w, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, testAddress, w.Address)
	assert.Equal(t, wallet.KeyRef("signer"), w.KeyRef)

	stored, err := ks.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testKey[2:], stored)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := newManager(t)
	err := mgr.AddWithKey("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestGenerateWallet(t *testing.T) {
	mgr := newManager(t)

	w, hexKey, err := mgr.Generate("fresh")
	require.NoError(t, err)
	assert.Len(t, hexKey, 64)
	assert.True(t, w.CanSign())

	// Re-importing the generated key yields the same address.
	other := newManager(t)
	require.NoError(t, other.AddWithKey("copy", hexKey))
	cp, err := other.Get("copy")
	require.NoError(t, err)
	assert.Equal(t, w.Address, cp.Address)

	_, _, err = mgr.Generate("fresh")
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestListWalletsSorted(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.Add("zeta", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))
	require.NoError(t, mgr.Add("alpha", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))

	list := mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("gone", testKey))

	require.NoError(t, mgr.Remove("gone"))

	_, err := mgr.Get("gone")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Retrieve(wallet.KeyRef("gone"))
	assert.Error(t, err)

	assert.ErrorIs(t, mgr.Remove("gone"), wallet.ErrWalletNotFound)
}

func TestSetDefault(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.Add("a", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))
	require.NoError(t, mgr.Add("b", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))

	assert.Nil(t, mgr.Default(), "no default with two wallets")

	require.NoError(t, mgr.SetDefault("b"))
	require.NotNil(t, mgr.Default())
	assert.Equal(t, "b", mgr.Default().Name)

	require.NoError(t, mgr.SetDefault("a"))
	assert.Equal(t, "a", mgr.Default().Name)

	assert.ErrorIs(t, mgr.SetDefault("missing"), wallet.ErrWalletNotFound)
}

func TestDefaultFallsBackToOnlyWallet(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.Add("solo", &wallet.Wallet{Address: testAddress, Type: wallet.TypeWatchOnly}))
	require.NotNil(t, mgr.Default())
	assert.Equal(t, "solo", mgr.Default().Name)
}

// ---------------------------------------------------------------------------
// JSONStore
// ---------------------------------------------------------------------------

func TestJSONStoreMissingFile(t *testing.T) {
	s := wallet.NewJSONStore(filepath.Join(t.TempDir(), "wallets.json"))
	ws, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, ws)
}

func TestJSONStoreRoundTripThroughManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	ks := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("signer", testKey))
	require.NoError(t, mgr.SetDefault("signer"))

	reopened := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	w := reopened.Default()
	require.NotNil(t, w)
	assert.Equal(t, "signer", w.Name)
	assert.Equal(t, testAddress, w.Address)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), testKey[2:], "private key never lands in the wallets file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)))
	_, err := mgr.Get("anything")
	assert.Error(t, err)
}
