package e2e_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "lcurate-e2e-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "lcurate")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "LCURATE_CONFIG_DIR="+configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "lcurate")
	assert.Contains(t, out, "0.1.0")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	for _, sub := range []string{"list", "show", "submit", "remove", "challenge", "deposits", "wallet", "network"} {
		assert.Contains(t, out, sub)
	}
	assert.Contains(t, out, "--yes")
}

func TestNetworkList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "network", "list")
	require.NoError(t, err)
	for _, c := range []string{"ethereum", "gnosis", "sepolia"} {
		assert.Contains(t, out, c)
	}
}

func TestNetworkUse(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "network", "use", "sepolia")
	require.NoError(t, err)
	assert.Contains(t, out, "Sepolia")

	got, err := runCLI(t, dir, "config", "get", "network")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", strings.TrimSpace(got))
}

func TestNetworkUseUnknown(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "network", "use", "unknownchain99")
	assert.Error(t, err)
}

func TestWalletAddAndList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "watcher", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "watcher")
	assert.Contains(t, out, "0xf39F")
}

func TestWalletAddRejectsBadAddress(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "wallet", "add", "bad", "0x1234")
	assert.Error(t, err)
}

func TestWalletRemove(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "w1", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "--yes", "wallet", "remove", "w1")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "w1")
}

func TestRPCAddAndList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "rpc", "add", "gnosis", "https://custom.rpc.url")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "rpc", "list", "gnosis")
	require.NoError(t, err)
	assert.Contains(t, out, "custom.rpc.url")
}

func TestRPCAlgorithm(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "rpc", "algorithm", "round-robin")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "round-robin")

	_, err = runCLI(t, dir, "rpc", "algorithm", "slowest")
	assert.Error(t, err)
}

func TestConfigList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "registry")
	assert.Contains(t, out, "0xda03509Bb770061A61615AD8Fc8e1858520eBd86")
	assert.Contains(t, out, "ipfs-gateway")
}

func TestConfigSet(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "ipfs-gateway", "https://gateway.example/")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "get", "ipfs-gateway")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example", strings.TrimSpace(out))
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "registry", "not-an-address")
	assert.Error(t, err)

	out, err := runCLI(t, dir, "config", "set", "colour", "blue")
	assert.Error(t, err)
	assert.Contains(t, out, "unknown setting")
}

func TestHistoryEmpty(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions sent yet.")
}

func TestListCachedWithoutSnapshot(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "list", "--cached")
	assert.Error(t, err)
	assert.Contains(t, out, "no cached snapshot")
}

func TestSubmitInvalidFileFailsBeforeNetwork(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "frontend.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: Example
description: Example frontend
locator_id: bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi
repository_url: ftp://example.com/repo
commit_hash: 3f1a9c2
`), 0o600))

	out, err := runCLI(t, dir, "submit", "--file", file, "--yes")
	assert.Error(t, err)
	assert.Contains(t, out, "Must be a valid URL starting with http:// or https://")
}

// countingServer answers every request with status and body and counts hits.
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestListEmptyRegistry(t *testing.T) {
	dir := t.TempDir()
	srv, hits := countingServer(t, http.StatusOK, `{"data":{"litems":[]}}`)
	_, err := runCLI(t, dir, "config", "set", "subgraph-url", srv.URL)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No frontends found")
	assert.Equal(t, int32(1), hits.Load())
}

func TestListIndexerFailure(t *testing.T) {
	dir := t.TempDir()
	srv, _ := countingServer(t, http.StatusBadGateway, `bad gateway`)
	_, err := runCLI(t, dir, "config", "set", "subgraph-url", srv.URL)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "list")
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Equal(t, 1, strings.Count(out, "Failed to load frontends. Please try again later."))
	assert.NotContains(t, out, "No frontends found")
}

func TestRemoveMissingEvidenceFailsBeforeNetwork(t *testing.T) {
	dir := t.TempDir()
	node, nodeHits := countingServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0x1"}`)
	_, err := runCLI(t, dir, "rpc", "add", "ethereum", node.URL)
	require.NoError(t, err)

	id := "0x" + strings.Repeat("ab", 32)
	out, err := runCLI(t, dir, "remove", id, "--yes", "--description", "stale build")
	assert.Error(t, err)
	assert.Contains(t, out, "Title is required")
	assert.Equal(t, int32(0), nodeHits.Load())
}

func TestRemoveRejectsMalformedItemID(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "remove", "0x1234", "--title", "t", "--description", "d")
	assert.Error(t, err)
}
