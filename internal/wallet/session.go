package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Session remembers which accounts the user has connected and which chain the
// local wallet is currently on. It lives in the OS cache directory with 0600
// permissions, so a reboot may forget it but other users cannot read it.
//
//	macOS:   ~/Library/Caches/lcurate/session.json
//	Linux:   ~/.cache/lcurate/session.json
//	Windows: %LocalAppData%\lcurate\session.json
type Session struct {
	path string
}

type sessionData struct {
	Accounts    []string `json:"accounts"`
	ChainID     int64    `json:"chain_id,omitempty"`
	ConnectedAt string   `json:"connected_at,omitempty"`
}

// DefaultSessionPath returns the per-user session file.
func DefaultSessionPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "lcurate", "session.json")
}

// NewSession returns a session persisted at path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// Accounts returns the connected accounts. Never nil.
func (s *Session) Accounts() []string {
	d := s.load()
	if d.Accounts == nil {
		return []string{}
	}
	return d.Accounts
}

// IsAuthorized reports whether addr was connected (case-insensitive).
func (s *Session) IsAuthorized(addr string) bool {
	return slices.ContainsFunc(s.load().Accounts, func(a string) bool {
		return strings.EqualFold(a, addr)
	})
}

// Authorize connects addr, placing it first so it becomes the active account.
func (s *Session) Authorize(addr string) error {
	d := s.load()
	d.Accounts = slices.DeleteFunc(d.Accounts, func(a string) bool { return strings.EqualFold(a, addr) })
	d.Accounts = append([]string{addr}, d.Accounts...)
	d.ConnectedAt = time.Now().UTC().Format(time.RFC3339)
	return s.save(d)
}

// ChainID returns the chain the wallet is on, or fallback if never switched.
func (s *Session) ChainID(fallback int64) int64 {
	if id := s.load().ChainID; id != 0 {
		return id
	}
	return fallback
}

// SetChainID records a chain switch.
func (s *Session) SetChainID(id int64) error {
	d := s.load()
	d.ChainID = id
	return s.save(d)
}

// Clear disconnects every account by deleting the session file.
func (s *Session) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Active reports whether any account is connected.
func (s *Session) Active() bool {
	return len(s.load().Accounts) > 0
}

// load returns an empty session on any error.
func (s *Session) load() sessionData {
	var d sessionData
	data, err := os.ReadFile(s.path)
	if err != nil {
		return d
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return sessionData{}
	}
	return d
}

func (s *Session) save(d sessionData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	// Best-effort: restrict permissions after write.
	_ = os.Chmod(s.path, 0o600)
	return nil
}
