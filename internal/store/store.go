// Package store keeps local state in a bbolt file: the last registry snapshot
// fetched from the subgraph and the transactions sent from this machine.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"go.etcd.io/bbolt"
)

var (
	bucketSnapshots = []byte("snapshots")
	bucketHistory   = []byte("history")
)

// ErrNoSnapshot is returned when no snapshot was saved for a registry.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot is a registry's item list as last fetched. Statuses is the
// filter the list was fetched with; empty means every status.
type Snapshot struct {
	Registry  string
	Statuses  []tcr.Status
	FetchedAt time.Time
	Items     []subgraph.Item
}

// Covers reports whether the snapshot holds every item a query for statuses
// would return.
func (s Snapshot) Covers(statuses []tcr.Status) bool {
	if len(s.Statuses) == 0 {
		return true
	}
	if len(statuses) == 0 {
		return false
	}
	for _, want := range statuses {
		found := false
		for _, have := range s.Statuses {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Entry is one transaction sent through lcurate.
type Entry struct {
	Seq      uint64
	Hash     string
	Method   string
	ItemID   string
	From     string
	Chain    string
	Deposit  string
	Evidence string
	SentAt   time.Time
}

// Store wraps the bbolt database.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path. The parent directory is
// created if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSnapshots, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// --- snapshots ---

// SaveSnapshot replaces the snapshot for registry. statuses is the filter
// items were fetched with.
func (s *Store) SaveSnapshot(registry string, statuses []tcr.Status, items []subgraph.Item, at time.Time) error {
	snap := Snapshot{Registry: strings.ToLower(registry), Statuses: statuses, FetchedAt: at.UTC(), Items: items}
	data, err := encodeGob(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(snap.Registry), data)
	})
}

// Snapshot returns the saved snapshot for registry, or ErrNoSnapshot.
func (s *Store) Snapshot(registry string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshots).Get([]byte(strings.ToLower(registry)))
		if data == nil {
			return ErrNoSnapshot
		}
		return decodeGob(data, &snap)
	})
	if err != nil {
		return nil, err
	}
	if snap.Items == nil {
		snap.Items = []subgraph.Item{}
	}
	return &snap, nil
}

// --- history ---

// Record appends e to the history and returns it with Seq set.
func (s *Store) Record(e Entry) (Entry, error) {
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	e.SentAt = e.SentAt.UTC()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		e.Seq = seq
		data, err := encodeGob(e)
		if err != nil {
			return fmt.Errorf("encode entry: %w", err)
		}
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("store: record: %w", err)
	}
	return e, nil
}

// History returns up to limit entries, newest first. limit <= 0 means all.
func (s *Store) History(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if err := decodeGob(v, &e); err != nil {
				return fmt.Errorf("decode entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
			if limit > 0 && len(entries) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	return entries, nil
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketHistory); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketHistory)
		return err
	})
}

func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
