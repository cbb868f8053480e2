package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketQueries = []byte("queries")
)

// HistoryStore implements domain.HistoryStore using BoltDB.
// Each query maps to the unix-nano time it was last used.
type HistoryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory copy

	// Memory copy of the bucket, loaded once at open
	queries map[string]int64

	// now is swapped in tests
	now func() time.Time
}

// NewHistoryStore opens the history database for a store URL. An empty
// baseDir gives a memory-only store.
func NewHistoryStore(baseDir, storeURL string) (*HistoryStore, error) {
	s := &HistoryStore{queries: make(map[string]int64), now: time.Now}
	if baseDir == "" {
		return s, nil
	}

	dir := baseDir
	if storeURL != "" {
		dir = filepath.Join(baseDir, hashStoreURL(storeURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketQueries)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			if len(v) == 8 {
				s.queries[string(k)] = int64(binary.BigEndian.Uint64(v))
			}
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// hashStoreURL keeps histories of different databases apart
func hashStoreURL(storeURL string) string {
	normalized := strings.TrimRight(strings.ToLower(storeURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordQuery marks query as used now. Blank queries are ignored.
func (s *HistoryStore) RecordQuery(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	ts := s.now().UnixNano()

	s.mu.Lock()
	s.queries[query] = ts
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(ts))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueries).Put([]byte(query), buf[:])
	})
}

// RecentQueries returns up to limit queries, most recent first.
// limit <= 0 returns all of them.
func (s *HistoryStore) RecentQueries(limit int) ([]string, error) {
	s.mu.RLock()
	type entry struct {
		query string
		ts    int64
	}
	entries := make([]entry, 0, len(s.queries))
	for q, ts := range s.queries {
		entries = append(entries, entry{q, ts})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ts != entries[j].ts {
			return entries[i].ts > entries[j].ts
		}
		return entries[i].query < entries[j].query
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = e.query
	}
	return result, nil
}

// Prune keeps only the keep most recent queries
func (s *HistoryStore) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}
	recent, err := s.RecentQueries(0)
	if err != nil || len(recent) <= keep {
		return err
	}
	stale := recent[keep:]

	s.mu.Lock()
	for _, q := range stale {
		delete(s.queries, q)
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		for _, q := range stale {
			if err := b.Delete([]byte(q)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearHistory removes every recorded query
func (s *HistoryStore) ClearHistory() error {
	s.mu.Lock()
	s.queries = make(map[string]int64)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		var keys [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
