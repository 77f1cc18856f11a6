// Package store persists the whole application snapshot as one JSON
// document: loaded wholesale at startup, written wholesale (debounced)
// after mutations.
package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/progress"
)

// DefaultDebounce batches rapid mutations into one write.
const DefaultDebounce = 750 * time.Millisecond

type Store struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
	logger   *log.Logger

	pending []byte // marshaled snapshot waiting for the debounce timer
	timer   *time.Timer
	closed  bool
}

// Open prepares the store under dataDir. No file is created until the first
// save.
func Open(dataDir string, debounce time.Duration, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		path:     filepath.Join(dataDir, "state.json"),
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Load reads the snapshot from disk. A missing or unreadable file is not an
// error: defaults are seeded instead, so startup never hard-fails on
// corrupt state.
func (s *Store) Load() *model.Snapshot {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("store: read %s: %v (seeding defaults)", s.path, err)
		}
		return model.NewSnapshot()
	}

	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.logger.Printf("store: corrupt snapshot %s: %v (seeding defaults)", s.path, err)
		return model.NewSnapshot()
	}
	snap.Normalize()
	progress.NormalizeSnapshot(&snap)
	return &snap
}

// Save marshals the snapshot immediately (so later mutations cannot leak
// into this write) and schedules the debounced flush. It never blocks on
// disk.
func (s *Store) Save(snap *model.Snapshot) {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Printf("store: marshal snapshot: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = b
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.flushTimer)
	} else {
		s.timer.Reset(s.debounce)
	}
}

func (s *Store) flushTimer() {
	if err := s.Flush(); err != nil {
		s.logger.Printf("store: flush: %v", err)
	}
}

// Flush writes any pending snapshot now.
func (s *Store) Flush() error {
	s.mu.Lock()
	b := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	if b == nil {
		return nil
	}
	return writeAtomic(s.path, b)
}

// Close flushes outstanding writes and stops the store; a clean teardown
// never drops a mutation.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.Flush()
}

// writeAtomic goes through a temp file so a crash mid-write cannot corrupt
// the snapshot.
func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
