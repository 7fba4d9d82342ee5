// Package syncdb is an in-memory implementation of the align.Database
// collaborator: it holds the geographic reference position and the ordered
// sync-point log the alignment engine builds its model from.
//
// Writes replace the whole dataset with a fresh, immutable copy and swap it
// into an atomic.Pointer; a mutex serializes writers so concurrent
// AddSyncPoint calls don't race on the copy, while readers never block and
// never observe a half-written dataset.
package syncdb

import (
	"sync"
	"sync/atomic"

	"github.com/star/scopealign/internal/align"
	"github.com/star/scopealign/internal/astro"
)

type dataset struct {
	pos     astro.Position
	hasPos  bool
	entries []align.SyncPointEntry
}

// Store is a thread-safe, in-memory align.Database.
type Store struct {
	data    atomic.Pointer[dataset]
	mu      sync.Mutex // serializes writers
	version atomic.Uint64
}

// NewStore returns an empty Store: no reference position and no sync
// points.
func NewStore() *Store {
	return &Store{}
}

// GetReferencePosition implements align.Database.
func (s *Store) GetReferencePosition() (astro.Position, bool) {
	d := s.data.Load()
	if d == nil {
		return astro.Position{}, false
	}
	return d.pos, d.hasPos
}

// GetAlignmentDatabase implements align.Database.
func (s *Store) GetAlignmentDatabase() []align.SyncPointEntry {
	d := s.data.Load()
	if d == nil {
		return nil
	}
	out := make([]align.SyncPointEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// SetReferencePosition records the single process-wide geographic position
// sync points and queries are interpreted against.
func (s *Store) SetReferencePosition(pos astro.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot()
	s.data.Store(&dataset{pos: pos, hasPos: true, entries: cur.entries})
	s.version.Add(1)
}

// AddSyncPoint appends a sync point to the end of the log. Order is
// preserved; the N>=4 build path depends on it to assign vertex labels.
func (s *Store) AddSyncPoint(e align.SyncPointEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot()
	entries := make([]align.SyncPointEntry, len(cur.entries), len(cur.entries)+1)
	copy(entries, cur.entries)
	entries = append(entries, e)
	s.data.Store(&dataset{pos: cur.pos, hasPos: cur.hasPos, entries: entries})
	s.version.Add(1)
}

// Clear removes every sync point but keeps the reference position.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot()
	s.data.Store(&dataset{pos: cur.pos, hasPos: cur.hasPos})
	s.version.Add(1)
}

// Len reports the current number of sync points.
func (s *Store) Len() int {
	d := s.data.Load()
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Version returns a counter incremented on every mutation, so a watcher can
// detect a changed dataset without diffing its contents.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

func (s *Store) snapshot() *dataset {
	if d := s.data.Load(); d != nil {
		return d
	}
	return &dataset{}
}
