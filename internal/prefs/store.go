package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
	"github.com/pixil98/go-lobby/internal/storage"
)

const DefaultDebounce = 500 * time.Millisecond

// Store keeps the named boolean flags of every entity in memory and writes them to a
// key/value file on a debounced worker. Flags that were never stored read as disabled.
type Store struct {
	kv       storage.KeyValueStore
	flags    []string
	debounce time.Duration
	records  *session.Map[map[string]bool]

	mu      sync.Mutex
	queued  bool
	pending chan struct{}
}

type StoreOpt func(*Store)

// WithDebounce sets how long the worker waits after the first scheduled flush before
// writing.
func WithDebounce(d time.Duration) StoreOpt {
	return func(s *Store) {
		s.debounce = d
	}
}

// NewStore creates a store persisting the given flag names through kv.
func NewStore(kv storage.KeyValueStore, flags []string, opts ...StoreOpt) *Store {
	s := &Store{
		kv:       kv,
		flags:    append([]string(nil), flags...),
		debounce: DefaultDebounce,
		records:  session.NewMap[map[string]bool](),
		pending:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory records with the durable ones. A failing load is logged
// and treated as no saved preferences.
func (s *Store) Load(ctx context.Context) {
	recs, err := s.kv.Load()
	if err != nil {
		slog.WarnContext(ctx, "loading preferences, starting empty", "error", err)
		return
	}

	s.records.Clear()
	for key, vals := range recs {
		id, err := platform.ParseEntityId(key)
		if err != nil {
			slog.WarnContext(ctx, "skipping preference record with invalid id", "key", key)
			continue
		}
		rec := make(map[string]bool, len(s.flags))
		for _, f := range s.flags {
			if vals[f] {
				rec[f] = true
			}
		}
		s.records.Set(id, rec)
	}
}

// Enabled reports whether flag is on for id.
func (s *Store) Enabled(id platform.EntityId, flag string) bool {
	rec, ok := s.records.Get(id)
	return ok && rec[flag]
}

// EnabledFlags returns the flags currently on for id, in declaration order.
func (s *Store) EnabledFlags(id platform.EntityId) []string {
	rec, _ := s.records.Get(id)
	var out []string
	for _, f := range s.flags {
		if rec[f] {
			out = append(out, f)
		}
	}
	return out
}

// Set stores the flag value for id. It does not schedule a flush.
func (s *Store) Set(id platform.EntityId, flag string, on bool) {
	s.records.Compute(id, func(cur map[string]bool, _ bool) (map[string]bool, bool) {
		next := copyRecord(cur)
		next[flag] = on
		return next, true
	})
}

// Toggle flips flag for id and returns the new value. It does not schedule a flush.
func (s *Store) Toggle(id platform.EntityId, flag string) bool {
	on := false
	s.records.Compute(id, func(cur map[string]bool, _ bool) (map[string]bool, bool) {
		next := copyRecord(cur)
		on = !next[flag]
		next[flag] = on
		return next, true
	})
	return on
}

// ScheduleFlush queues one flush on the worker unless one is already pending.
func (s *Store) ScheduleFlush() {
	s.mu.Lock()
	if s.queued {
		s.mu.Unlock()
		return
	}
	s.queued = true
	s.mu.Unlock()

	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// Pending reports whether a flush is scheduled but has not started.
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queued
}

// Flush writes every record now. The pending flag is cleared before writing so a change
// arriving during the write schedules exactly one more flush.
func (s *Store) Flush() error {
	s.mu.Lock()
	s.queued = false
	s.mu.Unlock()

	recs := storage.Records{}
	for id, rec := range s.records.Snapshot() {
		vals := make(map[string]bool, len(s.flags))
		for _, f := range s.flags {
			vals[f] = rec[f]
		}
		recs[id.String()] = vals
	}

	if err := s.kv.Save(recs); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// Start runs the flush worker until ctx is cancelled. Anything still pending at shutdown
// is flushed before returning.
func (s *Store) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if s.Pending() {
				s.flush(context.WithoutCancel(ctx))
			}
			return nil
		case <-s.pending:
			timer := time.NewTimer(s.debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
			s.flush(ctx)
		}
	}
}

func (s *Store) flush(ctx context.Context) {
	if err := s.Flush(); err != nil {
		slog.WarnContext(ctx, "flushing preferences", "error", err)
	}
}

func copyRecord(cur map[string]bool) map[string]bool {
	next := make(map[string]bool, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	return next
}
