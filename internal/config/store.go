package config

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/rules"
	"github.com/brianly1003/autosort/internal/sync"
)

// Store owns the current configuration snapshot and its backing file.
// Snapshot is lock-free; writers serialize on mu.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
}

// NewStore creates a store holding cfg. When path is empty the store is
// memory-only and Persist never touches disk.
func NewStore(cfg *Config, path string) *Store {
	s := &Store{path: path}
	s.current.Store(NewSnapshot(cfg))
	return s
}

// OpenStore loads the config at path (or the default search path when
// empty) and wraps it in a store bound to the file that was used.
func OpenStore(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(cfg, cfg.File()), nil
}

// Path returns the backing file, or "" for a memory-only store.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the current configuration snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Persist writes snap to disk and makes it current. On a write error the
// previous snapshot stays current.
func (s *Store) Persist(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(snap)
}

func (s *Store) persistLocked(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("persist: nil snapshot")
	}
	if s.path != "" {
		if err := Save(s.path, snap.Config()); err != nil {
			return err
		}
	}
	s.current.Store(snap)
	return nil
}

// Update applies fn to the current snapshot and persists its result while
// holding the write lock. Returning nil or the same snapshot writes nothing.
func (s *Store) Update(fn func(*Snapshot) *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	next := fn(cur)
	if next == nil || next == cur {
		return nil
	}
	return s.persistLocked(next)
}

// update applies fn to a copy of the current rules and persists the result.
func (s *Store) update(fn func([]rules.Rule) ([]rules.Rule, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	next, err := fn(snap.Config().Rules)
	if err != nil {
		return err
	}
	return s.persistLocked(snap.WithRules(next))
}

// AddRule appends r to the rule list.
func (s *Store) AddRule(r rules.Rule) error {
	r.Extensions = rules.NormalizeExtensions(r.Extensions)
	if err := ValidateRule(r); err != nil {
		return err
	}
	return s.update(func(rs []rules.Rule) ([]rules.Rule, error) {
		return append(rs, r), nil
	})
}

// UpdateRule replaces the rule at index.
func (s *Store) UpdateRule(index int, r rules.Rule) error {
	r.Extensions = rules.NormalizeExtensions(r.Extensions)
	if err := ValidateRule(r); err != nil {
		return err
	}
	return s.update(func(rs []rules.Rule) ([]rules.Rule, error) {
		if index < 0 || index >= len(rs) {
			return nil, fmt.Errorf("rule %d: %w", index, domain.ErrRuleNotFound)
		}
		rs[index] = r
		return rs, nil
	})
}

// DeleteRule removes the rule at index.
func (s *Store) DeleteRule(index int) error {
	return s.update(func(rs []rules.Rule) ([]rules.Rule, error) {
		if index < 0 || index >= len(rs) {
			return nil, fmt.Errorf("rule %d: %w", index, domain.ErrRuleNotFound)
		}
		return append(rs[:index], rs[index+1:]...), nil
	})
}

// Reload re-reads the backing file and makes it current.
func (s *Store) Reload() (*Snapshot, error) {
	if s.path == "" {
		return s.Snapshot(), nil
	}

	// Loading under the lock keeps a concurrent Persist from being
	// replaced by older file contents.
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	snap := NewSnapshot(cfg)
	s.current.Store(snap)
	return snap, nil
}

// Watch reloads the store whenever the backing file changes on disk and
// calls onChange with the new snapshot. Invalid edits are logged and the
// previous snapshot is kept.
func (s *Store) Watch(onChange func(*Snapshot)) {
	if s.path == "" {
		return
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.OnConfigChange(func(e fsnotify.Event) {
		snap, err := s.Reload()
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Msg("config reloaded")
		if onChange != nil {
			onChange(snap)
		}
	})
	v.WatchConfig()
}
