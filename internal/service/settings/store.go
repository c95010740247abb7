// Package settings caches the six singleton page-copy sections and writes
// partial updates through to the repository.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"vkseva-content/internal/domain"
	"vkseva-content/internal/metrics"
)

type Repository interface {
	// Get returns the document and the section version it was written with.
	Get(ctx context.Context, key domain.SectionKey) (json.RawMessage, int, error)
	Merge(ctx context.Context, key domain.SectionKey, doc json.RawMessage, version int) error
}

// Patch holds the top-level keys to replace in a section.
type Patch map[string]json.RawMessage

// PatchOf encodes v (a struct or map) as a patch. Zero-valued struct fields
// are included unless their json tag says omitempty.
func PatchOf(v any) (Patch, error) {
	doc, err := documentOf(v)
	if err != nil {
		return nil, err
	}
	return Patch(doc), nil
}

type Store struct {
	repo   Repository
	logger *log.Logger

	loading atomic.Bool
	mutate  sync.Mutex

	mu   sync.RWMutex
	docs map[domain.SectionKey]document
}

// New returns a store whose sections start at their defaults until the first
// fetch.
func New(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	docs := make(map[domain.SectionKey]document, len(domain.Sections))
	for _, sec := range domain.Sections {
		docs[sec.Key] = mustDefaults(sec)
	}
	return &Store{repo: repo, logger: logger, docs: docs}
}

func (s *Store) Loading() bool {
	return s.loading.Load()
}

// Fetch loads every section, seeding all defaults when the hero section has
// never been written. Errors are logged and leave the cache untouched.
func (s *Store) Fetch(ctx context.Context) {
	if err := s.Sync(ctx); err != nil {
		s.logger.Printf("settings fetch failed: %v", err)
	}
}

// Sync is Fetch with the error returned.
func (s *Store) Sync(ctx context.Context) (err error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil
	}
	defer s.loading.Store(false)
	defer func() { metrics.ObserveStore("settings", "fetch", err) }()

	s.mutate.Lock()
	defer s.mutate.Unlock()

	next := make(map[domain.SectionKey]document, len(domain.Sections))
	_, _, err = s.repo.Get(ctx, domain.SectionHero)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := s.seed(ctx); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("read %s: %w", domain.SectionHero, err)
	}

	for _, sec := range domain.Sections {
		doc, err := s.load(ctx, sec)
		if err != nil {
			return err
		}
		next[sec.Key] = doc
	}

	s.mu.Lock()
	s.docs = next
	s.mu.Unlock()
	return nil
}

// load reads one section and lays it over its defaults. A document that does
// not fit the section's shape only loses the offending keys; a document
// written by an older section version is rewritten at the current one.
func (s *Store) load(ctx context.Context, sec domain.SectionSpec) (document, error) {
	defaults := mustDefaults(sec)
	raw, version, err := s.repo.Get(ctx, sec.Key)
	if errors.Is(err, domain.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sec.Key, err)
	}

	var persisted document
	if err := json.Unmarshal(raw, &persisted); err != nil || persisted == nil {
		s.logger.Printf("settings %s: stored document unreadable, using defaults: %v", sec.Key, err)
		return defaults, nil
	}
	merged, replaced := repair(sec, defaults, mergeDefaults(sec, defaults, persisted))
	if len(replaced) > 0 {
		s.logger.Printf("settings %s: replaced invalid keys %v with defaults", sec.Key, replaced)
	}
	if err := validate(sec.Key, merged); err != nil {
		s.logger.Printf("settings %s: %v, using defaults", sec.Key, err)
		return defaults, nil
	}

	if version < sec.Version {
		out, err := json.Marshal(merged)
		if err == nil {
			err = s.repo.Merge(ctx, sec.Key, out, sec.Version)
		}
		if err != nil {
			s.logger.Printf("settings %s: upgrade from version %d failed: %v", sec.Key, version, err)
		} else {
			s.logger.Printf("settings %s: upgraded from version %d to %d", sec.Key, version, sec.Version)
		}
	}
	return merged, nil
}

func (s *Store) seed(ctx context.Context) error {
	for _, sec := range domain.Sections {
		raw, err := json.Marshal(mustDefaults(sec))
		if err != nil {
			return err
		}
		if err := s.repo.Merge(ctx, sec.Key, raw, sec.Version); err != nil {
			return fmt.Errorf("seed %s: %w", sec.Key, err)
		}
	}
	s.logger.Printf("seeded %d settings sections", len(domain.Sections))
	return nil
}

// Update shallow-merges patch into the cached section, persists the result
// and returns it. The cache only changes after the write succeeds.
func (s *Store) Update(ctx context.Context, key domain.SectionKey, patch Patch) (doc json.RawMessage, err error) {
	defer func() { metrics.ObserveStore("settings", "update", err) }()
	sec, ok := domain.LookupSection(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSection, key)
	}

	s.mutate.Lock()
	defer s.mutate.Unlock()

	s.mu.RLock()
	current := s.docs[sec.Key]
	s.mu.RUnlock()

	next := overlay(current, document(patch))
	if err := validate(sec.Key, next); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Merge(ctx, sec.Key, raw, sec.Version); err != nil {
		return nil, fmt.Errorf("save %s: %w", sec.Key, err)
	}

	s.mu.Lock()
	s.docs[sec.Key] = next
	s.mu.Unlock()
	return raw, nil
}

func (s *Store) UpdateHero(ctx context.Context, patch Patch) (domain.HeroSettings, error) {
	var out domain.HeroSettings
	return out, s.updateInto(ctx, domain.SectionHero, patch, &out)
}

func (s *Store) UpdateMission(ctx context.Context, patch Patch) (domain.MissionSettings, error) {
	var out domain.MissionSettings
	return out, s.updateInto(ctx, domain.SectionMission, patch, &out)
}

func (s *Store) UpdateStats(ctx context.Context, patch Patch) (domain.StatsSettings, error) {
	var out domain.StatsSettings
	return out, s.updateInto(ctx, domain.SectionStats, patch, &out)
}

func (s *Store) UpdateCTA(ctx context.Context, patch Patch) (domain.CTASettings, error) {
	var out domain.CTASettings
	return out, s.updateInto(ctx, domain.SectionCTA, patch, &out)
}

func (s *Store) UpdateAbout(ctx context.Context, patch Patch) (domain.AboutContent, error) {
	var out domain.AboutContent
	return out, s.updateInto(ctx, domain.SectionAbout, patch, &out)
}

func (s *Store) UpdateContact(ctx context.Context, patch Patch) (domain.ContactContent, error) {
	var out domain.ContactContent
	return out, s.updateInto(ctx, domain.SectionContact, patch, &out)
}

func (s *Store) updateInto(ctx context.Context, key domain.SectionKey, patch Patch, out any) error {
	raw, err := s.Update(ctx, key, patch)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Snapshot returns every section decoded into its typed form.
func (s *Store) Snapshot() domain.Settings {
	s.mu.RLock()
	wrapped := make(map[domain.SectionKey]document, len(s.docs))
	for k, v := range s.docs {
		wrapped[k] = v
	}
	raw, err := json.Marshal(wrapped)
	s.mu.RUnlock()

	var out domain.Settings
	if err == nil {
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		s.logger.Printf("settings snapshot: %v", err)
	}
	return out
}

// Section returns one section as JSON.
func (s *Store) Section(key domain.SectionKey) (json.RawMessage, error) {
	if _, ok := domain.LookupSection(key); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSection, key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.docs[key])
}

// validate checks that doc decodes into the typed shape of its section.
func validate(key domain.SectionKey, doc document) error {
	raw, err := json.Marshal(map[domain.SectionKey]document{key: doc})
	if err != nil {
		return err
	}
	var typed domain.Settings
	if err := json.Unmarshal(raw, &typed); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidSettings, key, err)
	}
	return nil
}

func mustDefaults(sec domain.SectionSpec) document {
	doc, err := documentOf(sec.Default())
	if err != nil {
		panic(fmt.Sprintf("defaults for %s: %v", sec.Key, err))
	}
	return doc
}
