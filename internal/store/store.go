// Package store implements the signature-keyed behavioral memory store and
// the profile store over a storage.Backend. Every mutation is a
// read-modify-write of the whole persisted snapshot; the contract is
// last-write-wins over the full blob, not field-level merge.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bazical/internal/cycle"
	"bazical/internal/domain"
	"bazical/internal/storage"
)

// DefaultTags is the built-in behavioral vocabulary, active until the user
// persists a custom list.
var DefaultTags = []string{
	"Self-Punishment",
	"Spent money emotionally",
	"Trusted too fast",
	"Conflict",
	"Impulsive decision",
	"Social approval seeking",
	"Avoided responsibility",
}

// Store is the aggregate over signature buckets, the profile and the tag
// vocabulary. Single logical user, no concurrent writers.
type Store struct {
	backend storage.Backend
}

// New creates a Store over the given backend.
func New(b storage.Backend) *Store {
	return &Store{backend: b}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// EntriesFor returns the entries logged under a signature, in insertion
// order. Nil when the signature has no bucket.
func (s *Store) EntriesFor(signature string) []domain.SignatureEntry {
	app := s.load()
	return app.Signatures[signature].Entries
}

// HasEntries reports whether a signature has at least one entry (the dot
// indicator on calendar cells).
func (s *Store) HasEntries(signature string) bool {
	return len(s.EntriesFor(signature)) > 0
}

// AddEntry appends a behavioral log to a signature's bucket, creating the
// bucket on first use. date defaults to today when empty. Repeated logs
// for the same day and tag are permitted; frequency is the signal.
func (s *Store) AddEntry(signature, tag, text, date string) (domain.SignatureEntry, error) {
	if !cycle.ValidSignature(signature) {
		return domain.SignatureEntry{}, fmt.Errorf("invalid signature %q", signature)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entry := domain.SignatureEntry{
		ID:        uuid.New().String(),
		Date:      date,
		Tag:       tag,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UnixMilli(),
	}

	app := s.load()
	bucket, ok := app.Signatures[signature]
	if !ok {
		bucket = domain.DaySignatureData{ID: signature}
	}
	bucket.Entries = append(bucket.Entries, entry)
	app.Signatures[signature] = bucket

	if err := s.persist(app); err != nil {
		return domain.SignatureEntry{}, err
	}
	return entry, nil
}

// DeleteEntry removes an entry from a signature's bucket. A bucket whose
// last entry is deleted is removed entirely; empty buckets never persist.
func (s *Store) DeleteEntry(signature, id string) error {
	app := s.load()
	bucket, ok := app.Signatures[signature]
	if !ok {
		return nil
	}

	kept := bucket.Entries[:0]
	for _, e := range bucket.Entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(app.Signatures, signature)
	} else {
		bucket.Entries = kept
		app.Signatures[signature] = bucket
	}

	return s.persist(app)
}

// Tags returns the active vocabulary: the persisted custom list, or
// DefaultTags when none (or an empty one) is persisted.
func (s *Store) Tags() []string {
	app := s.load()
	if len(app.CustomTags) == 0 {
		return append([]string(nil), DefaultTags...)
	}
	return append([]string(nil), app.CustomTags...)
}

// AddTag appends a tag to the vocabulary. The raw value is trimmed but not
// otherwise transformed; empty strings and exact duplicates are rejected
// with ok=false. err reports persistence failure only.
func (s *Store) AddTag(raw string) (bool, error) {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return false, nil
	}

	tags := s.Tags()
	for _, t := range tags {
		if t == tag {
			return false, nil
		}
	}

	app := s.load()
	app.CustomTags = append(tags, tag)
	if err := s.persist(app); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTag removes a tag from the vocabulary unconditionally. Entries
// already referencing it are left alone; orphaned tag strings still render
// and aggregate by their literal value.
func (s *Store) DeleteTag(tag string) error {
	tags := s.Tags()
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			kept = append(kept, t)
		}
	}

	app := s.load()
	app.CustomTags = kept
	return s.persist(app)
}

// Profile returns the configured four-pillar chart, or nil when absent.
// A persisted profile with invalid stem/branch symbols reads as absent.
func (s *Store) Profile() *domain.Profile {
	app := s.load()
	if app.Profile == nil || !validProfile(*app.Profile) {
		return nil
	}
	p := *app.Profile
	return &p
}

// SaveProfile stores the chart, replacing any existing one.
func (s *Store) SaveProfile(p domain.Profile) error {
	if !validProfile(p) {
		return fmt.Errorf("profile has invalid stem or branch symbols")
	}
	app := s.load()
	app.Profile = &p
	return s.persist(app)
}

// Branches returns the reference-branch set for classification: the four
// profile branches, or an empty set when no profile is configured.
func (s *Store) Branches() []string {
	p := s.Profile()
	if p == nil {
		return nil
	}
	return p.Branches()
}

func validProfile(p domain.Profile) bool {
	for _, pillar := range []domain.Pillar{p.YearPillar, p.MonthPillar, p.DayPillar, p.HourPillar} {
		if !cycle.ValidStem(pillar.Stem) || !cycle.ValidBranch(pillar.Branch) {
			return false
		}
	}
	return true
}
