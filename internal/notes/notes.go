// Package notes stores free-form calendar memos keyed by calendar date.
// Unlike the signature store, notes do not recur: they belong to one
// concrete day, so they live in their own blob beside the main snapshot.
package notes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bazical/internal/storage"
)

// BlobKey is the storage row notes persist under.
const BlobKey = "calendar-notes"

// Note is one dated memo.
type Note struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time,omitempty"`
	Text      string `json:"text"`
	Reminder  bool   `json:"reminder,omitempty"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
}

// Store holds all notes as a single persisted list.
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

// load reads the persisted list; anything missing or malformed degrades
// silently to no notes, same policy as the main snapshot.
func (s *Store) load() []Note {
	raw, ok, err := s.backend.Load()
	if err != nil || !ok {
		return nil
	}
	var notes []Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	return notes
}

func (s *Store) persist(notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return s.backend.Save(data)
}

// All returns every note in insertion order.
func (s *Store) All() []Note {
	return s.load()
}

// ForDate returns the notes logged for one calendar date.
func (s *Store) ForDate(date string) []Note {
	var matched []Note
	for _, n := range s.load() {
		if n.Date == date {
			matched = append(matched, n)
		}
	}
	return matched
}

// Add appends a note. date defaults to today when empty; text is required.
func (s *Store) Add(date, timeOfDay, text string, reminder bool) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, fmt.Errorf("note text is required")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	note := Note{
		ID:        uuid.New().String(),
		Date:      date,
		Time:      strings.TrimSpace(timeOfDay),
		Text:      text,
		Reminder:  reminder,
		CreatedAt: time.Now().UnixMilli(),
	}

	notes := append(s.load(), note)
	if err := s.persist(notes); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Delete removes a note by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	notes := s.load()
	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	return s.persist(kept)
}
