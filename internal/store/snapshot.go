package store

import (
	"encoding/json"

	"bazical/internal/domain"
)

// Two deliberately separate parse paths live here. Loading persisted state
// is lenient: anything malformed degrades silently to a default snapshot,
// because a local single-user cache should never take the session down.
// Importing a snapshot is strict: it is an explicit full-replacement
// operation, so a bad payload is rejected and the store left untouched.

func defaultSnapshot() *domain.AppStore {
	return &domain.AppStore{
		Signatures: map[string]domain.DaySignatureData{},
		CustomTags: []string{},
	}
}

// load reads and decodes the persisted snapshot. A missing, unreadable or
// malformed blob yields the default snapshot. The legacy layout (top-level
// value is the signatures mapping itself) is migrated in place.
func (s *Store) load() *domain.AppStore {
	raw, ok, err := s.backend.Load()
	if err != nil || !ok {
		return defaultSnapshot()
	}

	app, migrated := decodeSnapshot(raw)
	if migrated {
		// Write back the wrapped layout; a failure here just means the
		// migration reruns on the next load.
		_ = s.persist(app)
	}
	return app
}

// decodeSnapshot tries each known layout in order: the current wrapped
// shape first, then the legacy bare-signatures shape. Anything else falls
// back to the default snapshot.
func decodeSnapshot(raw []byte) (app *domain.AppStore, migrated bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return defaultSnapshot(), false
	}

	_, hasSignatures := probe["signatures"]
	_, hasProfile := probe["profile"]
	if !hasSignatures && !hasProfile {
		// Legacy layout: the object is the signatures mapping directly.
		var sigs map[string]domain.DaySignatureData
		if err := json.Unmarshal(raw, &sigs); err != nil {
			return defaultSnapshot(), false
		}
		app := defaultSnapshot()
		app.Signatures = sigs
		app.CustomTags = append([]string(nil), DefaultTags...)
		return app, true
	}

	var decoded domain.AppStore
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return defaultSnapshot(), false
	}
	normalize(&decoded)
	return &decoded, false
}

// persist writes the snapshot back as the current wrapped layout.
func (s *Store) persist(app *domain.AppStore) error {
	normalize(app)
	data, err := json.Marshal(app)
	if err != nil {
		return err
	}
	return s.backend.Save(data)
}

func normalize(app *domain.AppStore) {
	if app.Signatures == nil {
		app.Signatures = map[string]domain.DaySignatureData{}
	}
	if app.CustomTags == nil {
		app.CustomTags = []string{}
	}
}

// Export serializes the full snapshot. Map keys marshal sorted and struct
// fields in declaration order, so equal stores export equal bytes.
func (s *Store) Export() ([]byte, error) {
	app := s.load()
	normalize(app)
	return json.Marshal(app)
}

// Import validates a serialized snapshot and, only if every present field
// has the right shape, replaces the entire store with it. On any validation
// or persistence failure it returns false and leaves the existing store
// untouched. Replacement is total, never a merge.
func (s *Store) Import(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}

	app := defaultSnapshot()

	if raw, ok := probe["signatures"]; ok && !isJSONNull(raw) {
		var sigs map[string]domain.DaySignatureData
		if err := json.Unmarshal(raw, &sigs); err != nil {
			return false
		}
		if sigs != nil {
			app.Signatures = sigs
		}
	}

	if raw, ok := probe["profile"]; ok && !isJSONNull(raw) {
		var p domain.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return false
		}
		for _, pillar := range []domain.Pillar{p.YearPillar, p.MonthPillar, p.DayPillar, p.HourPillar} {
			if pillar.Stem == "" || pillar.Branch == "" {
				return false
			}
		}
		app.Profile = &p
	}

	if raw, ok := probe["customTags"]; ok && !isJSONNull(raw) {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return false
		}
		if tags != nil {
			app.CustomTags = tags
		}
	}

	return s.persist(app) == nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
