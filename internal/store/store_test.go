package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazical/internal/domain"
	"bazical/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return New(mem), mem
}

func TestAddEntryCreatesBucket(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddEntry("戊午", "Conflict", "argued at work", "2025-08-30")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2025-08-30", entry.Date)
	assert.Equal(t, "Conflict", entry.Tag)
	assert.Equal(t, "argued at work", entry.Text)
	assert.NotZero(t, entry.CreatedAt)

	entries := s.EntriesFor("戊午")
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.True(t, s.HasEntries("戊午"))
}

func TestAddEntryDefaultsDateAndTrimsText(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddEntry("甲子", "Conflict", "  note  ", "")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, entry.Date)
	assert.Equal(t, "note", entry.Text)
}

func TestAddEntryRejectsInvalidSignature(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddEntry("bogus", "Conflict", "", "")
	assert.Error(t, err)
	assert.Empty(t, s.EntriesFor("bogus"))
}

func TestAddEntryAllowsRepeatedTagAndDate(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)
	_, err = s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)

	assert.Len(t, s.EntriesFor("戊午"), 2)
}

func TestDeleteLastEntryRemovesBucket(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry("戊午", entry.ID))
	assert.Empty(t, s.EntriesFor("戊午"))

	// The bucket itself must be gone, not persisted empty.
	data, err := s.Export()
	require.NoError(t, err)
	var snapshot map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.JSONEq(t, `{}`, string(snapshot["signatures"]))
}

func TestDeleteEntryKeepsOthers(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)
	second, err := s.AddEntry("戊午", "Trusted too fast", "", "2025-08-30")
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry("戊午", first.ID))
	entries := s.EntriesFor("戊午")
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)
}

func TestDeleteEntryUnknownSignatureIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.DeleteEntry("戊午", "nope"))
}

func TestTagsDefaultVocabulary(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, DefaultTags, s.Tags())
}

func TestAddTag(t *testing.T) {
	s, _ := newTestStore(t)

	ok, err := s.AddTag("  Overcommitted  ")
	require.NoError(t, err)
	assert.True(t, ok)

	tags := s.Tags()
	assert.Equal(t, "Overcommitted", tags[len(tags)-1])
	assert.Equal(t, append(append([]string{}, DefaultTags...), "Overcommitted"), tags)

	// Exact duplicate and empty are rejected without error.
	ok, err = s.AddTag("Overcommitted")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.AddTag("   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddTagDoesNotLowercase(t *testing.T) {
	s, _ := newTestStore(t)

	ok, err := s.AddTag("overcommitted")
	require.NoError(t, err)
	assert.True(t, ok)

	// Different case is a different tag.
	ok, err = s.AddTag("Overcommitted")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteTagLeavesEntriesAlone(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTag("Conflict"))
	assert.NotContains(t, s.Tags(), "Conflict")

	// The orphaned tag still aggregates by its literal value.
	entries := s.EntriesFor("戊午")
	require.Len(t, entries, 1)
	a := Analyze(entries)
	require.NotNil(t, a)
	assert.Equal(t, "Conflict", a.TopTag)
}

func TestSaveProfileAndBranches(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Nil(t, s.Profile())
	assert.Empty(t, s.Branches())

	p := domain.Profile{
		YearPillar:  domain.Pillar{Stem: "甲", Branch: "子"},
		MonthPillar: domain.Pillar{Stem: "丙", Branch: "午"},
		DayPillar:   domain.Pillar{Stem: "戊", Branch: "卯"},
		HourPillar:  domain.Pillar{Stem: "庚", Branch: "酉"},
	}
	require.NoError(t, s.SaveProfile(p))

	got := s.Profile()
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
	assert.Equal(t, []string{"子", "午", "卯", "酉"}, s.Branches())
}

func TestSaveProfileRejectsInvalidSymbols(t *testing.T) {
	s, _ := newTestStore(t)

	p := domain.Profile{
		YearPillar:  domain.Pillar{Stem: "X", Branch: "子"},
		MonthPillar: domain.Pillar{Stem: "丙", Branch: "午"},
		DayPillar:   domain.Pillar{Stem: "戊", Branch: "卯"},
		HourPillar:  domain.Pillar{Stem: "庚", Branch: "酉"},
	}
	assert.Error(t, s.SaveProfile(p))
	assert.Nil(t, s.Profile())
}

func TestLoadMalformedBlobDegradesToDefault(t *testing.T) {
	mem := storage.NewMemory()
	mem.Seed([]byte("{not json"))
	s := New(mem)

	assert.Empty(t, s.EntriesFor("戊午"))
	assert.Nil(t, s.Profile())
	assert.Equal(t, DefaultTags, s.Tags())
}

func TestLoadLegacyLayoutMigrates(t *testing.T) {
	legacy := `{"戊午":{"id":"戊午","entries":[{"id":"1","date":"2024-01-01","tag":"Conflict","createdAt":1704067200000}]}}`
	mem := storage.NewMemory()
	mem.Seed([]byte(legacy))
	s := New(mem)

	entries := s.EntriesFor("戊午")
	require.Len(t, entries, 1)
	assert.Equal(t, "Conflict", entries[0].Tag)
	assert.Equal(t, DefaultTags, s.Tags())
	assert.Nil(t, s.Profile())

	// Migration is written back in the wrapped layout.
	raw, ok, err := mem.Load()
	require.NoError(t, err)
	require.True(t, ok)
	var wrapped map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wrapped))
	assert.Contains(t, wrapped, "signatures")
	assert.Contains(t, wrapped, "profile")
	assert.Contains(t, wrapped, "customTags")
}

func TestImportRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"not an object":         `[1,2,3]`,
		"not json":              `nope`,
		"signatures is array":   `{"signatures": [], "profile": null}`,
		"signatures is string":  `{"signatures": "x"}`,
		"profile missing stem":  `{"signatures": {}, "profile": {"yearPillar":{"branch":"子"},"monthPillar":{"stem":"丙","branch":"午"},"dayPillar":{"stem":"戊","branch":"卯"},"hourPillar":{"stem":"庚","branch":"酉"}}}`,
		"profile stem not text": `{"profile": {"yearPillar":{"stem":1,"branch":"子"},"monthPillar":{"stem":"丙","branch":"午"},"dayPillar":{"stem":"戊","branch":"卯"},"hourPillar":{"stem":"庚","branch":"酉"}}}`,
		"customTags not array":  `{"signatures": {}, "customTags": "Conflict"}`,
		"customTags mixed":      `{"signatures": {}, "customTags": ["ok", 3]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t)
			_, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
			require.NoError(t, err)
			before, err := s.Export()
			require.NoError(t, err)

			assert.False(t, s.Import([]byte(payload)))

			after, err := s.Export()
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after), "store must be untouched after failed import")
		})
	}
}

func TestImportReplacesEntirely(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)

	payload := `{"signatures":{"甲子":{"id":"甲子","entries":[{"id":"e1","date":"2024-06-01","tag":"Impulsive decision","createdAt":1717200000000}]}},"profile":null,"customTags":["A","B"]}`
	require.True(t, s.Import([]byte(payload)))

	// Replacement, not merge: the old bucket is gone.
	assert.Empty(t, s.EntriesFor("戊午"))
	require.Len(t, s.EntriesFor("甲子"), 1)
	assert.Equal(t, []string{"A", "B"}, s.Tags())
}

func TestImportFailsWhenPersistFails(t *testing.T) {
	s, mem := newTestStore(t)
	_, err := s.AddEntry("戊午", "Conflict", "", "2025-08-30")
	require.NoError(t, err)

	mem.SaveErr = errors.New("disk full")
	assert.False(t, s.Import([]byte(`{"signatures":{},"profile":null,"customTags":[]}`)))

	mem.SaveErr = nil
	assert.Len(t, s.EntriesFor("戊午"), 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddEntry("戊午", "Conflict", "late night argument", "2025-08-30")
	require.NoError(t, err)
	_, err = s.AddEntry("甲子", "Trusted too fast", "", "2025-07-01")
	require.NoError(t, err)
	require.NoError(t, s.SaveProfile(domain.Profile{
		YearPillar:  domain.Pillar{Stem: "甲", Branch: "子"},
		MonthPillar: domain.Pillar{Stem: "丙", Branch: "午"},
		DayPillar:   domain.Pillar{Stem: "戊", Branch: "卯"},
		HourPillar:  domain.Pillar{Stem: "庚", Branch: "酉"},
	}))
	ok, err := s.AddTag("Overcommitted")
	require.NoError(t, err)
	require.True(t, ok)

	first, err := s.Export()
	require.NoError(t, err)

	fresh, _ := newTestStore(t)
	require.True(t, fresh.Import(first))
	second, err := fresh.Export()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second), "export-import-export must be byte stable")

	var a, b domain.AppStore
	require.NoError(t, json.Unmarshal(first, &a))
	require.NoError(t, json.Unmarshal(second, &b))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
