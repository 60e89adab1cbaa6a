package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazical/internal/storage"
)

func TestAddAndFilterByDate(t *testing.T) {
	s := New(storage.NewMemory())

	first, err := s.Add("2025-08-30", "09:00", "dentist", true)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.Reminder)

	_, err = s.Add("2025-08-31", "", "groceries", false)
	require.NoError(t, err)

	assert.Len(t, s.All(), 2)

	day := s.ForDate("2025-08-30")
	require.Len(t, day, 1)
	assert.Equal(t, "dentist", day[0].Text)
	assert.Empty(t, s.ForDate("2025-09-01"))
}

func TestAddDefaultsDateAndTrims(t *testing.T) {
	s := New(storage.NewMemory())

	note, err := s.Add("", " 18:30 ", "  call home  ", false)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, note.Date)
	assert.Equal(t, "18:30", note.Time)
	assert.Equal(t, "call home", note.Text)
}

func TestAddRejectsEmptyText(t *testing.T) {
	s := New(storage.NewMemory())

	_, err := s.Add("2025-08-30", "", "   ", false)
	assert.Error(t, err)
	assert.Empty(t, s.All())
}

func TestDelete(t *testing.T) {
	s := New(storage.NewMemory())

	note, err := s.Add("2025-08-30", "", "dentist", false)
	require.NoError(t, err)
	keep, err := s.Add("2025-08-30", "", "groceries", false)
	require.NoError(t, err)

	require.NoError(t, s.Delete(note.ID))
	remaining := s.All()
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	// Unknown id is a no-op.
	assert.NoError(t, s.Delete("nope"))
	assert.Len(t, s.All(), 1)
}

func TestMalformedBlobDegradesToEmpty(t *testing.T) {
	mem := storage.NewMemory()
	mem.Seed([]byte("{not json"))
	s := New(mem)

	assert.Empty(t, s.All())

	// The store stays usable after degrading.
	_, err := s.Add("2025-08-30", "", "fresh start", false)
	require.NoError(t, err)
	assert.Len(t, s.All(), 1)
}
