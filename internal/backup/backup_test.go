package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	at := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "notes_20240615-103000.bak", FileName("notes", at))
}

func TestParseFileName(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		at := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
		name := FileName("notes", at)

		stamp, ok := ParseFileName("notes", name)
		require.True(t, ok)
		assert.True(t, stamp.Equal(at))
	})

	t.Run("base containing underscores", func(t *testing.T) {
		name := FileName("my_notes", time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC))

		_, ok := ParseFileName("my_notes", name)
		assert.True(t, ok)

		// A shorter base must not claim the longer base's backups.
		_, ok = ParseFileName("my", name)
		assert.False(t, ok)
	})

	t.Run("rejects non-backup names", func(t *testing.T) {
		for _, name := range []string{
			"notes",
			"notes.bak",
			"notes_.bak",
			"notes_20240615.bak",
			"notes_20240615-103000.txt",
			"notes_20241315-103000.bak",
			"notes_20240615-103000.bak.bak",
			"other_20240615-103000.bak",
		} {
			_, ok := ParseFileName("notes", name)
			assert.False(t, ok, "name %q must not parse", name)
		}
	})
}

func TestSortIsTotal(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	m1 := time.Date(2024, 1, 2, 9, 0, 1, 0, time.UTC)
	m2 := time.Date(2024, 1, 2, 9, 0, 2, 0, time.UTC)

	backups := []Backup{
		{Name: "c", Stamp: t2, ModTime: m2},
		{Name: "a", Stamp: t2, ModTime: m1},
		{Name: "d", Stamp: t1},
		{Name: "b", Stamp: t2, ModTime: m1},
	}
	Sort(backups)

	// Stamp first, then mtime, then name.
	names := []string{backups[0].Name, backups[1].Name, backups[2].Name, backups[3].Name}
	assert.Equal(t, []string{"d", "a", "b", "c"}, names)
}

func TestRenameKeepsStamp(t *testing.T) {
	at := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	b := Backup{Name: FileName("old", at), Stamp: at}

	assert.Equal(t, "new_20240615-103000.bak", b.Rename("new"))
}
