package archive

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UniBinary/TextVault/internal/apperr"
)

func writeVaultTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte(`{"notes": 1}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "notes"), []byte("current\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "notes_20240601-120000.bak"), []byte("older\n"), 0o644))
	return dir
}

func TestDumpUsesRelativeEntryNames(t *testing.T) {
	dir := writeVaultTree(t)
	target := filepath.Join(t.TempDir(), "vault.zip")

	require.NoError(t, Dump(dir, target))

	r, err := zip.OpenReader(target)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"index.json",
		"notes/notes",
		"notes/notes_20240601-120000.bak",
	}, names)
}

func TestDumpImportRoundTrip(t *testing.T) {
	dir := writeVaultTree(t)
	target := filepath.Join(t.TempDir(), "vault.zip")
	require.NoError(t, Dump(dir, target))

	restored := filepath.Join(t.TempDir(), "restored")
	got, err := Import(target, restored)
	require.NoError(t, err)
	assert.Equal(t, restored, got)

	for _, rel := range []string{"index.json", "notes/notes", "notes/notes_20240601-120000.bak"} {
		want, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		have, err := os.ReadFile(filepath.Join(restored, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, want, have, "content mismatch for %s", rel)
	}
}

func TestImportMissingArchive(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "absent.zip"), filepath.Join(t.TempDir(), "out"))

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestImportExistingTarget(t *testing.T) {
	dir := writeVaultTree(t)
	target := filepath.Join(t.TempDir(), "vault.zip")
	require.NoError(t, Dump(dir, target))

	existing := t.TempDir()
	_, err := Import(target, existing)

	assert.True(t, apperr.Is(err, apperr.KindPathConflict))
}

func TestImportRejectsEscapingEntries(t *testing.T) {
	// Hand-build an archive whose entry climbs out of the target.
	archivePath := filepath.Join(t.TempDir(), "evil.zip")
	out, err := os.Create(archivePath)
	require.NoError(t, err)
	w := zip.NewWriter(out)
	entry, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.txt", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = entry.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	parent := t.TempDir()
	_, err = Import(archivePath, filepath.Join(parent, "restored"))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPathConflict))
	assert.NoFileExists(t, filepath.Join(parent, "escape.txt"))
}
