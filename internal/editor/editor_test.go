package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandResolutionOrder(t *testing.T) {
	t.Setenv("EDITOR", "from-editor")
	t.Setenv("VISUAL", "from-visual")

	t.Run("explicit wins", func(t *testing.T) {
		assert.Equal(t, "nano", New("nano").Command())
	})

	t.Run("EDITOR before VISUAL", func(t *testing.T) {
		assert.Equal(t, "from-editor", New("").Command())
	})

	t.Run("VISUAL when EDITOR unset", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		assert.Equal(t, "from-visual", New("").Command())
	})

	t.Run("vi as last resort", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")
		assert.Equal(t, "vi", New("").Command())
	})
}

func TestEdit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the true/false commands")
	}

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	t.Run("propagates success", func(t *testing.T) {
		assert.NoError(t, New("true").Edit(path))
	})

	t.Run("propagates failure", func(t *testing.T) {
		assert.Error(t, New("false").Edit(path))
	})
}
