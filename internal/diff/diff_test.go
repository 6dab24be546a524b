package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	t.Run("identical contents produce no changes", func(t *testing.T) {
		content := []byte("alpha\nbeta\n")

		result := Lines(content, content)

		assert.False(t, result.Changed())
		assert.Equal(t, 0, result.Stats.Additions)
		assert.Equal(t, 0, result.Stats.Deletions)
	})

	t.Run("counts insertions and deletions", func(t *testing.T) {
		oldContent := []byte("alpha\nbeta\ngamma\n")
		newContent := []byte("alpha\nBETA\ngamma\ndelta\n")

		result := Lines(oldContent, newContent)

		require.True(t, result.Changed())
		assert.Equal(t, 2, result.Stats.Additions)
		assert.Equal(t, 1, result.Stats.Deletions)
	})

	t.Run("empty old content is all additions", func(t *testing.T) {
		result := Lines(nil, []byte("one\ntwo\n"))

		assert.Equal(t, 2, result.Stats.Additions)
		assert.Equal(t, 0, result.Stats.Deletions)
	})
}

func TestFormat(t *testing.T) {
	result := Lines([]byte("keep\nremove\n"), []byte("keep\nadd\n"))
	out := result.Format()

	assert.Contains(t, out, "  keep\n")
	assert.Contains(t, out, "- remove\n")
	assert.Contains(t, out, "+ add\n")
}
