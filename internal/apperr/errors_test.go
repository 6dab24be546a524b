package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("file %q does not exist", "notes")
		assert.Equal(t, `file "notes" does not exist`, err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := IOFailure("writing index", cause)
		assert.Equal(t, "writing index: permission denied", err.Error())
	})
}

func TestKindMatching(t *testing.T) {
	err := AlreadyExists("vault %q is already registered", "work")

	assert.True(t, Is(err, KindAlreadyExists))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, KindAlreadyExists, KindOf(err))
}

func TestKindMatchingThroughWrapping(t *testing.T) {
	inner := OutOfRange("backup 5 of 2 requested")
	wrapped := fmt.Errorf("resolving backup: %w", inner)

	assert.True(t, Is(wrapped, KindOutOfRange))
	assert.Equal(t, KindOutOfRange, KindOf(wrapped))
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := os.ErrPermission
	err := IOFailure("creating vault directory", cause)

	require.ErrorIs(t, err, os.ErrPermission)
}

func TestForeignErrorsHaveNoKind(t *testing.T) {
	err := errors.New("plain failure")

	assert.False(t, Is(err, KindIOFailure))
	assert.Equal(t, Kind(""), KindOf(err))
}
