package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", humanSize(0))
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.0 KB", humanSize(1<<10))
	assert.Equal(t, "1.5 KB", humanSize(1536))
	assert.Equal(t, "1.0 MB", humanSize(1<<20))
	assert.Equal(t, "1.0 GB", humanSize(1<<30))

	// Each further unit boundary stays in range.
	assert.Equal(t, "1.0 TB", humanSize(1<<40))
	assert.Equal(t, "1.0 PB", humanSize(1<<50))
	assert.Equal(t, "1.0 EB", humanSize(1<<60))
}
