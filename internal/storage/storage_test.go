package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	t.Run("keeps extension", func(t *testing.T) {
		name := ObjectName(".jpg")
		require.True(t, strings.HasSuffix(name, ".jpg"))
		require.Greater(t, len(name), len(".jpg"))
	})

	t.Run("adds missing dot", func(t *testing.T) {
		name := ObjectName("png")
		require.True(t, strings.HasSuffix(name, ".png"))
	})

	t.Run("lowercases extension", func(t *testing.T) {
		name := ObjectName(".JPG")
		require.True(t, strings.HasSuffix(name, ".jpg"))
	})

	t.Run("defaults to bin", func(t *testing.T) {
		name := ObjectName("")
		require.True(t, strings.HasSuffix(name, ".bin"))
	})

	t.Run("unique per call", func(t *testing.T) {
		require.NotEqual(t, ObjectName(".jpg"), ObjectName(".jpg"))
	})
}

func TestExtFromPath(t *testing.T) {
	require.Equal(t, ".jpg", ExtFromPath("photos/file_123.jpg"))
	require.Equal(t, ".pdf", ExtFromPath("documents/file_5.pdf"))
	require.Equal(t, ".bin", ExtFromPath("voice/file_9"))
}
