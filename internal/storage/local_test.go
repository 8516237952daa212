package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		allowed  bool
	}{
		{"dog.jpg", true},
		{"dog.JPEG", true},
		{"dog.png", true},
		{"dog.gif", true},
		{"dog.webp", false},
		{"dog.txt", false},
		{"dog", false},
		{"script.png.exe", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, AllowedExtension(tt.filename), tt.filename)
	}
}

func TestStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	src := filepath.Join(dir, "src.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0o644))
	file, err := os.Open(src)
	require.NoError(t, err)
	defer file.Close()

	require.NoError(t, store.Save(file, "1_abc.png"))

	written, err := os.ReadFile(filepath.Join(store.Dir(), "1_abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), written)
}
