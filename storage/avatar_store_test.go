package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorePutOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/static/avatars/")
	require.NoError(t, err)

	url, err := store.Put("u1.png", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, "/static/avatars/u1.png", url)

	url, err = store.Put("u1.png", []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, "/static/avatars/u1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestDiskStoreStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/static/avatars")
	require.NoError(t, err)

	url, err := store.Put("../../etc/u1.png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/static/avatars/u1.png", url)

	_, err = os.Stat(filepath.Join(dir, "u1.png"))
	assert.NoError(t, err)
}

func TestUploadSubtype(t *testing.T) {
	cases := map[string]string{
		"image/png":     "png",
		"image/svg+xml": "svg+xml",
		"":              "bin",
		"image/":        "bin",
	}
	for contentType, want := range cases {
		up := Upload{ContentType: contentType}
		assert.Equal(t, want, up.Subtype(), "content type %q", contentType)
	}
}
