package userforms_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/userforms"
)

func TestMediaStoreServesOnlyStoredImages(t *testing.T) {
	dir := t.TempDir()
	media, err := userforms.NewMediaStore(dir)
	require.NoError(t, err)

	url, err := media.SaveImage(pngFile(t, 8, 8))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, userforms.MediaPathPrefix))
	name := "/" + strings.TrimPrefix(url, userforms.MediaPathPrefix)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("partial"), 0o644))

	fs := media.FileSystem()
	f, err := fs.Open(name)
	require.NoError(t, err)
	f.Close()

	for _, missing := range []string{"/", "/nested", "/.upload-123", "/nope.png"} {
		_, err := fs.Open(missing)
		assert.ErrorIs(t, err, os.ErrNotExist, missing)
	}
}

func TestMediaStoreRejectsNonImage(t *testing.T) {
	media, err := userforms.NewMediaStore(t.TempDir())
	require.NoError(t, err)
	_, err = media.SaveImage(&userforms.FileField{Filename: "x.txt", Data: []byte("plain text")})
	assert.ErrorIs(t, err, userforms.ErrNotImage)
}
