package userforms_test

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/userforms"
)

func TestPreviewStoreThumbnails(t *testing.T) {
	previews := userforms.NewPreviewStore(time.Minute, nil)

	url, err := previews.Create(pngFile(t, 900, 600))
	require.NoError(t, err)
	id, ok := userforms.PreviewID(url)
	require.True(t, ok)

	p, ok := previews.Get(id)
	require.True(t, ok)
	assert.Equal(t, "image/png", p.ContentType)

	img, err := png.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	b := img.Bounds()
	assert.LessOrEqual(t, b.Dx(), userforms.PreviewMaxSide)
	assert.LessOrEqual(t, b.Dy(), userforms.PreviewMaxSide)
	assert.Equal(t, userforms.PreviewMaxSide, b.Dx())
}

func TestPreviewStoreRejectsNonImage(t *testing.T) {
	previews := userforms.NewPreviewStore(time.Minute, nil)

	_, err := previews.Create(&userforms.FileField{Data: []byte("%PDF-1.4 not an image")})
	assert.ErrorIs(t, err, userforms.ErrNotImage)
	_, err = previews.Create(nil)
	assert.ErrorIs(t, err, userforms.ErrNotImage)
	assert.Equal(t, 0, previews.Len())
}

func TestPreviewStoreRevoke(t *testing.T) {
	previews := userforms.NewPreviewStore(time.Minute, nil)
	url, err := previews.Create(pngFile(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, previews.Len())

	previews.Revoke("/somewhere/else")
	previews.Revoke(userforms.PreviewPathPrefix)
	assert.Equal(t, 1, previews.Len())

	previews.Revoke(url)
	assert.Equal(t, 0, previews.Len())
	id, _ := userforms.PreviewID(url)
	_, ok := previews.Get(id)
	assert.False(t, ok)
}

func TestPreviewIDParsing(t *testing.T) {
	_, ok := userforms.PreviewID("/media/x.png")
	assert.False(t, ok)
	_, ok = userforms.PreviewID(userforms.PreviewPathPrefix)
	assert.False(t, ok)
	id, ok := userforms.PreviewID(userforms.PreviewPathPrefix + "abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}
