package userforms

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// PreviewMaxSide bounds the width and height of preview thumbnails.
const PreviewMaxSide = 300

// sniffImage reports the detected content type and, when the format is
// registered, the decoded image.
func sniffImage(data []byte) (string, image.Image, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return contentType, nil, nil
	}
	return contentType, img, nil
}

func thumbnailPNG(img image.Image, side uint) ([]byte, error) {
	thumb := resize.Thumbnail(side, side, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".img"
}
