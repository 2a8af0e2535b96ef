package userforms

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PreviewPathPrefix is where preview references are served.
const PreviewPathPrefix = "/avatar/preview/"

// Preview is the locally held copy of a selected avatar.
type Preview struct {
	ContentType string
	Data        []byte
}

// PreviewStore hands out short-lived references to selected files before
// they are uploaded. A reference stays valid until it is revoked or expires.
type PreviewStore struct {
	items   *cache.Cache
	metrics *Metrics
}

func NewPreviewStore(ttl time.Duration, m *Metrics) *PreviewStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	p := &PreviewStore{items: cache.New(ttl, ttl/2), metrics: m}
	p.items.OnEvicted(func(string, any) {
		p.metrics.setPreviews(p.items.ItemCount())
	})
	return p
}

// Create stores f and returns the URL that resolves to it.
func (p *PreviewStore) Create(f *FileField) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrNotImage
	}
	contentType, img, err := sniffImage(f.Data)
	if err != nil {
		return "", err
	}
	preview := Preview{ContentType: contentType, Data: f.Data}
	if img != nil {
		if thumb, err := thumbnailPNG(img, PreviewMaxSide); err == nil {
			preview = Preview{ContentType: "image/png", Data: thumb}
		}
	}

	id := uuid.NewString()
	p.items.Set(id, preview, cache.DefaultExpiration)
	p.metrics.setPreviews(p.items.ItemCount())
	return PreviewPathPrefix + id, nil
}

func (p *PreviewStore) Get(id string) (Preview, bool) {
	v, ok := p.items.Get(id)
	if !ok {
		return Preview{}, false
	}
	preview, ok := v.(Preview)
	return preview, ok
}

// Revoke releases the reference behind url. Unknown URLs are ignored.
func (p *PreviewStore) Revoke(url string) {
	id, ok := PreviewID(url)
	if !ok {
		return
	}
	p.items.Delete(id)
	p.metrics.setPreviews(p.items.ItemCount())
}

func (p *PreviewStore) Len() int { return p.items.ItemCount() }

// PreviewID extracts the id of a URL handed out by Create.
func PreviewID(url string) (string, bool) {
	if !strings.HasPrefix(url, PreviewPathPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(url, PreviewPathPrefix)
	return id, id != ""
}
