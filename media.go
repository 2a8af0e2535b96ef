package userforms

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MediaPathPrefix is where stored avatars are served.
const MediaPathPrefix = "/media/"

// MediaStore keeps uploaded avatars on local disk.
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create media dir")
	}
	return &MediaStore{dir: dir}, nil
}

func (m *MediaStore) Dir() string { return m.dir }

// FileSystem serves the stored images. Directories and dot files, which
// include uploads still being written, are reported as missing.
func (m *MediaStore) FileSystem() http.FileSystem { return filesOnly{root: http.Dir(m.dir)} }

type filesOnly struct {
	root http.Dir
}

func (fs filesOnly) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, os.ErrNotExist
	}
	f, err := fs.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// SaveImage checks that f is an image, writes it and returns its public URL.
func (m *MediaStore) SaveImage(f *FileField) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrNotImage
	}
	contentType, _, err := sniffImage(f.Data)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + extensionFor(contentType)
	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "create upload")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "write upload")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close upload")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(m.dir, name)); err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	return MediaPathPrefix + name, nil
}
