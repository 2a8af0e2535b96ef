package userforms

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMaxUpload bounds multipart bodies parsed by NewSubmissionFromRequest.
const DefaultMaxUpload = 8 << 20

// FileField is one uploaded file of a submission.
type FileField struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FormSubmission holds the field values of one submit. It is built once and
// then handed to a single handler.
type FormSubmission struct {
	values url.Values
	files  map[string]*FileField
}

func NewSubmission(values map[string]string) *FormSubmission {
	s := &FormSubmission{values: url.Values{}, files: map[string]*FileField{}}
	for k, v := range values {
		s.values.Set(k, v)
	}
	return s
}

// NewSubmissionFromRequest reads urlencoded and multipart bodies.
func NewSubmissionFromRequest(r *http.Request, maxUpload int64) (*FormSubmission, error) {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	s := &FormSubmission{values: url.Values{}, files: map[string]*FileField{}}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(nil, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return nil, errors.Wrap(err, "parse multipart form")
		}
		defer r.MultipartForm.RemoveAll()
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			f, err := readFileHeader(headers[0])
			if err != nil {
				return nil, errors.Wrapf(err, "read file %q", name)
			}
			if f != nil {
				s.files[name] = f
			}
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(err, "parse form")
	}

	for k, v := range r.PostForm {
		s.values[k] = append([]string(nil), v...)
	}
	return s, nil
}

func readFileHeader(h *multipart.FileHeader) (*FileField, error) {
	if h.Size == 0 && h.Filename == "" {
		return nil, nil
	}
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &FileField{Filename: h.Filename, ContentType: h.Header.Get("Content-Type"), Data: data}, nil
}

// Get returns the trimmed first value of name.
func (s *FormSubmission) Get(name string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.values.Get(name))
}

// Raw returns the untrimmed first value, for passwords.
func (s *FormSubmission) Raw(name string) string {
	if s == nil {
		return ""
	}
	return s.values.Get(name)
}

func (s *FormSubmission) Set(name, value string) {
	s.values.Set(name, value)
}

func (s *FormSubmission) File(name string) *FileField {
	if s == nil {
		return nil
	}
	return s.files[name]
}

func (s *FormSubmission) SetFile(name string, f *FileField) {
	if f == nil {
		delete(s.files, name)
		return
	}
	s.files[name] = f
}

// Values returns a copy of the text fields.
func (s *FormSubmission) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k := range s.values {
		out[k] = s.values.Get(k)
	}
	return out
}
