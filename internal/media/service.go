package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/config"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"go.uber.org/multierr"
)

const objectPrefix = "products"

var extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// Upload is one file in a batch upload request.
type Upload struct {
	Filename string
	Data     []byte
}

// Failure describes a single file that could not be uploaded.
type Failure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Result carries the batch outcome. URLs keeps input order but only contains
// entries for the files that made it; a partial batch has fewer URLs than
// inputs.
type Result struct {
	URLs     []string  `json:"urls"`
	Failures []Failure `json:"failures,omitempty"`
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, data io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

// Service handles product image batch uploads and cleanup.
type Service interface {
	UploadImages(ctx context.Context, uploads []Upload) (*Result, error)
	DeleteImages(ctx context.Context, urls []string) error
}

type service struct {
	storage  objectStore
	maxBytes int64
}

// NewService constructs a media service backed by object storage.
func NewService(storage objectStore, cfg config.MediaConfig) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage client required")
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		storage:  storage,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

// UploadImages pushes each file to object storage one at a time, in input
// order. A failed file is recorded and skipped; the rest of the batch still
// runs. The returned error aggregates per-file failures only when nothing
// succeeded.
func (s *service) UploadImages(ctx context.Context, uploads []Upload) (*Result, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}

	result := &Result{URLs: make([]string, 0, len(uploads))}
	var failures error
	for _, upload := range uploads {
		publicURL, err := s.uploadOne(ctx, upload)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", upload.Filename, err))
			result.Failures = append(result.Failures, Failure{
				Filename: upload.Filename,
				Reason:   err.Error(),
			})
			continue
		}
		result.URLs = append(result.URLs, publicURL)
	}

	if len(result.URLs) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "all uploads failed")
	}
	return result, nil
}

// DeleteImages removes the stored objects behind the given public URLs.
// URLs pointing outside the image prefix are skipped; failures are collected
// so one stubborn object does not stop the rest of the batch.
func (s *service) DeleteImages(ctx context.Context, urls []string) error {
	var errs error
	for _, raw := range urls {
		object, ok := objectNameFromURL(raw)
		if !ok {
			continue
		}
		if err := s.storage.DeleteObject(ctx, s.storage.DefaultBucket(), object); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", object, err))
		}
	}
	return errs
}

func (s *service) uploadOne(ctx context.Context, upload Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("file is empty")
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return "", fmt.Errorf("file exceeds %d byte limit", s.maxBytes)
	}

	kind := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(kind.String(), "image/") {
		return "", fmt.Errorf("unsupported content type %s", kind.String())
	}

	object := objectName(upload.Filename, kind)
	publicURL, err := s.storage.UploadObject(ctx, s.storage.DefaultBucket(), object, kind.String(), bytes.NewReader(upload.Data))
	if err != nil {
		return "", err
	}
	return publicURL, nil
}

// objectName builds a timestamp-based key so repeated uploads of the same
// filename never collide. The extension comes from the sniffed type, falling
// back to the sanitized original one.
func objectName(filename string, kind *mimetype.MIME) string {
	ext := kind.Extension()
	if ext == "" {
		ext = sanitizeExtension(filename)
	}
	return fmt.Sprintf("%s/%d-%s%s", objectPrefix, time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

// objectNameFromURL recovers the storage object key from a public URL, which
// may carry either the CDN base or the raw storage host with a bucket segment.
// The key is everything from the image prefix onward.
func objectNameFromURL(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	for i, segment := range segments {
		if segment != objectPrefix {
			continue
		}
		parts := make([]string, 0, len(segments)-i)
		for _, part := range segments[i:] {
			unescaped, err := url.PathUnescape(part)
			if err != nil {
				return "", false
			}
			parts = append(parts, unescaped)
		}
		return strings.Join(parts, "/"), true
	}
	return "", false
}

func sanitizeExtension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !extensionPattern.MatchString(ext) {
		return ".bin"
	}
	return ext
}
