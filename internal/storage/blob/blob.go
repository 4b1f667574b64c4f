// Package blob stores candidate flag images
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/domain/election"
)

var (
	ErrUnsupportedType = &election.Error{Kind: election.KindValidation, Code: "INVALID_FLAG_TYPE", Message: "flag must be a png, jpeg, gif, webp or svg image"}
	ErrTooLarge        = &election.Error{Kind: election.KindValidation, Code: "FLAG_TOO_LARGE", Message: "flag image exceeds the upload limit"}
)

// allowedTypes maps accepted image content types to the stored file extension
var allowedTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// FlagStore persists flag images and returns the reference stored on the candidate
type FlagStore interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// BackendType names a flag storage backend
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendMinio BackendType = "minio"
)

// NewFromConfig builds the flag store selected by BLOB_BACKEND
func NewFromConfig(ctx context.Context, cfg *config.Config) (FlagStore, error) {
	switch BackendType(strings.ToLower(cfg.Blob.Backend)) {
	case BackendLocal, "":
		return NewLocalFlagStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	case BackendMinio:
		return NewMinioFlagStore(ctx, MinioOptions{
			Endpoint:    cfg.Blob.Endpoint,
			AccessKey:   cfg.Blob.AccessKey,
			SecretKey:   cfg.Blob.SecretKey,
			Bucket:      cfg.Blob.Bucket,
			UseSSL:      cfg.Blob.UseSSL,
			PublicURL:   cfg.Blob.PublicURL,
			MaxFileSize: cfg.Upload.MaxFileSize,
		})
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Blob.Backend)
	}
}

// objectName validates the upload and returns a collision free name for it
func objectName(contentType string, size, maxSize int64) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedTypes[mediaType]
	if !ok {
		return "", ErrUnsupportedType
	}
	if maxSize > 0 && size > maxSize {
		return "", ErrTooLarge
	}
	return uuid.NewString() + ext, nil
}

// limitedReader fails once more than max bytes have been read
type limitedReader struct {
	r    io.Reader
	left int64
}

func newLimitedReader(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &limitedReader{r: r, left: max + 1}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > l.left {
		p = p[:l.left]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left <= 0 {
		return n, ErrTooLarge
	}
	return n, err
}
