package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/tally-api/internal/logger"
)

// PublicPrefix is the URL path local flags are served under
const PublicPrefix = "/uploads/"

// LocalFlagStore keeps flags on disk under dir
type LocalFlagStore struct {
	dir     string
	maxSize int64
	log     *log.Logger
}

func NewLocalFlagStore(dir string, maxSize int64) (*LocalFlagStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalFlagStore{
		dir:     dir,
		maxSize: maxSize,
		log:     logger.Repository("flags"),
	}, nil
}

// Dir returns the directory served under PublicPrefix
func (s *LocalFlagStore) Dir() string {
	return s.dir
}

func (s *LocalFlagStore) Put(_ context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := objectName(contentType, size, s.maxSize)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create flag file: %w", err)
	}

	written, err := io.Copy(dst, newLimitedReader(r, s.maxSize))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		// Clean up the partial file
		os.Remove(target)
		if errors.Is(err, ErrTooLarge) {
			return "", ErrTooLarge
		}
		return "", fmt.Errorf("failed to save flag: %w", err)
	}

	s.log.Info("Flag stored", "name", name, "original", filename, "size", written)
	return PublicPrefix + name, nil
}

func (s *LocalFlagStore) Delete(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, PublicPrefix) {
		return fmt.Errorf("not a local flag reference: %s", ref)
	}
	name := path.Base(ref)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("not a local flag reference: %s", ref)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete flag: %w", err)
	}
	s.log.Debug("Flag deleted", "name", name)
	return nil
}
