package blob

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/tally-api/internal/config"
)

func TestLocalPutAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalFlagStore(dir, 1024)
	require.NoError(t, err)

	data := []byte("\x89PNG fake image")
	ref, err := store.Put(ctx, "flag.png", bytes.NewReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, PublicPrefix))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(ref)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is harmless
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestLocalPutRejectsNonImages(t *testing.T) {
	store, err := NewLocalFlagStore(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "doc.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalPutAcceptsContentTypeParameters(t *testing.T) {
	store, err := NewLocalFlagStore(t.TempDir(), 1024)
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "flag.svg", strings.NewReader("<svg/>"), 6, "image/svg+xml; charset=utf-8")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".svg"))
}

func TestLocalPutEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFlagStore(dir, 8)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "big.png", strings.NewReader("0123456789"), 10, "image/png")
	assert.ErrorIs(t, err, ErrTooLarge)

	// Declared size lies; the stream is still capped
	_, err = store.Put(context.Background(), "big.png", strings.NewReader("0123456789"), 4, "image/png")
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalDeleteRejectsForeignRefs(t *testing.T) {
	store, err := NewLocalFlagStore(t.TempDir(), 1024)
	require.NoError(t, err)

	assert.Error(t, store.Delete(context.Background(), "bucket/object.png"))
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxFileSize = 1024

	store, err := NewFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalFlagStore{}, store)

	cfg.Blob.Backend = "ftp"
	_, err = NewFromConfig(context.Background(), cfg)
	assert.Error(t, err)
}
