package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/tally-api/internal/logger"
)

// MinioOptions configures the S3 compatible flag store
type MinioOptions struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	UseSSL      bool
	MaxFileSize int64

	// PublicURL is the address clients fetch objects from. Defaults to the
	// endpoint, with the scheme taken from UseSSL.
	PublicURL string
}

// MinioFlagStore keeps flags in an object storage bucket
type MinioFlagStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	maxSize int64
	log     *log.Logger
}

// bucketBaseURL is the URL prefix every object in bucket is served under
func bucketBaseURL(opts MinioOptions) string {
	base := strings.TrimSuffix(opts.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + opts.Endpoint
	}
	return base + "/" + opts.Bucket + "/"
}

// readOnlyPolicy lets anonymous clients fetch objects but not list or write them
func readOnlyPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// NewMinioFlagStore connects to the endpoint and creates the bucket if missing
func NewMinioFlagStore(ctx context.Context, opts MinioOptions) (*MinioFlagStore, error) {
	if opts.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &MinioFlagStore{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: bucketBaseURL(opts),
		maxSize: opts.MaxFileSize,
		log:     logger.Repository("flags"),
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
		if err := client.SetBucketPolicy(ctx, opts.Bucket, readOnlyPolicy(opts.Bucket)); err != nil {
			return nil, fmt.Errorf("failed to set policy on bucket %s: %w", opts.Bucket, err)
		}
		store.log.Info("Bucket created", "bucket", opts.Bucket)
	}

	return store, nil
}

func (s *MinioFlagStore) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := objectName(contentType, size, s.maxSize)
	if err != nil {
		return "", err
	}

	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-name": filename},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload flag: %w", err)
	}

	s.log.Info("Flag stored", "bucket", s.bucket, "object", name, "size", info.Size)
	return s.baseURL + name, nil
}

func (s *MinioFlagStore) Delete(ctx context.Context, ref string) error {
	object, err := s.objectFromRef(ref)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete flag: %w", err)
	}
	s.log.Debug("Flag deleted", "bucket", s.bucket, "object", object)
	return nil
}

// objectFromRef returns the object name behind a URL returned by Put
func (s *MinioFlagStore) objectFromRef(ref string) (string, error) {
	object, ok := strings.CutPrefix(ref, s.baseURL)
	if !ok || object == "" || strings.Contains(object, "/") {
		return "", fmt.Errorf("not a flag in bucket %s: %s", s.bucket, ref)
	}
	return object, nil
}
