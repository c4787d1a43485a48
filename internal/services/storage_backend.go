package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pbm-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore holds member photos and cached card PDFs, keyed by paths such
// as "uploads/<mobile>.jpg" and "idcards/<mobile>.pdf". Local filesystem
// and S3-compatible object storage (Cloudflare R2) both implement it.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

// NewBlobStore builds the configured backend.
func NewBlobStore(cfg *config.Config) (BlobStore, error) {
	switch cfg.Uploads.Backend {
	case "", "local":
		return NewLocalBlobStore(cfg.Uploads.Dir), nil
	case "s3":
		return NewS3BlobStore(context.Background(), cfg.Uploads)
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", cfg.Uploads.Backend)
	}
}

// ---------------------------------------------------------------------------
// LocalBlobStore — wraps os.* calls for local filesystem storage
// ---------------------------------------------------------------------------

type LocalBlobStore struct {
	baseDir string
}

func NewLocalBlobStore(baseDir string) *LocalBlobStore {
	return &LocalBlobStore{baseDir: baseDir}
}

func (b *LocalBlobStore) Name() string { return "local" }

// resolve validates and resolves a key to a filesystem path, preventing
// traversal outside baseDir.
func (b *LocalBlobStore) resolve(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key: contains '..'")
	}
	full := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(full, filepath.Clean(b.baseDir)) {
		return "", fmt.Errorf("key escapes base directory")
	}
	return full, nil
}

func (b *LocalBlobStore) Upload(_ context.Context, key string, reader io.Reader) error {
	full, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (b *LocalBlobStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (b *LocalBlobStore) Exists(_ context.Context, key string) (bool, error) {
	full, err := b.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *LocalBlobStore) Delete(_ context.Context, key string) error {
	full, err := b.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// FilePath exposes the on-disk location of a key so the router can mount
// the uploads directory as static files.
func (b *LocalBlobStore) FilePath(key string) (string, error) {
	return b.resolve(key)
}

// ---------------------------------------------------------------------------
// S3BlobStore — S3-compatible object storage (AWS S3, Cloudflare R2, MinIO)
// ---------------------------------------------------------------------------

type S3BlobStore struct {
	client *s3.Client
	bucket string
}

func NewS3BlobStore(ctx context.Context, cfg config.UploadsConfig) (*S3BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3BlobStore{client: client, bucket: cfg.Bucket}, nil
}

func (b *S3BlobStore) Name() string { return "s3" }

func (b *S3BlobStore) Upload(ctx context.Context, key string, reader io.Reader) error {
	// The S3 client needs a seekable body for signing; buffer the content.
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (b *S3BlobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return out.Body, nil
}

func (b *S3BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		// HeadObject returns a NotFound API error for missing keys.
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}
