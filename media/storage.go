// Package media wraps the external asset store: uploads into a fixed
// bucket folder and folder-scoped searches over the stored objects.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/pixvault/pixvault/config"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when asset-store credentials are absent.
// Only the operations that need the store fail; the process keeps running.
var ErrNotConfigured = errors.New("media: asset store is not configured")

const uploadTimeout = 50 * time.Second

type Store struct {
	client *storage.Client
	bucket string
	folder string
}

// NewStore builds the asset-store client from configuration. A missing
// bucket name yields ErrNotConfigured.
func NewStore(ctx context.Context, cfg config.MediaConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: creating storage client: %w", err)
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		folder: cfg.Folder,
	}, nil
}

// Upload writes the file into the configured folder under a unique
// object name and returns the asset's public identifier and URL.
func (s *Store) Upload(ctx context.Context, file io.Reader, filename string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectName := uuid.NewString() + "_" + filename
	objectPath := s.folder + "/" + objectName

	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	if _, err := io.Copy(wc, file); err != nil {
		return "", "", fmt.Errorf("media: writing object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", "", fmt.Errorf("media: closing object writer: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectPath)
	return publicID(objectPath, s.folder), url, nil
}

// Close releases the underlying storage client.
func (s *Store) Close() error {
	return s.client.Close()
}
