package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/logging"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsStore struct {
	bucket *storage.BucketHandle
}

// NewGCS builds an ObjectGateway on a Cloud Storage bucket, authorized by
// the credentials file when set and Application Default Credentials
// otherwise.
func NewGCS(ctx context.Context, cfg *config.Config, log logging.Logger, opts ...option.ClientOption) (*ObjectGateway, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("missing gcs bucket")
	}
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	g := newObjectGateway(&gcsStore{bucket: client.Bucket(cfg.GCSBucket)}, cfg.ObjectPrefix, "gcs", log)
	g.closer = client
	return g, nil
}

// Put uploads body and verifies the stored size.
func (s *gcsStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	obj := s.bucket.Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if attrs := w.Attrs(); attrs != nil && attrs.Size != size {
		_ = obj.Delete(context.WithoutCancel(ctx))
		return fmt.Errorf("verify size mismatch: local=%d remote=%d", size, attrs.Size)
	}
	return nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *gcsStore) DeletePrefix(ctx context.Context, prefix string) error {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		if err := s.Delete(ctx, attrs.Name); err != nil {
			return err
		}
	}
}
