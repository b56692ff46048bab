// Package minio implements the object store for MinIO and other
// S3-compatible backends.
package minio

import (
	"context"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/geocatalog/objectstore"
)

// Store implements objectstore.Store for MinIO.
type Store struct {
	client *minio.Client
}

// NewStore creates a new MinIO object store.
func NewStore(client *minio.Client) *Store {
	return &Store{client: client}
}

// Download fetches the object at bucket/key into the local file path.
func (s *Store) Download(ctx context.Context, bucket, key, path string) error {
	err := s.client.FGetObject(ctx, bucket, key, path, minio.GetObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return objectstore.ErrNotFound
		}
		return err
	}
	return nil
}
