// Package s3 implements the object store on Amazon S3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/geocatalog/objectstore"
)

// Client is the interface for the S3 operations used by the store.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements objectstore.Store for S3.
type Store struct {
	downloader *manager.Downloader
}

// NewStore creates a new S3 object store. Downloads go through the
// transfer manager, which issues ranged GETs for large archives.
func NewStore(client Client, optFns ...func(*manager.Downloader)) *Store {
	return &Store{
		downloader: manager.NewDownloader(client, optFns...),
	}
}

// Download fetches the object at bucket/key into the local file path.
func (s *Store) Download(ctx context.Context, bucket, key, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, err = s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return objectstore.ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return objectstore.ErrNotFound
		}
		return err
	}

	return nil
}
