package db

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/storage"

	"go-wastewise/types"
)

var (
	bucketHandle *storage.BucketHandle
	bucketOnce   sync.Once
)

// InitBucket initializes and returns the Cloud Storage bucket used for
// report images.
func InitBucket(name string) (*storage.BucketHandle, error) {
	var err error

	bucketOnce.Do(func() {
		a, err := InitApp()
		if err != nil {
			log.Fatalf("Error initializing Firebase: %v", err)
		}
		storageClient, err := a.Storage(context.Background())
		if err != nil {
			log.Fatalf("Error getting Storage client: %v", err)
		}
		bucketHandle, err = storageClient.Bucket(name)
		if err != nil {
			log.Fatalf("Error getting bucket %s: %v", name, err)
		}
	})

	return bucketHandle, err
}

// BlobStore writes report images to a Cloud Storage bucket and returns their
// public URLs.
type BlobStore struct {
	Bucket     *storage.BucketHandle
	BucketName string
}

// Put uploads the bytes under the given object path and returns a
// retrievable URL.
func (b *BlobStore) Put(ctx context.Context, data []byte, path string) (string, error) {
	w := b.Bucket.Object(path).NewWriter(ctx)
	w.ContentType = "image/jpeg"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("%w: writing %s: %v", types.ErrStorage, path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: finalizing %s: %v", types.ErrStorage, path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.BucketName, path), nil
}
