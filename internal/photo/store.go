// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package photo

import (
	"context"
	"io"
	"time"
)

// PhotoRepository defines the data access contract for photo records.
type PhotoRepository interface {
	// Add persists a new photo row for the given object key.
	Add(ctx context.Context, photoName string) (*Photo, error)

	// List returns all photo rows, newest last.
	List(ctx context.Context) ([]*Photo, error)
}

// ObjectStorage defines the blob-side contract for photo bytes.
//
// # Implementations
//
// The canonical implementation is S3-compatible storage (storage_s3.go);
// tests substitute an in-memory fake.
type ObjectStorage interface {
	// Upload streams the object body under the given key.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// PresignGet returns a time-limited GET URL for the key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
