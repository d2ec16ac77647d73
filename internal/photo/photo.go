// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package photo implements image upload to S3-compatible object storage and
// the photo catalog backing recipe images.
//
// # Architecture
//
// The bucket is private: the database stores only the object key, and every
// read produces a fresh presigned GET URL. Presigned URLs expire, so clients
// must treat photo_url as ephemeral and re-fetch rather than persist it.
package photo

import (
	"time"
)

// Photo represents a stored photo record. Only the object key is persisted;
// URLs are derived on demand.
type Photo struct {
	ID        int64     `json:"id"`
	PhotoName string    `json:"photo_name"`
	CreatedAt time.Time `json:"created_at"`
}

// View is the client-facing projection: the row ID plus a short-lived
// presigned URL for the object.
type View struct {
	ID       int64  `json:"id"`
	PhotoURL string `json:"photo_url"`
}
