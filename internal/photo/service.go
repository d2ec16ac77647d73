// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package photo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/pkg/slug"
)

// # Upload Constraints

const (
	// MaxImageSizeBytes caps uploads at 5 MiB.
	MaxImageSizeBytes = 5 * 1024 * 1024

	// PresignTTL is how long a generated photo URL stays valid. Clients are
	// expected to re-fetch the photo list rather than persist these URLs.
	PresignTTL = 7 * 24 * time.Hour
)

// allowedImageTypes whitelists the accepted upload content types.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Service implements photo upload and listing use cases.
type Service struct {
	photoRepository PhotoRepository
	storage         ObjectStorage
}

// NewService constructs a new photo [Service] with its dependencies.
func NewService(photoRepo PhotoRepository, storage ObjectStorage) *Service {
	return &Service{photoRepository: photoRepo, storage: storage}
}

// UploadInput describes an incoming multipart image.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

/*
Upload validates, stores, and catalogs a photo.

Description: The object key combines a fresh UUID with a slugged version of
the client filename, so concurrent uploads of identically named files can
never overwrite each other and keys stay URL-safe regardless of what the
browser sends.

Parameters:
  - ctx: Context for storage and database operations.
  - input: Filename, declared content type, size, and the byte stream.

Returns:
  - *View: The stored row ID plus a presigned URL for immediate display.
  - error: [apperr.ValidationError] for an unsupported type or oversized
    body; wrapped storage/database errors otherwise.
*/
func (service *Service) Upload(ctx context.Context, input UploadInput) (*View, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	if _, ok := allowedImageTypes[input.ContentType]; !ok {
		return nil, apperr.ValidationError(fmt.Sprintf("Unsupported file type: %s", input.ContentType))
	}
	if input.Size > MaxImageSizeBytes {
		return nil, apperr.ValidationError(fmt.Sprintf("File too large: %d bytes, max %d", input.Size, MaxImageSizeBytes))
	}

	// ── 2. Object Upload ──────────────────────────────────────────────────

	key := objectKey(input.Filename)
	if err := service.storage.Upload(ctx, key, input.ContentType, input.Body, input.Size); err != nil {
		return nil, err
	}

	// ── 3. Catalog Row ────────────────────────────────────────────────────

	photo, err := service.photoRepository.Add(ctx, key)
	if err != nil {
		return nil, err
	}

	return service.view(ctx, photo)
}

// List returns every cataloged photo with a fresh presigned URL.
func (service *Service) List(ctx context.Context) ([]*View, error) {
	photos, err := service.photoRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	views := []*View{}
	for _, photo := range photos {
		view, err := service.view(ctx, photo)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// view builds the client projection for a photo row.
func (service *Service) view(ctx context.Context, photo *Photo) (*View, error) {
	url, err := service.storage.PresignGet(ctx, photo.PhotoName, PresignTTL)
	if err != nil {
		return nil, err
	}
	return &View{ID: photo.ID, PhotoURL: url}, nil
}

// objectKey derives a unique, URL-safe storage key from a client filename.
// The extension is preserved as-is after slugging the base name.
func objectKey(filename string) string {
	base := filename
	extension := ""
	if dot := strings.LastIndex(filename, "."); dot > 0 {
		base = filename[:dot]
		extension = strings.ToLower(filename[dot:])
	}

	slugged := slug.From(base)
	if slugged == "" {
		slugged = "photo"
	}

	return uuid.NewString() + "_" + slugged + extension
}
