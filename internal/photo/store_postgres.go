// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package photo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPhotoRepository implements the PhotoRepository interface using pgx.
type PostgresPhotoRepository struct {
	pool *pgxpool.Pool
}

// NewPhotoRepository creates a new PostgreSQL implementation of the PhotoRepository.
func NewPhotoRepository(pool *pgxpool.Pool) *PostgresPhotoRepository {
	return &PostgresPhotoRepository{pool: pool}
}

// Add persists a new photo record and returns it with the generated ID.
func (repository *PostgresPhotoRepository) Add(ctx context.Context, photoName string) (*Photo, error) {
	const query = `
		INSERT INTO photos (photo_name)
		VALUES ($1)
		RETURNING id, photo_name, created_at`

	photo := &Photo{}
	err := repository.pool.QueryRow(ctx, query, photoName).
		Scan(&photo.ID, &photo.PhotoName, &photo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("postgres_photo_repo_add_failed: %w", err)
	}

	return photo, nil
}

// List returns every photo record ordered by insertion.
func (repository *PostgresPhotoRepository) List(ctx context.Context) ([]*Photo, error) {
	const query = `SELECT id, photo_name, created_at FROM photos ORDER BY id`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_photo_repo_list_failed: %w", err)
	}
	defer rows.Close()

	photos := []*Photo{}
	for rows.Next() {
		photo := &Photo{}
		if err := rows.Scan(&photo.ID, &photo.PhotoName, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_photo_repo_scan_failed: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_photo_repo_rows_failed: %w", err)
	}

	return photos, nil
}
