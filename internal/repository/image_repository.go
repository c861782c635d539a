package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/basel-ax/ailogo/internal/domain"
)

const createImagesTable = `
	CREATE TABLE IF NOT EXISTS images (
		id         UUID PRIMARY KEY,
		image_url  TEXT NOT NULL,
		prompt     TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)
`

// PostgresImageRepository implements domain.ImageRepository for PostgreSQL
type PostgresImageRepository struct {
	db *sql.DB
}

// NewPostgresImageRepository creates a new PostgreSQL image repository
func NewPostgresImageRepository(db *sql.DB) *PostgresImageRepository {
	return &PostgresImageRepository{db: db}
}

// EnsureSchema creates the images table when it does not exist yet.
func (r *PostgresImageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createImagesTable); err != nil {
		return fmt.Errorf("failed to create images table: %w", err)
	}
	return nil
}

// Save appends an image record. Records are never updated.
func (r *PostgresImageRepository) Save(ctx context.Context, rec *domain.ImageRecord) error {
	query := `
		INSERT INTO images (id, image_url, prompt, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.ImageURL, rec.Prompt, rec.UserID, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image %s: %w", rec.ID, err)
	}
	return nil
}

var _ domain.ImageRepository = (*PostgresImageRepository)(nil)
