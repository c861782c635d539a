package domain

import (
	"context"
	"time"
)

// ImageRecord is the document appended to the images collection after a successful generation.
type ImageRecord struct {
	ID        string
	ImageURL  string
	Prompt    string
	UserID    string
	CreatedAt time.Time
}

// ImageRepository is the write-only persistence sink for generated images.
type ImageRepository interface {
	Save(ctx context.Context, rec *ImageRecord) error
}
