package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/basel-ax/ailogo/internal/domain"
)

// LogImageRepository only logs records. Used when no remote sink is configured.
type LogImageRepository struct {
	logger *zap.Logger
}

// NewLogImageRepository creates a sink that writes records to logger. A nil logger discards them.
func NewLogImageRepository(logger *zap.Logger) *LogImageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogImageRepository{logger: logger.Named("image_sink")}
}

// Save logs rec. It fails only when ctx is already done.
func (r *LogImageRepository) Save(ctx context.Context, rec *domain.ImageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Info("Image record",
		zap.String("id", rec.ID),
		zap.String("image_url", rec.ImageURL),
		zap.String("prompt", rec.Prompt),
		zap.String("user_id", rec.UserID),
		zap.Time("created_at", rec.CreatedAt),
	)
	return nil
}

var _ domain.ImageRepository = (*LogImageRepository)(nil)
