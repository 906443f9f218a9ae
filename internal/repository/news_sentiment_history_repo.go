package repository

import (
	"context"
	"market-sentiment/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewsSentimentHistoryRepository interface {
	Upsert(ctx context.Context, row *model.NewsSentimentHistory) error
}

type newsSentimentHistoryRepository struct {
	db *gorm.DB
}

func NewNewsSentimentHistoryRepository(db *gorm.DB) NewsSentimentHistoryRepository {
	return &newsSentimentHistoryRepository{db: db}
}

func (r *newsSentimentHistoryRepository) Upsert(ctx context.Context, row *model.NewsSentimentHistory) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bullish_count", "bearish_count", "neutral_count", "total_news",
			}),
		}).
		Create(row).Error
}
