package repository

import (
	"context"
	"market-sentiment/internal/model"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceHistoryRepository interface {
	DatesPresent(ctx context.Context, stockID uint, from time.Time) ([]time.Time, error)
	Upsert(ctx context.Context, row *model.PriceHistory) error
	ListRange(ctx context.Context, stockID uint, from time.Time, limit int) ([]model.PriceHistory, error)
}

type priceHistoryRepository struct {
	db *gorm.DB
}

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) DatesPresent(ctx context.Context, stockID uint, from time.Time) ([]time.Time, error) {
	var dates []datatypes.Date
	err := r.db.WithContext(ctx).Model(&model.PriceHistory{}).
		Where("stock_id = ? AND date >= ?", stockID, datatypes.Date(from)).
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, time.Time(d))
	}
	return out, nil
}

// Upsert is keyed by (stock_id, date); re-upserting an existing day just
// rewrites price and volume.
func (r *priceHistoryRepository) Upsert(ctx context.Context, row *model.PriceHistory) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "volume"}),
		}).
		Create(row).Error
}

func (r *priceHistoryRepository) ListRange(ctx context.Context, stockID uint, from time.Time, limit int) ([]model.PriceHistory, error) {
	var rows []model.PriceHistory
	db := r.db.WithContext(ctx).
		Where("stock_id = ? AND date >= ?", stockID, datatypes.Date(from)).
		Order("date ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
