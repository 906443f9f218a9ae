package repository

import (
	"context"
	"errors"
	"market-sentiment/internal/model"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewsRepository interface {
	UpsertByLink(ctx context.Context, news *model.News) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.News, error)
	Find(ctx context.Context, param model.GetNewsParam) ([]model.News, error)
	Count(ctx context.Context, param model.GetNewsParam) (int64, error)
	CountByTicker(ctx context.Context, ticker string) (int64, error)
	CountPerTickerSince(ctx context.Context, since time.Time) ([]model.TickerNewsCount, error)
	RecentByTicker(ctx context.Context, ticker string, limit int) ([]model.News, error)
	SentimentTally(ctx context.Context, ticker string, from, to time.Time) (model.SentimentTally, error)
	DailySentimentTallies(ctx context.Context, ticker string, since time.Time) ([]model.DailySentimentTally, error)
	FindUnanalyzed(ctx context.Context, ticker string, limit int, force bool) ([]model.News, error)
	UpdateSentiment(ctx context.Context, news *model.News) error
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// UpsertByLink merges an article by its unique link: a re-fetch of a known
// link updates the mutable fields instead of creating a duplicate row.
func (r *newsRepository) UpsertByLink(ctx context.Context, news *model.News) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "link"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"ticker", "title", "content", "source", "author",
				"date", "sentiment", "sentiment_analyzed",
			}),
		}).
		Create(news).Error
}

func (r *newsRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.News, error) {
	var news model.News
	err := r.db.WithContext(ctx).First(&news, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) applyParam(db *gorm.DB, param model.GetNewsParam) *gorm.DB {
	if !param.Since.IsZero() {
		db = db.Where("date >= ?", param.Since)
	}
	if len(param.Tickers) > 0 {
		db = db.Where("ticker IN ?", param.Tickers)
	}
	if param.Sentiment != nil {
		db = db.Where("sentiment = ?", *param.Sentiment)
	}
	return db
}

func (r *newsRepository) Find(ctx context.Context, param model.GetNewsParam) ([]model.News, error) {
	var news []model.News
	db := r.applyParam(r.db.WithContext(ctx).Model(&model.News{}), param).
		Order("date DESC")
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}
	if err := db.Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

func (r *newsRepository) Count(ctx context.Context, param model.GetNewsParam) (int64, error) {
	var count int64
	err := r.applyParam(r.db.WithContext(ctx).Model(&model.News{}), param).
		Count(&count).Error
	return count, err
}

func (r *newsRepository) CountByTicker(ctx context.Context, ticker string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.News{}).
		Where("ticker = ?", ticker).
		Count(&count).Error
	return count, err
}

// CountPerTickerSince groups article counts per ticker inside a window,
// most-mentioned first.
func (r *newsRepository) CountPerTickerSince(ctx context.Context, since time.Time) ([]model.TickerNewsCount, error) {
	var counts []model.TickerNewsCount
	err := r.db.WithContext(ctx).Model(&model.News{}).
		Select("ticker, COUNT(*) AS news_count").
		Where("date >= ?", since).
		Group("ticker").
		Order("news_count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *newsRepository) RecentByTicker(ctx context.Context, ticker string, limit int) ([]model.News, error) {
	var news []model.News
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC").
		Limit(limit).
		Find(&news).Error
	if err != nil {
		return nil, err
	}
	return news, nil
}

// SentimentTally counts analyzed articles per label for a ticker between
// from (inclusive) and to (exclusive). A zero to leaves the window open.
func (r *newsRepository) SentimentTally(ctx context.Context, ticker string, from, to time.Time) (model.SentimentTally, error) {
	var tally model.SentimentTally
	db := r.db.WithContext(ctx).Model(&model.News{}).
		Select(
			"COUNT(*) FILTER (WHERE sentiment = ?) AS bullish, "+
				"COUNT(*) FILTER (WHERE sentiment = ?) AS bearish, "+
				"COUNT(*) FILTER (WHERE sentiment = ?) AS neutral",
			model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral,
		).
		Where("ticker = ? AND sentiment_analyzed = ?", ticker, true).
		Where("date >= ?", from)
	if !to.IsZero() {
		db = db.Where("date < ?", to)
	}
	if err := db.Scan(&tally).Error; err != nil {
		return model.SentimentTally{}, err
	}
	return tally, nil
}

// DailySentimentTallies groups analyzed articles by calendar day for the
// sentiment-history rebuild.
func (r *newsRepository) DailySentimentTallies(ctx context.Context, ticker string, since time.Time) ([]model.DailySentimentTally, error) {
	var tallies []model.DailySentimentTally
	err := r.db.WithContext(ctx).Model(&model.News{}).
		Select(
			"DATE(date) AS day, "+
				"COUNT(*) FILTER (WHERE sentiment = ?) AS bullish, "+
				"COUNT(*) FILTER (WHERE sentiment = ?) AS bearish, "+
				"COUNT(*) FILTER (WHERE sentiment = ?) AS neutral",
			model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral,
		).
		Where("ticker = ? AND sentiment_analyzed = ?", ticker, true).
		Where("date >= ?", since).
		Group("DATE(date)").
		Order("day ASC").
		Scan(&tallies).Error
	if err != nil {
		return nil, err
	}
	return tallies, nil
}

func (r *newsRepository) FindUnanalyzed(ctx context.Context, ticker string, limit int, force bool) ([]model.News, error) {
	var news []model.News
	db := r.db.WithContext(ctx).Model(&model.News{})
	if !force {
		db = db.Where("sentiment_analyzed = ? OR sentiment IS NULL", false)
	}
	if ticker != "" {
		db = db.Where("ticker = ?", ticker)
	}
	db = db.Order("date DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

func (r *newsRepository) UpdateSentiment(ctx context.Context, news *model.News) error {
	return r.db.WithContext(ctx).Model(news).
		Select("sentiment", "sentiment_analyzed").
		Updates(map[string]interface{}{
			"sentiment":          news.Sentiment,
			"sentiment_analyzed": news.SentimentAnalyzed,
		}).Error
}
