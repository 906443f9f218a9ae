package repository

import (
	"context"
	"errors"
	"market-sentiment/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	GetByTicker(ctx context.Context, ticker string) (*model.Stock, error)
	List(ctx context.Context, param model.GetStocksParam) ([]model.Stock, error)
	GetOrCreate(ctx context.Context, ticker, defaultName string) (*model.Stock, error)
	Save(ctx context.Context, stock *model.Stock) error
	Upsert(ctx context.Context, stock *model.Stock) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetByTicker(ctx context.Context, ticker string) (*model.Stock, error) {
	var stock model.Stock
	err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) List(ctx context.Context, param model.GetStocksParam) ([]model.Stock, error) {
	var stocks []model.Stock
	db := r.db.WithContext(ctx).Order("ticker ASC")
	if len(param.Tickers) > 0 {
		db = db.Where("ticker IN ?", param.Tickers)
	}
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}
	if err := db.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetOrCreate lazily creates a stock row on first reference. The quote
// fields stay null until the first successful refresh.
func (r *stockRepository) GetOrCreate(ctx context.Context, ticker, defaultName string) (*model.Stock, error) {
	var stock model.Stock
	err := r.db.WithContext(ctx).
		Where(model.Stock{Ticker: ticker}).
		Attrs(model.Stock{CompanyFullName: defaultName}).
		FirstOrCreate(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) Save(ctx context.Context, stock *model.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// Upsert inserts or updates by the ticker unique key. Only the quote and
// name columns are overwritten, so a concurrent refresh stays last-writer-wins.
func (r *stockRepository) Upsert(ctx context.Context, stock *model.Stock) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ticker"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_full_name", "current_price", "change_in_day",
				"market_cap", "volume", "updated_at",
			}),
		}).
		Create(stock).Error
}
