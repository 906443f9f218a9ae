package model

import (
	"gorm.io/datatypes"
)

// NewsSentimentHistory is a per-day tally of analyzed articles for a stock.
// Rows are recomputed from news aggregates, total always equals the sum of
// the three label counts.
type NewsSentimentHistory struct {
	ID           uint           `gorm:"primarykey"`
	StockID      uint           `gorm:"not null;uniqueIndex:idx_sentiment_histories_stock_date"`
	Date         datatypes.Date `gorm:"not null;uniqueIndex:idx_sentiment_histories_stock_date"`
	BullishCount int            `gorm:"not null;default:0"`
	BearishCount int            `gorm:"not null;default:0"`
	NeutralCount int            `gorm:"not null;default:0"`
	TotalNews    int            `gorm:"not null;default:0"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (NewsSentimentHistory) TableName() string {
	return "news_sentiment_histories"
}
