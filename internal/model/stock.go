package model

import (
	"time"
)

type Stock struct {
	ID              uint      `gorm:"primarykey"`
	Ticker          string    `gorm:"uniqueIndex;not null;size:10"`
	CompanyFullName string    `gorm:"not null;size:255"`
	CurrentPrice    *float64  `gorm:"null"`
	ChangeInDay     *float64  `gorm:"null"`
	SentimentScore  *int      `gorm:"null"`
	MarketCap       *int64    `gorm:"null"`
	Volume          *int64    `gorm:"null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	PriceHistories     []PriceHistory         `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	SentimentHistories []NewsSentimentHistory `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
}

func (Stock) TableName() string {
	return "stocks"
}

// HasQuote reports whether the row holds a usable cached quote. A stock
// created lazily by get-or-create has neither price nor change yet.
func (s *Stock) HasQuote() bool {
	return s.CurrentPrice != nil && s.ChangeInDay != nil
}

type GetStocksParam struct {
	Tickers []string
	Limit   int
}
