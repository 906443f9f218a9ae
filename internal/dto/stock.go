package dto

import "time"

// StockQuote is the provider-neutral quote contract. Volume and MarketCap
// stay nil when the provider does not report them.
type StockQuote struct {
	Ticker        string
	CurrentPrice  float64
	Change        float64
	ChangePercent float64
	Volume        *int64
	MarketCap     *int64
}

// Valid reports whether the quote carries a usable price.
func (q *StockQuote) Valid() bool {
	return q != nil && q.CurrentPrice > 0
}

// PricePoint is one row of daily price history from a provider.
type PricePoint struct {
	Date   time.Time
	Price  float64
	Volume int64
}

type TopMoverResponse struct {
	Ticker       string  `json:"ticker"`
	Change       float64 `json:"change"`
	CurrentPrice float64 `json:"currentPrice"`
}

type NewsBuzzResponse struct {
	Ticker          string  `json:"ticker"`
	Score           float64 `json:"score"`
	CompanyFullName string  `json:"companyFullName"`
}

type SentimentMoverResponse struct {
	Ticker         string `json:"ticker"`
	SentimentScore int    `json:"sentimentScore"`
	Change         int    `json:"change"`
}

type StockResponse struct {
	Ticker          string   `json:"ticker"`
	CompanyFullName string   `json:"companyFullName"`
	ChangeInDay     *float64 `json:"changeInDay"`
	CurrentPrice    *float64 `json:"currentPrice"`
	SentimentScore  *int     `json:"sentimentScore"`
}

type NewsSentimentSummary struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

type StockDetailsResponse struct {
	CompanyFullName string               `json:"companyFullName"`
	Price           float64              `json:"price"`
	ChangeInDay     float64              `json:"changeInDay"`
	MarketCap       string               `json:"marketCap"`
	Volume          string               `json:"volume"`
	NewsBuzz        string               `json:"newsBuzz"`
	PricesHistory   []float64            `json:"pricesHistory"`
	NewsSentiment   NewsSentimentSummary `json:"newsSentiment"`
	RecentNews      []NewsResponse       `json:"recentNews"`
}

type TopMoversQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type SentimentMoversQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type StocksQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
}

type NewsBuzzQuery struct {
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	TimePeriod string `query:"timePeriod" validate:"omitempty,oneof=1d 7d 30d"`
}

type StockDetailsQuery struct {
	Ticker string `query:"ticker" validate:"required"`
}
