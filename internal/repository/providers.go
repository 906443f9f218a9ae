package repository

import (
	"context"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"time"
)

// QuoteProviderRepository is the narrow contract every quote/history source
// fulfills.
type QuoteProviderRepository interface {
	GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error)
	GetPriceHistory(ctx context.Context, ticker string, days int) ([]dto.PricePoint, error)
}

// NewsProviderRepository is the narrow contract every news source fulfills.
// Providers are tried in priority order and their results merged.
type NewsProviderRepository interface {
	Name() string
	GetNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error)
}

// SentimentAnalyzerRepository maps free text to one of the three labels.
type SentimentAnalyzerRepository interface {
	Analyze(ctx context.Context, text string) (model.Sentiment, error)
}
