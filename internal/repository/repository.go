package repository

import (
	"market-sentiment/config"
	"market-sentiment/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	StockRepo                StockRepository
	NewsRepo                 NewsRepository
	PriceHistoryRepo         PriceHistoryRepository
	NewsSentimentHistoryRepo NewsSentimentHistoryRepository
	QuoteProviderRepo        QuoteProviderRepository
	NewsProviderRepos        []NewsProviderRepository
	SentimentAnalyzerRepo    SentimentAnalyzerRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	geminiRepo, err := NewGeminiRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		StockRepo:                NewStockRepository(db),
		NewsRepo:                 NewNewsRepository(db),
		PriceHistoryRepo:         NewPriceHistoryRepository(db),
		NewsSentimentHistoryRepo: NewNewsSentimentHistoryRepository(db),
		QuoteProviderRepo:        NewQuoteProviderRepository(cfg, log),
		NewsProviderRepos:        NewNewsProviderRepositories(cfg, log),
		SentimentAnalyzerRepo:    geminiRepo,
	}, nil
}
