package service

import (
	"market-sentiment/config"
	"market-sentiment/internal/repository"
	"market-sentiment/pkg/cache"
	"market-sentiment/pkg/logger"
)

type Service struct {
	StockService     StockService
	NewsService      NewsService
	SentimentService SentimentService
	BatchService     BatchService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	stockService := NewStockService(cfg, log, inmemoryCache, repo.StockRepo, repo.PriceHistoryRepo, repo.NewsRepo, repo.QuoteProviderRepo)
	newsService := NewNewsService(cfg, log, inmemoryCache, repo.NewsRepo, repo.StockRepo, repo.NewsProviderRepos)
	sentimentService := NewSentimentService(cfg, log, repo.NewsRepo, repo.StockRepo, repo.NewsSentimentHistoryRepo, repo.SentimentAnalyzerRepo)
	batchService := NewBatchService(cfg, log, repo.StockRepo, repo.NewsRepo, stockService, newsService, sentimentService)

	return &Service{
		StockService:     stockService,
		NewsService:      newsService,
		SentimentService: sentimentService,
		BatchService:     batchService,
	}
}
