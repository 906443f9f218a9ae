package service

import (
	"context"
	"market-sentiment/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSentimentsBatch(t *testing.T) {
	cfg := testConfig()
	log := testLogger(t, cfg)

	stockRepo := newFakeStockRepo(&model.Stock{ID: 1, Ticker: "AAPL", CompanyFullName: "Apple Inc."})
	historyRepo := &fakeSentimentHistoryRepo{}
	analyzer := &fakeAnalyzer{sentiment: model.SentimentBullish}

	newsRepo := newFakeNewsRepo()
	newsRepo.findResult = []model.News{
		{ID: uuid.New(), Ticker: "AAPL", Title: "Apple hits record"},
		{ID: uuid.New(), Ticker: "AAPL", Title: "iPhone sales up"},
	}
	newsRepo.dailyTallies = []model.DailySentimentTally{
		{Day: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Bullish: 2},
	}

	sentimentSvc := NewSentimentService(cfg, log, newsRepo, stockRepo, historyRepo, analyzer)
	batchSvc := NewBatchService(cfg, log, stockRepo, newsRepo, nil, nil, sentimentSvc)

	summary, err := batchSvc.AnalyzeSentiments(context.Background(), BatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, analyzer.calls)
	assert.Len(t, newsRepo.updated, 2)

	// The touched ticker's daily tallies are rebuilt after the run.
	require.Len(t, historyRepo.rows, 1)
	assert.Equal(t, uint(1), historyRepo.rows[0].StockID)
}

func TestPopulateStocksContinuesPastFailures(t *testing.T) {
	cfg := testConfig()
	log := testLogger(t, cfg)

	stockRepo := newFakeStockRepo()
	provider := &fakeQuoteProvider{} // every fetch fails
	stockSvc := NewStockService(cfg, log, newFakeCache(), stockRepo, nil, nil, provider)
	batchSvc := NewBatchService(cfg, log, stockRepo, newFakeNewsRepo(), stockSvc, nil, nil)

	summary, err := batchSvc.PopulateStocks(context.Background(), BatchOptions{
		Tickers: []string{"AAPL", "MSFT"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, summary.Succeeded)
}
