package service

import (
	"context"
	"errors"
	"fmt"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNewsService(t *testing.T, newsRepo *fakeNewsRepo, stockRepo *fakeStockRepo, providers ...repository.NewsProviderRepository) NewsService {
	cfg := testConfig()
	log := testLogger(t, cfg)
	return NewNewsService(cfg, log, newFakeCache(), newsRepo, stockRepo, providers)
}

func article(ticker, title, link string) dto.NewsArticle {
	return dto.NewsArticle{
		Ticker: ticker,
		Title:  title,
		Link:   link,
		Source: "Test Wire",
		Date:   time.Now(),
	}
}

func TestFetchNewsDedupsByTitleBeforeTruncating(t *testing.T) {
	provider := &fakeNewsProvider{name: "primary", articles: []dto.NewsArticle{
		article("AAPL", "Apple hits record", "https://a/1"),
		article("AAPL", "Apple hits record", "https://a/2"),
		article("AAPL", "iPhone sales up", "https://a/3"),
		article("AAPL", "Apple hits record", "https://a/4"),
		article("AAPL", "New chip announced", "https://a/5"),
	}}
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo(), provider)

	got, err := svc.FetchNews(context.Background(), "AAPL", 2, time.Time{})
	require.NoError(t, err)

	// Duplicates collapse before the limit applies, so the second slot
	// goes to the next distinct title.
	require.Len(t, got, 2)
	assert.Equal(t, "https://a/1", got[0].Link)
	assert.Equal(t, "iPhone sales up", got[1].Title)
}

func TestFetchNewsFallsThroughFailedProviders(t *testing.T) {
	broken := &fakeNewsProvider{name: "primary", err: errors.New("rate limited")}
	working := &fakeNewsProvider{name: "secondary", articles: []dto.NewsArticle{
		article("AAPL", "Apple hits record", "https://a/1"),
	}}
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo(), broken, working)

	got, err := svc.FetchNews(context.Background(), "aapl", 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, working.calls)
}

func TestFetchNewsConcatenatesProvidersWithPriorityDedup(t *testing.T) {
	first := &fakeNewsProvider{name: "primary", articles: []dto.NewsArticle{
		article("AAPL", "Apple hits record", "https://primary/1"),
	}}
	second := &fakeNewsProvider{name: "secondary", articles: []dto.NewsArticle{
		article("AAPL", "Apple hits record", "https://secondary/1"),
		article("AAPL", "iPhone sales up", "https://secondary/2"),
	}}
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo(), first, second)

	got, err := svc.FetchNews(context.Background(), "AAPL", 10, time.Time{})
	require.NoError(t, err)

	// The duplicated story keeps the higher-priority provider's copy.
	require.Len(t, got, 2)
	assert.Equal(t, "https://primary/1", got[0].Link)
	assert.Equal(t, "iPhone sales up", got[1].Title)
}

func TestFetchNewsSkipsLowerProvidersOnceLimitCovered(t *testing.T) {
	first := &fakeNewsProvider{name: "primary", articles: []dto.NewsArticle{
		article("AAPL", "Apple hits record", "https://a/1"),
	}}
	second := &fakeNewsProvider{name: "secondary"}
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo(), first, second)

	got, err := svc.FetchNews(context.Background(), "AAPL", 1, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, second.calls)
}

func TestFetchNewsAllProvidersFail(t *testing.T) {
	broken := &fakeNewsProvider{name: "primary", err: errors.New("boom")}
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo(), broken)

	_, err := svc.FetchNews(context.Background(), "AAPL", 10, time.Time{})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestIngestArticlesStoresProviderSentiment(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	svc := newTestNewsService(t, newsRepo, newFakeStockRepo())

	bullish := "Bullish"
	bogus := "Great"
	articles := []dto.NewsArticle{
		{Ticker: "AAPL", Title: "Up", Link: "https://a/1", Date: time.Now(), Sentiment: &bullish},
		{Ticker: "AAPL", Title: "Odd", Link: "https://a/2", Date: time.Now(), Sentiment: &bogus},
	}

	saved, err := svc.IngestArticles(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	var analyzed, unanalyzed int
	for _, n := range newsRepo.news {
		if n.SentimentAnalyzed {
			analyzed++
			assert.Equal(t, model.SentimentBullish, *n.Sentiment)
		} else {
			unanalyzed++
			assert.Nil(t, n.Sentiment)
		}
	}
	assert.Equal(t, 1, analyzed)
	assert.Equal(t, 1, unanalyzed)
}

func TestIngestArticlesIdempotentByLink(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	svc := newTestNewsService(t, newsRepo, newFakeStockRepo())

	batch := []dto.NewsArticle{article("AAPL", "Apple hits record", "https://a/1")}

	_, err := svc.IngestArticles(context.Background(), batch)
	require.NoError(t, err)
	_, err = svc.IngestArticles(context.Background(), batch)
	require.NoError(t, err)

	// Re-ingesting the same link merges into the existing row.
	assert.Len(t, newsRepo.news, 1)
}

func TestNewsBuzzScoring(t *testing.T) {
	tests := []struct {
		name       string
		counts     []model.TickerNewsCount
		wantScores map[string]float64
	}{
		{
			name: "leader capped just under one",
			counts: []model.TickerNewsCount{
				{Ticker: "AAPL", NewsCount: 50},
				{Ticker: "MSFT", NewsCount: 25},
			},
			wantScores: map[string]float64{"AAPL": 0.999999, "MSFT": 0.5},
		},
		{
			name: "sparse coverage uses the floor denominator",
			counts: []model.TickerNewsCount{
				{Ticker: "AAPL", NewsCount: 5},
			},
			wantScores: map[string]float64{"AAPL": 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newsRepo := newFakeNewsRepo()
			newsRepo.counts = tt.counts
			svc := newTestNewsService(t, newsRepo, newFakeStockRepo())

			buzz, err := svc.NewsBuzz(context.Background(), 10, "7d")
			require.NoError(t, err)
			require.Len(t, buzz, len(tt.wantScores))
			for _, b := range buzz {
				assert.InDelta(t, tt.wantScores[b.Ticker], b.Score, 1e-9,
					fmt.Sprintf("score for %s", b.Ticker))
			}
		})
	}
}

func TestNewsBuzzCompanyNameFallback(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	newsRepo.counts = []model.TickerNewsCount{{Ticker: "ZZZZ", NewsCount: 3}}
	svc := newTestNewsService(t, newsRepo, newFakeStockRepo())

	buzz, err := svc.NewsBuzz(context.Background(), 10, "7d")
	require.NoError(t, err)
	require.Len(t, buzz, 1)
	assert.Equal(t, "ZZZZ Corporation", buzz[0].CompanyFullName)
}

func TestNewsBuzzEmptyWindow(t *testing.T) {
	svc := newTestNewsService(t, newFakeNewsRepo(), newFakeStockRepo())

	buzz, err := svc.NewsBuzz(context.Background(), 10, "1d")
	require.NoError(t, err)
	assert.Empty(t, buzz)
}
