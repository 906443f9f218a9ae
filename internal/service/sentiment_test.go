package service

import (
	"context"
	"errors"
	"market-sentiment/internal/model"
	"market-sentiment/pkg/utils"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSentimentService(t *testing.T, newsRepo *fakeNewsRepo, stockRepo *fakeStockRepo, historyRepo *fakeSentimentHistoryRepo, analyzer *fakeAnalyzer) SentimentService {
	cfg := testConfig()
	log := testLogger(t, cfg)
	return NewSentimentService(cfg, log, newsRepo, stockRepo, historyRepo, analyzer)
}

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		name  string
		tally model.SentimentTally
		want  int
	}{
		{name: "mixed coverage", tally: model.SentimentTally{Bullish: 7, Bearish: 3}, want: 40},
		{name: "all neutral", tally: model.SentimentTally{Neutral: 5}, want: 0},
		{name: "all bullish", tally: model.SentimentTally{Bullish: 4}, want: 100},
		{name: "all bearish", tally: model.SentimentTally{Bearish: 4}, want: -100},
		{name: "no coverage", tally: model.SentimentTally{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sentimentScore(tt.tally))
		})
	}
}

func TestSentimentForNewsReturnsStoredLabel(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	analyzer := &fakeAnalyzer{sentiment: model.SentimentBearish}

	sentiment := model.SentimentBullish
	stored := &model.News{
		ID:                uuid.New(),
		Title:             "Apple hits record",
		Sentiment:         &sentiment,
		SentimentAnalyzed: true,
	}
	newsRepo.news[stored.ID] = stored

	svc := newTestSentimentService(t, newsRepo, newFakeStockRepo(), &fakeSentimentHistoryRepo{}, analyzer)

	got, err := svc.SentimentForNews(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SentimentBullish, got)
	assert.Equal(t, 0, analyzer.calls)
}

func TestSentimentForNewsUnknownID(t *testing.T) {
	svc := newTestSentimentService(t, newFakeNewsRepo(), newFakeStockRepo(), &fakeSentimentHistoryRepo{}, &fakeAnalyzer{})

	_, err := svc.SentimentForNews(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeArticleEmptyTextSkipsClassifier(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	analyzer := &fakeAnalyzer{sentiment: model.SentimentBullish}
	svc := newTestSentimentService(t, newsRepo, newFakeStockRepo(), &fakeSentimentHistoryRepo{}, analyzer)

	news := &model.News{ID: uuid.New(), Title: "   ", Content: ""}
	got, err := svc.AnalyzeArticle(context.Background(), news)
	require.NoError(t, err)

	assert.Equal(t, model.SentimentNeutral, got)
	assert.Equal(t, 0, analyzer.calls)
	require.Len(t, newsRepo.updated, 1)
	assert.True(t, newsRepo.updated[0].SentimentAnalyzed)
}

func TestAnalyzeArticleClassifierFailureDefaultsToNeutral(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}
	svc := newTestSentimentService(t, newsRepo, newFakeStockRepo(), &fakeSentimentHistoryRepo{}, analyzer)

	news := &model.News{ID: uuid.New(), Title: "Apple hits record", Content: "Shares surged."}
	got, err := svc.AnalyzeArticle(context.Background(), news)
	require.NoError(t, err)

	assert.Equal(t, model.SentimentNeutral, got)
	assert.Equal(t, 1, analyzer.calls)
	require.Len(t, newsRepo.updated, 1)
	assert.True(t, newsRepo.updated[0].SentimentAnalyzed)
}

func TestAnalyzeArticlePersistsVerdict(t *testing.T) {
	newsRepo := newFakeNewsRepo()
	analyzer := &fakeAnalyzer{sentiment: model.SentimentBearish}
	svc := newTestSentimentService(t, newsRepo, newFakeStockRepo(), &fakeSentimentHistoryRepo{}, analyzer)

	news := &model.News{ID: uuid.New(), Title: "Apple misses estimates"}
	got, err := svc.AnalyzeArticle(context.Background(), news)
	require.NoError(t, err)

	assert.Equal(t, model.SentimentBearish, got)
	require.Len(t, newsRepo.updated, 1)
	assert.Equal(t, model.SentimentBearish, *newsRepo.updated[0].Sentiment)
}

func TestSentimentMovers(t *testing.T) {
	stockRepo := newFakeStockRepo(
		&model.Stock{ID: 1, Ticker: "AAPL", CompanyFullName: "Apple Inc."},
		&model.Stock{ID: 2, Ticker: "MSFT", CompanyFullName: "Microsoft Corporation"},
		&model.Stock{ID: 3, Ticker: "TSLA", CompanyFullName: "Tesla Inc."},
	)

	newsRepo := newFakeNewsRepo()
	// First queued tally is the current window, second the prior week.
	newsRepo.tallies["AAPL"] = []model.SentimentTally{
		{Bullish: 5},               // score 100
		{Bullish: 1, Bearish: 1},   // score 0, change 100
	}
	newsRepo.tallies["MSFT"] = []model.SentimentTally{
		{Bullish: 2, Bearish: 2},   // score 0
		{},                         // no prior coverage, change 0
	}
	// TSLA has no queued tallies: no current coverage, excluded.

	svc := newTestSentimentService(t, newsRepo, stockRepo, &fakeSentimentHistoryRepo{}, &fakeAnalyzer{})

	movers, err := svc.SentimentMovers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, movers, 2)

	assert.Equal(t, "AAPL", movers[0].Ticker)
	assert.Equal(t, 100, movers[0].SentimentScore)
	assert.Equal(t, 100, movers[0].Change)

	assert.Equal(t, "MSFT", movers[1].Ticker)
	assert.Equal(t, 0, movers[1].SentimentScore)
	assert.Equal(t, 0, movers[1].Change)

	// The freshly computed scores are persisted on the stock rows.
	assert.Equal(t, 100, *stockRepo.stocks["AAPL"].SentimentScore)
}

func TestSentimentMoversUsesCalendarDayWindows(t *testing.T) {
	stockRepo := newFakeStockRepo(&model.Stock{ID: 1, Ticker: "AAPL", CompanyFullName: "Apple Inc."})
	newsRepo := newFakeNewsRepo()
	newsRepo.tallies["AAPL"] = []model.SentimentTally{{Bullish: 1}, {Bearish: 1}}

	svc := newTestSentimentService(t, newsRepo, stockRepo, &fakeSentimentHistoryRepo{}, &fakeAnalyzer{})

	_, err := svc.SentimentMovers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, newsRepo.tallyWindows, 2)

	current, previous := newsRepo.tallyWindows[0], newsRepo.tallyWindows[1]

	// Both windows sit on midnight boundaries, not rolling timestamps.
	assert.Equal(t, utils.DateOnly(current[0]), current[0])
	assert.Equal(t, utils.DateOnly(previous[0]), previous[0])

	// Current runs from yesterday open-ended; previous covers the six
	// days before that, ending where the current window starts.
	assert.True(t, current[1].IsZero())
	assert.Equal(t, current[0], previous[1])
	assert.Equal(t, current[0].AddDate(0, 0, -6), previous[0])
}

func TestRebuildHistory(t *testing.T) {
	stockRepo := newFakeStockRepo(&model.Stock{ID: 7, Ticker: "AAPL", CompanyFullName: "Apple Inc."})
	historyRepo := &fakeSentimentHistoryRepo{}

	newsRepo := newFakeNewsRepo()
	newsRepo.dailyTallies = []model.DailySentimentTally{
		{Day: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Bullish: 3, Bearish: 1, Neutral: 2},
		{Day: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), Bullish: 0, Bearish: 2, Neutral: 0},
	}

	svc := newTestSentimentService(t, newsRepo, stockRepo, historyRepo, &fakeAnalyzer{})

	written, err := svc.RebuildHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	require.Len(t, historyRepo.rows, 2)
	assert.Equal(t, uint(7), historyRepo.rows[0].StockID)
	assert.Equal(t, 6, historyRepo.rows[0].TotalNews)
	assert.Equal(t, 2, historyRepo.rows[1].TotalNews)
}

func TestRebuildHistoryUnknownTicker(t *testing.T) {
	svc := newTestSentimentService(t, newFakeNewsRepo(), newFakeStockRepo(), &fakeSentimentHistoryRepo{}, &fakeAnalyzer{})

	_, err := svc.RebuildHistory(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}
