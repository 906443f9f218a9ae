package service

import (
	"context"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/pkg/logger"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:   config.Logger{Level: "error", Encoding: "console"},
		Quote: config.Quote{CacheDuration: time.Hour, MaxRetries: 1, HistoryDays: 30},
	}
}

func testLogger(t *testing.T, cfg *config.Config) *logger.Logger {
	t.Helper()
	log, err := logger.New(cfg)
	require.NoError(t, err)
	return log
}

// fakeCache is a throwaway per-test cache so tests never share state through
// the process-wide singleton.
type fakeCache struct {
	store map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]interface{}{}}
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) { c.store[key] = value }
func (c *fakeCache) Get(key string) (interface{}, bool) {
	v, ok := c.store[key]
	return v, ok
}
func (c *fakeCache) Delete(key string) { delete(c.store, key) }
func (c *fakeCache) Flush()            { c.store = map[string]interface{}{} }

type fakeStockRepo struct {
	stocks map[string]*model.Stock
	saved  []model.Stock
}

func newFakeStockRepo(stocks ...*model.Stock) *fakeStockRepo {
	repo := &fakeStockRepo{stocks: map[string]*model.Stock{}}
	for _, s := range stocks {
		repo.stocks[s.Ticker] = s
	}
	return repo
}

func (r *fakeStockRepo) GetByTicker(_ context.Context, ticker string) (*model.Stock, error) {
	if s, ok := r.stocks[ticker]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeStockRepo) List(_ context.Context, param model.GetStocksParam) ([]model.Stock, error) {
	var out []model.Stock
	if len(param.Tickers) > 0 {
		for _, t := range param.Tickers {
			if s, ok := r.stocks[t]; ok {
				out = append(out, *s)
			}
		}
	} else {
		for _, s := range r.stocks {
			out = append(out, *s)
		}
	}
	if param.Limit > 0 && len(out) > param.Limit {
		out = out[:param.Limit]
	}
	return out, nil
}

func (r *fakeStockRepo) GetOrCreate(_ context.Context, ticker, defaultName string) (*model.Stock, error) {
	if s, ok := r.stocks[ticker]; ok {
		copied := *s
		return &copied, nil
	}
	stock := &model.Stock{ID: uint(len(r.stocks) + 1), Ticker: ticker, CompanyFullName: defaultName}
	r.stocks[ticker] = stock
	copied := *stock
	return &copied, nil
}

func (r *fakeStockRepo) Save(_ context.Context, stock *model.Stock) error {
	r.stocks[stock.Ticker] = stock
	r.saved = append(r.saved, *stock)
	return nil
}

func (r *fakeStockRepo) Upsert(_ context.Context, stock *model.Stock) error {
	r.stocks[stock.Ticker] = stock
	r.saved = append(r.saved, *stock)
	return nil
}

// fakeQuoteProvider serves canned quotes per ticker; missing tickers error.
type fakeQuoteProvider struct {
	quotes       map[string]*dto.StockQuote
	history      map[string][]dto.PricePoint
	calls        int
	historyCalls int
	historyDays  int
}

func (p *fakeQuoteProvider) GetQuote(_ context.Context, ticker string) (*dto.StockQuote, error) {
	p.calls++
	if q, ok := p.quotes[ticker]; ok {
		return q, nil
	}
	return nil, ErrFetchFailed
}

func (p *fakeQuoteProvider) GetPriceHistory(_ context.Context, ticker string, days int) ([]dto.PricePoint, error) {
	p.historyCalls++
	p.historyDays = days
	if h, ok := p.history[ticker]; ok {
		return h, nil
	}
	return nil, ErrFetchFailed
}

type fakePriceHistoryRepo struct {
	present  []time.Time
	upserted []model.PriceHistory
	rows     []model.PriceHistory
}

func (r *fakePriceHistoryRepo) DatesPresent(_ context.Context, _ uint, _ time.Time) ([]time.Time, error) {
	return r.present, nil
}

func (r *fakePriceHistoryRepo) Upsert(_ context.Context, row *model.PriceHistory) error {
	r.upserted = append(r.upserted, *row)
	return nil
}

func (r *fakePriceHistoryRepo) ListRange(_ context.Context, _ uint, _ time.Time, _ int) ([]model.PriceHistory, error) {
	return r.rows, nil
}

type fakeNewsProvider struct {
	name     string
	articles []dto.NewsArticle
	err      error
	calls    int
}

func (p *fakeNewsProvider) Name() string { return p.name }

func (p *fakeNewsProvider) GetNews(_ context.Context, _ string, _ int, _ time.Time) ([]dto.NewsArticle, error) {
	p.calls++
	return p.articles, p.err
}

// fakeAnalyzer counts invocations and returns a fixed label or error.
type fakeAnalyzer struct {
	sentiment model.Sentiment
	err       error
	calls     int
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ string) (model.Sentiment, error) {
	a.calls++
	return a.sentiment, a.err
}

// fakeNewsRepo covers only what each test exercises; untouched methods
// return zero values.
type fakeNewsRepo struct {
	news         map[uuid.UUID]*model.News
	counts       []model.TickerNewsCount
	tallies      map[string][]model.SentimentTally
	tallyCalls   map[string]int
	tallyWindows [][2]time.Time
	updated      []model.News
	findResult   []model.News
	countResult  int64
	dailyTallies []model.DailySentimentTally
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{
		news:       map[uuid.UUID]*model.News{},
		tallies:    map[string][]model.SentimentTally{},
		tallyCalls: map[string]int{},
	}
}

func (r *fakeNewsRepo) UpsertByLink(_ context.Context, news *model.News) error {
	for id, existing := range r.news {
		if existing.Link == news.Link {
			news.ID = id
			r.news[id] = news
			return nil
		}
	}
	if news.ID == uuid.Nil {
		news.ID = uuid.New()
	}
	r.news[news.ID] = news
	return nil
}

func (r *fakeNewsRepo) GetByID(_ context.Context, id uuid.UUID) (*model.News, error) {
	if n, ok := r.news[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeNewsRepo) Find(_ context.Context, _ model.GetNewsParam) ([]model.News, error) {
	return r.findResult, nil
}

func (r *fakeNewsRepo) Count(_ context.Context, _ model.GetNewsParam) (int64, error) {
	return r.countResult, nil
}

func (r *fakeNewsRepo) CountByTicker(_ context.Context, _ string) (int64, error) {
	return r.countResult, nil
}

func (r *fakeNewsRepo) CountPerTickerSince(_ context.Context, _ time.Time) ([]model.TickerNewsCount, error) {
	return r.counts, nil
}

func (r *fakeNewsRepo) RecentByTicker(_ context.Context, _ string, _ int) ([]model.News, error) {
	return r.findResult, nil
}

// SentimentTally pops queued tallies per ticker: first call gets the current
// window, second the previous one. The window bounds are recorded for
// assertions.
func (r *fakeNewsRepo) SentimentTally(_ context.Context, ticker string, from, to time.Time) (model.SentimentTally, error) {
	r.tallyWindows = append(r.tallyWindows, [2]time.Time{from, to})
	queue := r.tallies[ticker]
	i := r.tallyCalls[ticker]
	r.tallyCalls[ticker]++
	if i < len(queue) {
		return queue[i], nil
	}
	return model.SentimentTally{}, nil
}

func (r *fakeNewsRepo) DailySentimentTallies(_ context.Context, _ string, _ time.Time) ([]model.DailySentimentTally, error) {
	return r.dailyTallies, nil
}

func (r *fakeNewsRepo) FindUnanalyzed(_ context.Context, _ string, _ int, _ bool) ([]model.News, error) {
	return r.findResult, nil
}

func (r *fakeNewsRepo) UpdateSentiment(_ context.Context, news *model.News) error {
	r.news[news.ID] = news
	r.updated = append(r.updated, *news)
	return nil
}

type fakeSentimentHistoryRepo struct {
	rows []model.NewsSentimentHistory
}

func (r *fakeSentimentHistoryRepo) Upsert(_ context.Context, row *model.NewsSentimentHistory) error {
	r.rows = append(r.rows, *row)
	return nil
}
