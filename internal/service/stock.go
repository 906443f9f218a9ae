package service

import (
	"context"
	"fmt"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/internal/repository"
	"market-sentiment/pkg/cache"
	"market-sentiment/pkg/logger"
	"market-sentiment/pkg/retry"
	"market-sentiment/pkg/utils"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"
)

const (
	defaultMoversLimit = 10
	topMoversCacheTTL  = time.Minute

	// stockDetailsRecentNews caps the article list on the details payload.
	stockDetailsRecentNews = 10
)

type StockService interface {
	TopMovers(ctx context.Context, limit int) ([]dto.TopMoverResponse, error)
	Stocks(ctx context.Context, limit int) ([]dto.StockResponse, error)
	StockDetails(ctx context.Context, ticker string) (*dto.StockDetailsResponse, error)
	RefreshQuote(ctx context.Context, stock *model.Stock) error
}

type stockService struct {
	cfg              *config.Config
	logger           *logger.Logger
	cache            cache.Cache
	stockRepo        repository.StockRepository
	priceHistoryRepo repository.PriceHistoryRepository
	newsRepo         repository.NewsRepository
	quoteProvider    repository.QuoteProviderRepository
	retryPolicy      retry.Policy
}

func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	stockRepo repository.StockRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
	newsRepo repository.NewsRepository,
	quoteProvider repository.QuoteProviderRepository,
) StockService {
	return &stockService{
		cfg:              cfg,
		logger:           log,
		cache:            inmemoryCache,
		stockRepo:        stockRepo,
		priceHistoryRepo: priceHistoryRepo,
		newsRepo:         newsRepo,
		quoteProvider:    quoteProvider,
		retryPolicy:      retry.NewPolicy(cfg.Quote.MaxRetries),
	}
}

// fetchQuote retries the provider until it yields a quote with a positive
// price or attempts run out.
func (s *stockService) fetchQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	return retry.Do(ctx, s.retryPolicy,
		func(ctx context.Context) (*dto.StockQuote, error) {
			return s.quoteProvider.GetQuote(ctx, ticker)
		},
		func(q *dto.StockQuote) bool { return q.Valid() },
	)
}

// applyQuote merges a fetched quote into the stock row. Volume and market cap
// only move forward: a provider that omits them never wipes a stored value.
func applyQuote(stock *model.Stock, quote *dto.StockQuote) {
	stock.CurrentPrice = utils.ToPointer(quote.CurrentPrice)
	stock.ChangeInDay = utils.ToPointer(quote.ChangePercent)
	if quote.Volume != nil {
		stock.Volume = quote.Volume
	}
	if quote.MarketCap != nil {
		stock.MarketCap = quote.MarketCap
	}
}

func (s *stockService) RefreshQuote(ctx context.Context, stock *model.Stock) error {
	quote, err := s.fetchQuote(ctx, stock.Ticker)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, stock.Ticker, err)
	}

	applyQuote(stock, quote)
	if err := s.stockRepo.Upsert(ctx, stock); err != nil {
		return fmt.Errorf("failed to save quote for %s: %w", stock.Ticker, err)
	}
	return nil
}

// TopMovers scans three times as many candidate tickers as requested so the
// final ranking is by absolute dollar move, not candidate order.
func (s *stockService) TopMovers(ctx context.Context, limit int) ([]dto.TopMoverResponse, error) {
	if limit <= 0 {
		limit = defaultMoversLimit
	}

	cacheKey := fmt.Sprintf("top_movers:%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if movers, ok := cached.([]dto.TopMoverResponse); ok {
			return movers, nil
		}
	}

	candidates := dto.PopularTickers
	if len(candidates) > limit*3 {
		candidates = candidates[:limit*3]
	}

	now := time.Now()
	movers := make([]dto.TopMoverResponse, 0, len(candidates))
	for _, ticker := range candidates {
		stock, err := s.stockRepo.GetByTicker(ctx, ticker)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load stock for top movers",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			continue
		}

		if stock != nil && !NeedsRefresh(stock, now, s.cfg.Quote.CacheDuration) {
			movers = append(movers, cachedMover(stock))
			continue
		}

		quote, err := s.fetchQuote(ctx, ticker)
		if err != nil {
			// Serve the stale row rather than dropping the ticker.
			if stock != nil && stock.HasQuote() {
				s.logger.WarnContext(ctx, "quote refresh failed, using stale data",
					logger.StringField("ticker", ticker), logger.ErrorField(err))
				movers = append(movers, cachedMover(stock))
			} else {
				s.logger.WarnContext(ctx, "quote fetch failed, skipping ticker",
					logger.StringField("ticker", ticker), logger.ErrorField(err))
			}
			continue
		}

		if stock == nil {
			stock = &model.Stock{
				Ticker:          ticker,
				CompanyFullName: dto.CompanyName(ticker),
			}
		}
		applyQuote(stock, quote)
		if err := s.stockRepo.Upsert(ctx, stock); err != nil {
			s.logger.ErrorContext(ctx, "failed to save refreshed quote",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
		}

		movers = append(movers, dto.TopMoverResponse{
			Ticker:       ticker,
			Change:       quote.Change,
			CurrentPrice: quote.CurrentPrice,
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].Change) > math.Abs(movers[j].Change)
	})
	if len(movers) > limit {
		movers = movers[:limit]
	}

	s.cache.Set(cacheKey, movers, topMoversCacheTTL)
	return movers, nil
}

// cachedMover derives the absolute dollar move from the stored day-change
// percent, since the raw change is not persisted.
func cachedMover(stock *model.Stock) dto.TopMoverResponse {
	price := *stock.CurrentPrice
	return dto.TopMoverResponse{
		Ticker:       stock.Ticker,
		Change:       (*stock.ChangeInDay / 100) * price,
		CurrentPrice: price,
	}
}

func (s *stockService) Stocks(ctx context.Context, limit int) ([]dto.StockResponse, error) {
	stocks, err := s.stockRepo.List(ctx, model.GetStocksParam{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	resp := make([]dto.StockResponse, 0, len(stocks))
	for _, stock := range stocks {
		resp = append(resp, dto.StockResponse{
			Ticker:          stock.Ticker,
			CompanyFullName: stock.CompanyFullName,
			ChangeInDay:     stock.ChangeInDay,
			CurrentPrice:    stock.CurrentPrice,
			SentimentScore:  stock.SentimentScore,
		})
	}
	return resp, nil
}

func (s *stockService) StockDetails(ctx context.Context, ticker string) (*dto.StockDetailsResponse, error) {
	ticker = utils.NormalizeTicker(ticker)

	stock, err := s.stockRepo.GetOrCreate(ctx, ticker, dto.CompanyName(ticker))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create stock %s: %w", ticker, err)
	}

	now := time.Now()
	if NeedsRefresh(stock, now, s.cfg.Quote.CacheDuration) {
		if err := s.RefreshQuote(ctx, stock); err != nil {
			// Stale details beat no details.
			s.logger.WarnContext(ctx, "quote refresh failed for stock details",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
		}
	}

	if err := s.backfillHistory(ctx, stock, now); err != nil {
		s.logger.WarnContext(ctx, "price history backfill failed",
			logger.StringField("ticker", ticker), logger.ErrorField(err))
	}

	windowStart := utils.DateOnly(now.AddDate(0, 0, -s.cfg.Quote.HistoryDays))
	histories, err := s.priceHistoryRepo.ListRange(ctx, stock.ID, windowStart, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", ticker, err)
	}
	prices := make([]float64, 0, len(histories))
	for _, h := range histories {
		prices = append(prices, h.Price)
	}

	tally, err := s.newsRepo.SentimentTally(ctx, ticker, now.AddDate(0, 0, -s.cfg.Quote.HistoryDays), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to tally sentiment for %s: %w", ticker, err)
	}

	recent, err := s.newsRepo.RecentByTicker(ctx, ticker, stockDetailsRecentNews)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent news for %s: %w", ticker, err)
	}

	totalNews, err := s.newsRepo.CountByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to count news for %s: %w", ticker, err)
	}

	resp := &dto.StockDetailsResponse{
		CompanyFullName: stock.CompanyFullName,
		MarketCap:       utils.FormatLargeNumber(stock.MarketCap),
		Volume:          utils.FormatLargeNumber(stock.Volume),
		NewsBuzz:        fmt.Sprintf("%.6f", math.Min(float64(totalNews)/100, 0.999999)),
		PricesHistory:   prices,
		NewsSentiment: dto.NewsSentimentSummary{
			Bullish: tally.Bullish,
			Bearish: tally.Bearish,
			Neutral: tally.Neutral,
		},
		RecentNews: newsResponses(recent),
	}
	if stock.CurrentPrice != nil {
		resp.Price = *stock.CurrentPrice
	}
	if stock.ChangeInDay != nil {
		resp.ChangeInDay = *stock.ChangeInDay
	}
	return resp, nil
}

// backfillHistory fills calendar-date gaps in the trailing history window.
// Only dates the window is missing get written; days already present keep
// their stored values. Provider rows outside the missing set (weekends never
// appear, holidays never fill) are skipped.
func (s *stockService) backfillHistory(ctx context.Context, stock *model.Stock, now time.Time) error {
	windowStart := utils.DateOnly(now.AddDate(0, 0, -s.cfg.Quote.HistoryDays))
	today := utils.DateOnly(now)

	present, err := s.priceHistoryRepo.DatesPresent(ctx, stock.ID, windowStart)
	if err != nil {
		return fmt.Errorf("failed to load present dates: %w", err)
	}
	presentSet := make(map[time.Time]struct{}, len(present))
	for _, d := range present {
		presentSet[utils.DateOnly(d)] = struct{}{}
	}

	missing := make(map[time.Time]struct{})
	var oldestMissing time.Time
	for d := windowStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		if _, ok := presentSet[d]; ok {
			continue
		}
		if oldestMissing.IsZero() {
			oldestMissing = d
		}
		missing[d] = struct{}{}
	}
	if len(missing) == 0 {
		return nil
	}

	days := int(today.Sub(oldestMissing).Hours()/24) + 1
	points, err := retry.Do(ctx, s.retryPolicy,
		func(ctx context.Context) ([]dto.PricePoint, error) {
			return s.quoteProvider.GetPriceHistory(ctx, stock.Ticker, days)
		},
		func(points []dto.PricePoint) bool { return len(points) > 0 },
	)
	if err != nil {
		return fmt.Errorf("%w: history for %s: %v", ErrFetchFailed, stock.Ticker, err)
	}

	for _, point := range points {
		date := utils.DateOnly(point.Date)
		if _, ok := missing[date]; !ok {
			continue
		}
		row := &model.PriceHistory{
			StockID: stock.ID,
			Date:    datatypes.Date(date),
			Price:   point.Price,
			Volume:  point.Volume,
		}
		if err := s.priceHistoryRepo.Upsert(ctx, row); err != nil {
			return fmt.Errorf("failed to save history row: %w", err)
		}
	}
	return nil
}
