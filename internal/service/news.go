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
	"market-sentiment/pkg/utils"
	"math"
	"time"
)

const (
	defaultNewsLimit = 20
	newsBuzzCacheTTL = 5 * time.Minute

	// maxFetchTickers bounds the on-demand provider fan-out when a news
	// query asks for tickers the database has little data for.
	maxFetchTickers = 3

	// newsBuzzFloorCount keeps buzz scores meaningful when even the most
	// mentioned ticker has only a handful of articles.
	newsBuzzFloorCount = 10
)

type NewsService interface {
	GetNews(ctx context.Context, query dto.NewsQuery) ([]dto.NewsResponse, error)
	FetchNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error)
	IngestArticles(ctx context.Context, articles []dto.NewsArticle) (int, error)
	NewsBuzz(ctx context.Context, limit int, timePeriod string) ([]dto.NewsBuzzResponse, error)
}

type newsService struct {
	cfg           *config.Config
	logger        *logger.Logger
	cache         cache.Cache
	newsRepo      repository.NewsRepository
	stockRepo     repository.StockRepository
	newsProviders []repository.NewsProviderRepository
}

func NewNewsService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	newsRepo repository.NewsRepository,
	stockRepo repository.StockRepository,
	newsProviders []repository.NewsProviderRepository,
) NewsService {
	return &newsService{
		cfg:           cfg,
		logger:        log,
		cache:         inmemoryCache,
		newsRepo:      newsRepo,
		stockRepo:     stockRepo,
		newsProviders: newsProviders,
	}
}

// FetchNews walks the provider chain in priority order, concatenating
// results until the limit is covered. Duplicate titles across the combined
// batch collapse to the first occurrence, so a higher-priority provider's
// copy of a story wins, and truncation happens only after the dedup.
func (s *newsService) FetchNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error) {
	if limit <= 0 {
		limit = defaultNewsLimit
	}
	ticker = utils.NormalizeTicker(ticker)

	var (
		seen    = make(map[string]struct{})
		merged  []dto.NewsArticle
		lastErr error
	)
	for _, provider := range s.newsProviders {
		if len(merged) >= limit {
			break
		}
		articles, err := provider.GetNews(ctx, ticker, limit, since)
		if err != nil {
			s.logger.WarnContext(ctx, "news provider failed, trying next",
				logger.StringField("provider", provider.Name()),
				logger.StringField("ticker", ticker),
				logger.ErrorField(err),
			)
			lastErr = err
			continue
		}
		for _, a := range articles {
			if _, ok := seen[a.Title]; ok {
				continue
			}
			seen[a.Title] = struct{}{}
			merged = append(merged, a)
		}
	}

	if len(merged) == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: news for %s: %v", ErrFetchFailed, ticker, lastErr)
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// IngestArticles persists a fetched batch, merging by link. Returns how many
// rows were written; a single bad row is logged and skipped.
func (s *newsService) IngestArticles(ctx context.Context, articles []dto.NewsArticle) (int, error) {
	saved := 0
	for _, article := range articles {
		news := &model.News{
			Ticker:  article.Ticker,
			Title:   article.Title,
			Content: article.Content,
			Source:  article.Source,
			Author:  article.Author,
			Date:    article.Date,
			Link:    article.Link,
		}
		if article.Sentiment != nil && model.ValidSentiment(*article.Sentiment) {
			sentiment := model.Sentiment(*article.Sentiment)
			news.Sentiment = &sentiment
			news.SentimentAnalyzed = true
		}
		if err := s.newsRepo.UpsertByLink(ctx, news); err != nil {
			s.logger.ErrorContext(ctx, "failed to save article",
				logger.StringField("link", article.Link), logger.ErrorField(err))
			continue
		}
		saved++
	}
	return saved, nil
}

// GetNews serves stored articles, topping the store up from providers when a
// ticker-scoped query finds fewer rows than asked for.
func (s *newsService) GetNews(ctx context.Context, query dto.NewsQuery) ([]dto.NewsResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultNewsLimit
	}

	param := model.GetNewsParam{
		Tickers: utils.SplitTickers(query.Stocks),
		Since:   utils.PeriodStart(query.TimePeriod, time.Now()),
		Limit:   limit,
	}
	if query.Sentiment != "" && model.ValidSentiment(query.Sentiment) {
		sentiment := model.Sentiment(query.Sentiment)
		param.Sentiment = &sentiment
	}

	count, err := s.newsRepo.Count(ctx, param)
	if err != nil {
		return nil, fmt.Errorf("failed to count news: %w", err)
	}

	if count < int64(limit) && len(param.Tickers) > 0 {
		s.topUpFromProviders(ctx, param.Tickers, limit, param.Since)
	}

	news, err := s.newsRepo.Find(ctx, param)
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	return newsResponses(news), nil
}

// topUpFromProviders fetches fresh articles for up to maxFetchTickers of the
// requested tickers, splitting the limit between them. Failures are logged;
// the query still serves whatever the store has.
func (s *newsService) topUpFromProviders(ctx context.Context, tickers []string, limit int, since time.Time) {
	if len(tickers) > maxFetchTickers {
		tickers = tickers[:maxFetchTickers]
	}
	perTicker := limit / len(tickers)
	if perTicker < 1 {
		perTicker = 1
	}

	for _, ticker := range tickers {
		articles, err := s.FetchNews(ctx, ticker, perTicker, since)
		if err != nil {
			s.logger.WarnContext(ctx, "on-demand news fetch failed",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			continue
		}
		if _, err := s.IngestArticles(ctx, articles); err != nil {
			s.logger.WarnContext(ctx, "on-demand news ingest failed",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
		}
	}
}

// NewsBuzz scores tickers by how much of the window's coverage they own. The
// denominator never drops below newsBuzzFloorCount and scores stay strictly
// below 1.
func (s *newsService) NewsBuzz(ctx context.Context, limit int, timePeriod string) ([]dto.NewsBuzzResponse, error) {
	if limit <= 0 {
		limit = defaultMoversLimit
	}

	cacheKey := fmt.Sprintf("news_buzz:%s:%d", timePeriod, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if buzz, ok := cached.([]dto.NewsBuzzResponse); ok {
			return buzz, nil
		}
	}

	since := utils.PeriodStart(timePeriod, time.Now())
	counts, err := s.newsRepo.CountPerTickerSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count news per ticker: %w", err)
	}
	if len(counts) == 0 {
		return []dto.NewsBuzzResponse{}, nil
	}

	maxCount := counts[0].NewsCount
	if maxCount < newsBuzzFloorCount {
		maxCount = newsBuzzFloorCount
	}

	if len(counts) > limit {
		counts = counts[:limit]
	}

	tickers := make([]string, 0, len(counts))
	for _, c := range counts {
		tickers = append(tickers, c.Ticker)
	}
	stocks, err := s.stockRepo.List(ctx, model.GetStocksParam{Tickers: tickers})
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks for buzz: %w", err)
	}
	namesByTicker := make(map[string]string, len(stocks))
	for _, stock := range stocks {
		namesByTicker[stock.Ticker] = stock.CompanyFullName
	}

	buzz := make([]dto.NewsBuzzResponse, 0, len(counts))
	for _, c := range counts {
		score := math.Min(float64(c.NewsCount)/float64(maxCount), 0.999999)
		score = math.Round(score*1e6) / 1e6

		name, ok := namesByTicker[c.Ticker]
		if !ok {
			name = dto.CompanyName(c.Ticker)
		}
		buzz = append(buzz, dto.NewsBuzzResponse{
			Ticker:          c.Ticker,
			Score:           score,
			CompanyFullName: name,
		})
	}

	s.cache.Set(cacheKey, buzz, newsBuzzCacheTTL)
	return buzz, nil
}

func newsResponses(news []model.News) []dto.NewsResponse {
	resp := make([]dto.NewsResponse, 0, len(news))
	for _, n := range news {
		item := dto.NewsResponse{
			ID:                n.ID,
			Ticker:            n.Ticker,
			Title:             n.Title,
			Content:           n.Content,
			Source:            n.Source,
			Author:            n.Author,
			Date:              n.Date,
			Link:              n.Link,
			SentimentAnalyzed: n.SentimentAnalyzed,
		}
		if n.Sentiment != nil {
			item.Sentiment = utils.ToPointer(string(*n.Sentiment))
		}
		resp = append(resp, item)
	}
	return resp
}
