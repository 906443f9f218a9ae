package service

import (
	"context"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/internal/repository"
	"market-sentiment/pkg/logger"
	"market-sentiment/pkg/utils"
	"time"
)

// BatchOptions tunes the batch jobs. Delay spaces out provider calls so a
// full run stays under free-tier rate limits.
type BatchOptions struct {
	Tickers      []string
	Limit        int
	TimePeriod   string
	Delay        time.Duration
	SkipExisting bool
	Force        bool
}

// BatchSummary reports what a job run did.
type BatchSummary struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

type BatchService interface {
	PopulateStocks(ctx context.Context, opts BatchOptions) (BatchSummary, error)
	PopulateNews(ctx context.Context, opts BatchOptions) (BatchSummary, error)
	AnalyzeSentiments(ctx context.Context, opts BatchOptions) (BatchSummary, error)
}

type batchService struct {
	cfg              *config.Config
	logger           *logger.Logger
	stockRepo        repository.StockRepository
	newsRepo         repository.NewsRepository
	stockService     StockService
	newsService      NewsService
	sentimentService SentimentService
}

func NewBatchService(
	cfg *config.Config,
	log *logger.Logger,
	stockRepo repository.StockRepository,
	newsRepo repository.NewsRepository,
	stockService StockService,
	newsService NewsService,
	sentimentService SentimentService,
) BatchService {
	return &batchService{
		cfg:              cfg,
		logger:           log,
		stockRepo:        stockRepo,
		newsRepo:         newsRepo,
		stockService:     stockService,
		newsService:      newsService,
		sentimentService: sentimentService,
	}
}

func (s *batchService) tickersOrDefault(opts BatchOptions) []string {
	if len(opts.Tickers) > 0 {
		return opts.Tickers
	}
	return dto.PopularTickers
}

func (s *batchService) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// PopulateStocks refreshes the quote for every ticker in the universe. A
// failed ticker is logged and the run continues.
func (s *batchService) PopulateStocks(ctx context.Context, opts BatchOptions) (BatchSummary, error) {
	var summary BatchSummary
	for _, ticker := range s.tickersOrDefault(opts) {
		ticker = utils.NormalizeTicker(ticker)
		summary.Processed++

		stock, err := s.stockRepo.GetOrCreate(ctx, ticker, dto.CompanyName(ticker))
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to get or create stock",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			summary.Failed++
			continue
		}

		if opts.SkipExisting && !NeedsRefresh(stock, time.Now(), s.cfg.Quote.CacheDuration) {
			summary.Skipped++
			continue
		}

		if err := s.stockService.RefreshQuote(ctx, stock); err != nil {
			s.logger.ErrorContextWithAlert(ctx, "failed to refresh quote",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			summary.Failed++
		} else {
			summary.Succeeded++
		}

		if err := s.pause(ctx, opts.Delay); err != nil {
			return summary, err
		}
	}

	s.logger.Info("populate stocks finished",
		logger.IntField("processed", summary.Processed),
		logger.IntField("succeeded", summary.Succeeded),
		logger.IntField("failed", summary.Failed),
		logger.IntField("skipped", summary.Skipped),
	)
	return summary, nil
}

// PopulateNews fetches and stores articles for every ticker in the universe.
func (s *batchService) PopulateNews(ctx context.Context, opts BatchOptions) (BatchSummary, error) {
	var summary BatchSummary
	since := utils.PeriodStart(opts.TimePeriod, time.Now())

	for _, ticker := range s.tickersOrDefault(opts) {
		ticker = utils.NormalizeTicker(ticker)
		summary.Processed++

		if opts.SkipExisting {
			// A ticker with any article from the last day is considered
			// covered by the previous run.
			count, err := s.newsRepo.Count(ctx, model.GetNewsParam{
				Tickers: []string{ticker},
				Since:   time.Now().AddDate(0, 0, -1),
			})
			if err == nil && count > 0 {
				summary.Skipped++
				continue
			}
		}

		articles, err := s.newsService.FetchNews(ctx, ticker, opts.Limit, since)
		if err != nil {
			s.logger.ErrorContextWithAlert(ctx, "failed to fetch news",
				logger.StringField("ticker", ticker), logger.ErrorField(err))
			summary.Failed++
		} else {
			saved, _ := s.newsService.IngestArticles(ctx, articles)
			s.logger.Info("news stored",
				logger.StringField("ticker", ticker),
				logger.IntField("saved", saved),
			)
			summary.Succeeded++
		}

		if err := s.pause(ctx, opts.Delay); err != nil {
			return summary, err
		}
	}

	s.logger.Info("populate news finished",
		logger.IntField("processed", summary.Processed),
		logger.IntField("succeeded", summary.Succeeded),
		logger.IntField("failed", summary.Failed),
		logger.IntField("skipped", summary.Skipped),
	)
	return summary, nil
}

// AnalyzeSentiments classifies stored articles that have no verdict yet.
// With Force set, already-analyzed articles are re-classified too.
func (s *batchService) AnalyzeSentiments(ctx context.Context, opts BatchOptions) (BatchSummary, error) {
	var summary BatchSummary

	ticker := ""
	if len(opts.Tickers) > 0 {
		ticker = utils.NormalizeTicker(opts.Tickers[0])
	}

	news, err := s.newsRepo.FindUnanalyzed(ctx, ticker, opts.Limit, opts.Force)
	if err != nil {
		return summary, err
	}

	affected := map[string]struct{}{}
	for i := range news {
		summary.Processed++
		if _, err := s.sentimentService.AnalyzeArticle(ctx, &news[i]); err != nil {
			s.logger.ErrorContext(ctx, "failed to analyze article",
				logger.StringField("news_id", news[i].ID.String()), logger.ErrorField(err))
			summary.Failed++
		} else {
			summary.Succeeded++
			affected[news[i].Ticker] = struct{}{}
		}

		if err := s.pause(ctx, opts.Delay); err != nil {
			return summary, err
		}
	}

	// Fresh verdicts invalidate the per-day tallies of every touched stock.
	for affectedTicker := range affected {
		if _, err := s.sentimentService.RebuildHistory(ctx, affectedTicker); err != nil {
			s.logger.WarnContext(ctx, "failed to rebuild sentiment history",
				logger.StringField("ticker", affectedTicker), logger.ErrorField(err))
		}
	}

	s.logger.Info("analyze sentiments finished",
		logger.IntField("processed", summary.Processed),
		logger.IntField("succeeded", summary.Succeeded),
		logger.IntField("failed", summary.Failed),
	)
	return summary, nil
}
