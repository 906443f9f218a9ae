package service

import (
	"context"
	"fmt"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/internal/repository"
	"market-sentiment/pkg/logger"
	"market-sentiment/pkg/utils"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SentimentService interface {
	SentimentForNews(ctx context.Context, id uuid.UUID) (model.Sentiment, error)
	AnalyzeArticle(ctx context.Context, news *model.News) (model.Sentiment, error)
	SentimentMovers(ctx context.Context, limit int) ([]dto.SentimentMoverResponse, error)
	RebuildHistory(ctx context.Context, ticker string) (int, error)
}

type sentimentService struct {
	cfg                  *config.Config
	logger               *logger.Logger
	newsRepo             repository.NewsRepository
	stockRepo            repository.StockRepository
	sentimentHistoryRepo repository.NewsSentimentHistoryRepository
	analyzer             repository.SentimentAnalyzerRepository
}

func NewSentimentService(
	cfg *config.Config,
	log *logger.Logger,
	newsRepo repository.NewsRepository,
	stockRepo repository.StockRepository,
	sentimentHistoryRepo repository.NewsSentimentHistoryRepository,
	analyzer repository.SentimentAnalyzerRepository,
) SentimentService {
	return &sentimentService{
		cfg:                  cfg,
		logger:               log,
		newsRepo:             newsRepo,
		stockRepo:            stockRepo,
		sentimentHistoryRepo: sentimentHistoryRepo,
		analyzer:             analyzer,
	}
}

// SentimentForNews returns the stored label for an article, classifying it
// lazily on first request and persisting the verdict.
func (s *sentimentService) SentimentForNews(ctx context.Context, id uuid.UUID) (model.Sentiment, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to load news %s: %w", id, err)
	}
	if news == nil {
		return "", fmt.Errorf("%w: news %s", ErrNotFound, id)
	}

	if news.SentimentAnalyzed && news.Sentiment != nil {
		return *news.Sentiment, nil
	}
	return s.AnalyzeArticle(ctx, news)
}

// AnalyzeArticle classifies one article and marks it analyzed. Articles with
// no text, and classifier failures, both settle on Neutral; the row is still
// marked analyzed so it is not retried on every request.
func (s *sentimentService) AnalyzeArticle(ctx context.Context, news *model.News) (model.Sentiment, error) {
	sentiment := model.SentimentNeutral

	text := strings.TrimSpace(news.Title + "\n\n" + news.Content)
	if text != "" {
		label, err := s.analyzer.Analyze(ctx, text)
		if err != nil {
			s.logger.ErrorContextWithAlert(ctx, "sentiment classification failed, defaulting to neutral",
				logger.StringField("news_id", news.ID.String()),
				logger.ErrorField(err),
			)
		} else {
			sentiment = label
		}
	}

	news.Sentiment = &sentiment
	news.SentimentAnalyzed = true
	if err := s.newsRepo.UpdateSentiment(ctx, news); err != nil {
		return "", fmt.Errorf("failed to save sentiment for news %s: %w", news.ID, err)
	}
	return sentiment, nil
}

// sentimentScore maps a tally to [-100, 100]: all-bullish coverage scores
// 100, all-bearish -100.
func sentimentScore(tally model.SentimentTally) int {
	total := tally.Total()
	if total == 0 {
		return 0
	}
	return int(float64(tally.Bullish-tally.Bearish) / float64(total) * 100)
}

// SentimentMovers ranks stocks by how far their news sentiment moved: the
// score over the last day against the score over the prior week. Stocks with
// no analyzed coverage in the current window are excluded, and a stock with
// no prior coverage reports a change of zero.
func (s *sentimentService) SentimentMovers(ctx context.Context, limit int) ([]dto.SentimentMoverResponse, error) {
	if limit <= 0 {
		limit = defaultMoversLimit
	}

	stocks, err := s.stockRepo.List(ctx, model.GetStocksParam{Limit: limit * 3})
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks for sentiment movers: %w", err)
	}

	// Windows are calendar days, not rolling timestamps: current coverage
	// starts at midnight of yesterday, prior coverage a week before that.
	today := utils.DateOnly(time.Now())
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)

	movers := make([]dto.SentimentMoverResponse, 0, len(stocks))
	for i := range stocks {
		stock := &stocks[i]

		current, err := s.newsRepo.SentimentTally(ctx, stock.Ticker, yesterday, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to tally current sentiment for %s: %w", stock.Ticker, err)
		}
		if current.Total() == 0 {
			continue
		}

		previous, err := s.newsRepo.SentimentTally(ctx, stock.Ticker, weekAgo, yesterday)
		if err != nil {
			return nil, fmt.Errorf("failed to tally previous sentiment for %s: %w", stock.Ticker, err)
		}

		score := sentimentScore(current)
		change := 0
		if previous.Total() > 0 {
			change = score - sentimentScore(previous)
		}

		stock.SentimentScore = &score
		if err := s.stockRepo.Save(ctx, stock); err != nil {
			s.logger.ErrorContext(ctx, "failed to save sentiment score",
				logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		}

		movers = append(movers, dto.SentimentMoverResponse{
			Ticker:         stock.Ticker,
			SentimentScore: score,
			Change:         change,
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(float64(movers[i].Change)) > math.Abs(float64(movers[j].Change))
	})
	if len(movers) > limit {
		movers = movers[:limit]
	}
	return movers, nil
}

// RebuildHistory recomputes the per-day sentiment tallies for a ticker over
// the trailing history window and upserts them into the history table.
// Returns the number of days written.
func (s *sentimentService) RebuildHistory(ctx context.Context, ticker string) (int, error) {
	stock, err := s.stockRepo.GetByTicker(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to load stock %s: %w", ticker, err)
	}
	if stock == nil {
		return 0, fmt.Errorf("%w: stock %s", ErrNotFound, ticker)
	}

	since := time.Now().AddDate(0, 0, -s.cfg.Quote.HistoryDays)
	tallies, err := s.newsRepo.DailySentimentTallies(ctx, ticker, since)
	if err != nil {
		return 0, fmt.Errorf("failed to load daily tallies for %s: %w", ticker, err)
	}

	written := 0
	for _, tally := range tallies {
		row := &model.NewsSentimentHistory{
			StockID:      stock.ID,
			Date:         datatypes.Date(tally.Day),
			BullishCount: tally.Bullish,
			BearishCount: tally.Bearish,
			NeutralCount: tally.Neutral,
			TotalNews:    tally.Bullish + tally.Bearish + tally.Neutral,
		}
		if err := s.sentimentHistoryRepo.Upsert(ctx, row); err != nil {
			return written, fmt.Errorf("failed to save sentiment history row: %w", err)
		}
		written++
	}
	return written, nil
}
