package repository

import (
	"context"
	"fmt"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/pkg/httpclient"
	"market-sentiment/pkg/logger"
	"market-sentiment/pkg/utils"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// alphaVantageRepository talks to the Alpha Vantage REST API. It serves both
// as a quote/history provider and as a news provider (NEWS_SENTIMENT feed,
// which arrives pre-scored by the vendor).
type alphaVantageRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) *alphaVantageRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.AlphaVantage.MaxRequestPerMinute)
	return &alphaVantageRepository{
		httpClient:     httpclient.New(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *alphaVantageRepository) Name() string {
	return "alpha_vantage"
}

func (r *alphaVantageRepository) wait(ctx context.Context) error {
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Alpha Vantage request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.AlphaVantage.MaxRequestPerMinute),
		)
	}
	return r.requestLimiter.Wait(ctx)
}

func (r *alphaVantageRepository) GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   ticker,
		"apikey":   r.cfg.AlphaVantage.APIKey,
	}

	var quoteResp dto.AlphaVantageQuoteResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &quoteResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote from alpha vantage: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status: %d", resp.StatusCode)
	}
	if quoteResp.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage api error: %s", quoteResp.ErrorMessage)
	}
	if quoteResp.Note != "" {
		return nil, fmt.Errorf("alpha vantage rate limit: %s", quoteResp.Note)
	}

	priceStr := quoteResp.GlobalQuote.Price
	if priceStr == "" || priceStr == "0" {
		return nil, fmt.Errorf("no price data in quote for %s", ticker)
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for %s: %w", priceStr, ticker, err)
	}

	change, _ := strconv.ParseFloat(quoteResp.GlobalQuote.Change, 64)
	changePercent, _ := strconv.ParseFloat(strings.TrimSuffix(quoteResp.GlobalQuote.ChangePercent, "%"), 64)

	quote := &dto.StockQuote{
		Ticker:        ticker,
		CurrentPrice:  price,
		Change:        change,
		ChangePercent: changePercent,
	}
	if volume, err := strconv.ParseInt(quoteResp.GlobalQuote.Volume, 10, 64); err == nil && volume > 0 {
		quote.Volume = utils.ToPointer(volume)
	}
	return quote, nil
}

func (r *alphaVantageRepository) GetPriceHistory(ctx context.Context, ticker string, days int) ([]dto.PricePoint, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	outputSize := "compact"
	if days > 100 {
		outputSize = "full"
	}
	queryParams := map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     ticker,
		"apikey":     r.cfg.AlphaVantage.APIKey,
		"outputsize": outputSize,
	}

	var histResp dto.AlphaVantageHistoryResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &histResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history from alpha vantage: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status: %d", resp.StatusCode)
	}
	if len(histResp.TimeSeries) == 0 {
		return nil, fmt.Errorf("no time series data for %s", ticker)
	}

	startDate := utils.DateOnly(time.Now().AddDate(0, 0, -days))

	var history []dto.PricePoint
	for dateStr, bar := range histResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		if date.Before(startDate) {
			continue
		}
		price, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			continue
		}
		volume, _ := strconv.ParseInt(bar.Volume, 10, 64)
		history = append(history, dto.PricePoint{
			Date:   date,
			Price:  price,
			Volume: volume,
		})
	}

	sortPricePoints(history)
	return history, nil
}

// GetNews fetches the NEWS_SENTIMENT feed; the vendor score is bucketed to a
// label (>0.35 Bullish, <-0.35 Bearish, else Neutral).
func (r *alphaVantageRepository) GetNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"function": "NEWS_SENTIMENT",
		"tickers":  ticker,
		"apikey":   r.cfg.AlphaVantage.APIKey,
		"limit":    strconv.Itoa(limit),
	}

	var newsResp dto.AlphaVantageNewsResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &newsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news from alpha vantage: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status: %d", resp.StatusCode)
	}

	news := make([]dto.NewsArticle, 0, len(newsResp.Feed))
	for _, item := range newsResp.Feed {
		publishedDate, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			publishedDate = time.Now()
		}

		sentiment := bucketSentimentScore(item.OverallSentimentScore)
		news = append(news, dto.NewsArticle{
			Ticker:    ticker,
			Title:     item.Title,
			Content:   item.Summary,
			Source:    sourceOrUnknown(item.Source),
			Date:      publishedDate,
			Link:      item.URL,
			Sentiment: &sentiment,
		})
	}
	return news, nil
}

func bucketSentimentScore(score float64) string {
	switch {
	case score > 0.35:
		return "Bullish"
	case score < -0.35:
		return "Bearish"
	default:
		return "Neutral"
	}
}

func sourceOrUnknown(source string) string {
	if source == "" {
		return "Unknown"
	}
	return source
}
