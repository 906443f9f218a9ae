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
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository serves quotes and daily history from the public
// Yahoo chart endpoint. It needs no API key, so it is the default quote
// source.
type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) *yahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) getChart(ctx context.Context, ticker, rangeParam, interval string) (*dto.YahooChartResult, error) {
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Yahoo Finance request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
		)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"range":    rangeParam,
		"interval": interval,
	}
	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
	}

	var chartResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, "/"+ticker, queryParams, headers, &chartResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart from yahoo finance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo finance returned status: %d", resp.StatusCode)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", chartResp.Chart.Error)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", ticker)
	}
	return &chartResp.Chart.Result[0], nil
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	result, err := r.getChart(ctx, ticker, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("no price data in quote for %s", ticker)
	}

	var change, changePercent float64
	if meta.PreviousClose > 0 {
		change = meta.RegularMarketPrice - meta.PreviousClose
		changePercent = change / meta.PreviousClose * 100
	}

	quote := &dto.StockQuote{
		Ticker:        ticker,
		CurrentPrice:  meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePercent,
	}
	if meta.RegularMarketVolume > 0 {
		quote.Volume = utils.ToPointer(meta.RegularMarketVolume)
	}
	if meta.MarketCap > 0 {
		quote.MarketCap = utils.ToPointer(meta.MarketCap)
	}
	return quote, nil
}

func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, ticker string, days int) ([]dto.PricePoint, error) {
	result, err := r.getChart(ctx, ticker, strconv.Itoa(days)+"d", "1d")
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote indicators for %s", ticker)
	}
	quote := result.Indicators.Quote[0]

	history := make([]dto.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		point := dto.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Price: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			point.Volume = *quote.Volume[i]
		}
		history = append(history, point)
	}

	sortPricePoints(history)
	return history, nil
}

func sortPricePoints(points []dto.PricePoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}
