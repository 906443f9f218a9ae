package repository

import (
	"context"
	"fmt"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/pkg/httpclient"
	"market-sentiment/pkg/logger"
	"net/http"
	"strconv"
	"time"
)

// newsAPIRepository pulls articles from the NewsAPI /everything endpoint.
// Articles come without sentiment; the classifier labels them later.
type newsAPIRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) *newsAPIRepository {
	return &newsAPIRepository{
		httpClient: httpclient.New(cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, ""),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *newsAPIRepository) Name() string {
	return "news_api"
}

func (r *newsAPIRepository) GetNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error) {
	queryParams := map[string]string{
		"q":        ticker,
		"language": "en",
		"sortBy":   "publishedAt",
		"pageSize": strconv.Itoa(limit),
		"apiKey":   r.cfg.NewsAPI.APIKey,
	}
	if !since.IsZero() {
		queryParams["from"] = since.UTC().Format("2006-01-02")
	}

	var newsResp dto.NewsAPIResponse
	resp, err := r.httpClient.Get(ctx, "/everything", queryParams, nil, &newsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news from news api: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api returned status: %d", resp.StatusCode)
	}
	if newsResp.Status != "ok" {
		return nil, fmt.Errorf("news api status: %s", newsResp.Status)
	}

	news := make([]dto.NewsArticle, 0, len(newsResp.Articles))
	for _, article := range newsResp.Articles {
		if article.Title == "" || article.URL == "" {
			continue
		}

		publishedDate, err := time.Parse("2006-01-02T15:04:05Z", article.PublishedAt)
		if err != nil {
			publishedDate = time.Now()
		}

		content := article.Content
		if content == "" {
			content = article.Description
		}

		news = append(news, dto.NewsArticle{
			Ticker:  ticker,
			Title:   article.Title,
			Content: content,
			Source:  sourceOrUnknown(article.Source.Name),
			Author:  article.Author,
			Date:    publishedDate,
			Link:    article.URL,
		})
	}
	return news, nil
}
