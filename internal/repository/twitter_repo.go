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

// twitterRepository searches recent cashtag tweets and shapes them as
// articles. It is the lowest-priority news source, only consulted when the
// dedicated news providers are not configured.
type twitterRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewTwitterRepository(cfg *config.Config, log *logger.Logger) *twitterRepository {
	return &twitterRepository{
		httpClient: httpclient.New(cfg.Twitter.BaseURL, cfg.Twitter.Timeout, cfg.Twitter.BearerToken),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *twitterRepository) Name() string {
	return "twitter"
}

func (r *twitterRepository) GetNews(ctx context.Context, ticker string, limit int, since time.Time) ([]dto.NewsArticle, error) {
	maxResults := limit
	if maxResults < 10 {
		maxResults = 10
	}
	if maxResults > 100 {
		maxResults = 100
	}

	queryParams := map[string]string{
		"query":        fmt.Sprintf("$%s -is:retweet lang:en", ticker),
		"max_results":  strconv.Itoa(maxResults),
		"tweet.fields": "created_at,author_id",
		"expansions":   "author_id",
		"user.fields":  "name,username",
	}
	if !since.IsZero() {
		queryParams["start_time"] = since.UTC().Format(time.RFC3339)
	}

	var searchResp dto.TwitterSearchResponse
	resp, err := r.httpClient.Get(ctx, "/tweets/search/recent", queryParams, nil, &searchResp)
	if err != nil {
		return nil, fmt.Errorf("failed to search tweets: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter returned status: %d", resp.StatusCode)
	}

	usersByID := make(map[string]dto.TwitterUser, len(searchResp.Includes.Users))
	for _, user := range searchResp.Includes.Users {
		usersByID[user.ID] = user
	}

	news := make([]dto.NewsArticle, 0, len(searchResp.Data))
	for _, tweet := range searchResp.Data {
		if len(news) >= limit {
			break
		}

		createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			createdAt = time.Now()
		}

		title := tweet.Text
		if len(title) > 200 {
			title = title[:200]
		}

		username := "i"
		var author *string
		if user, ok := usersByID[tweet.AuthorID]; ok {
			username = user.Username
			author = &user.Name
		}

		news = append(news, dto.NewsArticle{
			Ticker:  ticker,
			Title:   title,
			Content: tweet.Text,
			Source:  "Twitter",
			Author:  author,
			Date:    createdAt,
			Link:    fmt.Sprintf("https://twitter.com/%s/status/%s", username, tweet.ID),
		})
	}
	return news, nil
}
