package repository

import (
	"context"
	"fmt"
	"market-sentiment/config"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/model"
	"market-sentiment/pkg/httpclient"
	"market-sentiment/pkg/logger"
	"market-sentiment/pkg/ratelimit"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const sentimentPrompt = `Classify the sentiment of the following financial news text about a stock.
Respond with exactly one word: Bullish, Bearish, or Neutral.

Text:
%s`

// geminiRepository classifies article text with the Google Gemini API.
type geminiRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewGeminiRepository(cfg *config.Config, log *logger.Logger) (SentimentAnalyzerRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiRepository{
		httpClient:     httpclient.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiRepository) Analyze(ctx context.Context, text string) (model.Sentiment, error) {
	prompt := fmt.Sprintf(sentimentPrompt, text)

	geminiAPIResponse, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to send request to gemini: %w", err)
	}

	label, err := r.parseLabel(geminiAPIResponse)
	if err != nil {
		return "", err
	}
	return label, nil
}

func (r *geminiRepository) sendRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token gemini limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request gemini limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.BaseModel, r.cfg.Gemini.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	if geminiResp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return nil, fmt.Errorf("failed to get data: %v", geminiResp.Body)
	}

	return &geminiAPIResponse, nil
}

// parseLabel extracts the single-word verdict; unexpected responses collapse
// to an error so the caller can fall back to Neutral.
func (r *geminiRepository) parseLabel(response *dto.GeminiAPIResponse) (model.Sentiment, error) {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	answer := strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text)
	answer = strings.Trim(answer, "`.\"'\n")

	for _, sentiment := range []model.Sentiment{model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral} {
		if strings.EqualFold(answer, string(sentiment)) {
			return sentiment, nil
		}
	}

	// Some responses wrap the label in a sentence; take the first match.
	lower := strings.ToLower(answer)
	for _, sentiment := range []model.Sentiment{model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral} {
		if strings.Contains(lower, strings.ToLower(string(sentiment))) {
			return sentiment, nil
		}
	}

	return "", fmt.Errorf("unexpected sentiment label: %q", answer)
}
