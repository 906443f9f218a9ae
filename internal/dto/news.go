package dto

import (
	"time"

	"github.com/google/uuid"
)

// NewsArticle is the provider-neutral article contract. Sentiment is set
// only when the provider itself scored the article.
type NewsArticle struct {
	Ticker    string
	Title     string
	Content   string
	Source    string
	Author    *string
	Date      time.Time
	Link      string
	Sentiment *string
}

type NewsResponse struct {
	ID                uuid.UUID `json:"id"`
	Ticker            string    `json:"ticker"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Source            string    `json:"source"`
	Author            *string   `json:"author"`
	Date              time.Time `json:"date"`
	Link              string    `json:"link"`
	Sentiment         *string   `json:"sentiment"`
	SentimentAnalyzed bool      `json:"sentimentAnalyzed"`
}

type SentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

type NewsQuery struct {
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Sentiment  string `query:"sentiment" validate:"omitempty,oneof=Bullish Bearish Neutral"`
	Stocks     string `query:"stocks"`
	TimePeriod string `query:"timePeriod" validate:"omitempty,oneof=1d 7d 30d"`
}
