package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// ValidSentiment reports whether s is one of the three classifier labels.
func ValidSentiment(s string) bool {
	switch Sentiment(s) {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return true
	}
	return false
}

type News struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Ticker            string     `gorm:"index;not null;size:10"`
	Title             string     `gorm:"not null;size:500"`
	Content           string     `gorm:"type:text"`
	Source            string     `gorm:"size:255"`
	Author            *string    `gorm:"null;size:255"`
	Date              time.Time  `gorm:"not null;index"`
	Link              string     `gorm:"uniqueIndex;not null;size:500"`
	Sentiment         *Sentiment `gorm:"null;size:10;index"`
	SentimentAnalyzed bool       `gorm:"not null;default:false"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
}

func (News) TableName() string {
	return "news"
}

func (n *News) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type GetNewsParam struct {
	Tickers   []string
	Sentiment *Sentiment
	Since     time.Time
	Limit     int
}

// TickerNewsCount is the per-ticker article count inside a time window.
type TickerNewsCount struct {
	Ticker    string
	NewsCount int
}

// SentimentTally aggregates analyzed articles by label.
type SentimentTally struct {
	Bullish int
	Bearish int
	Neutral int
}

func (t SentimentTally) Total() int {
	return t.Bullish + t.Bearish + t.Neutral
}

// DailySentimentTally is one calendar day's label counts for a ticker, used
// to rebuild the sentiment history table.
type DailySentimentTally struct {
	Day     time.Time
	Bullish int
	Bearish int
	Neutral int
}
