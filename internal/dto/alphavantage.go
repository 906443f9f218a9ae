package dto

// Alpha Vantage wire formats. Field keys follow the vendor's numbered naming.

type AlphaVantageQuoteResponse struct {
	GlobalQuote  AlphaVantageGlobalQuote `json:"Global Quote"`
	ErrorMessage string                  `json:"Error Message"`
	Note         string                  `json:"Note"`
}

type AlphaVantageGlobalQuote struct {
	Symbol        string `json:"01. symbol"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

type AlphaVantageHistoryResponse struct {
	TimeSeries   map[string]AlphaVantageDailyBar `json:"Time Series (Daily)"`
	ErrorMessage string                          `json:"Error Message"`
	Note         string                          `json:"Note"`
}

type AlphaVantageDailyBar struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type AlphaVantageNewsResponse struct {
	Feed         []AlphaVantageNewsItem `json:"feed"`
	ErrorMessage string                 `json:"Error Message"`
	Note         string                 `json:"Note"`
}

type AlphaVantageNewsItem struct {
	Title                 string  `json:"title"`
	URL                   string  `json:"url"`
	TimePublished         string  `json:"time_published"`
	Summary               string  `json:"summary"`
	Source                string  `json:"source"`
	OverallSentimentScore float64 `json:"overall_sentiment_score"`
}
