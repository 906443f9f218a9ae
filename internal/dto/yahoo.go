package dto

type YahooFinanceResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  interface{}        `json:"error"`
}

type YahooChartResult struct {
	Meta       YahooMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooMeta struct {
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	PreviousClose       float64 `json:"previousClose"`
	RegularMarketVolume int64   `json:"regularMarketVolume"`
	MarketCap           int64   `json:"marketCap"`
}

type YahooIndicators struct {
	Quote []YahooQuote `json:"quote"`
}

type YahooQuote struct {
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
