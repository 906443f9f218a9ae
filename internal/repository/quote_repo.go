package repository

import (
	"market-sentiment/config"
	"market-sentiment/pkg/logger"
)

// NewQuoteProviderRepository picks the quote source: Alpha Vantage when a
// real key is configured, otherwise the keyless Yahoo chart endpoint.
func NewQuoteProviderRepository(cfg *config.Config, log *logger.Logger) QuoteProviderRepository {
	if cfg.AlphaVantage.Enabled() {
		log.Info("using alpha vantage as quote provider")
		return NewAlphaVantageRepository(cfg, log)
	}
	log.Info("using yahoo finance as quote provider")
	return NewYahooFinanceRepository(cfg, log)
}

// NewNewsProviderRepositories builds the ordered news source chain. The
// dedicated news providers rank above Twitter, which only joins the chain
// when neither of them is configured.
func NewNewsProviderRepositories(cfg *config.Config, log *logger.Logger) []NewsProviderRepository {
	var providers []NewsProviderRepository
	if cfg.NewsAPI.APIKey != "" {
		providers = append(providers, NewNewsAPIRepository(cfg, log))
	}
	if cfg.AlphaVantage.Enabled() {
		providers = append(providers, NewAlphaVantageRepository(cfg, log))
	}
	if len(providers) == 0 && cfg.Twitter.BearerToken != "" {
		providers = append(providers, NewTwitterRepository(cfg, log))
	}
	return providers
}
