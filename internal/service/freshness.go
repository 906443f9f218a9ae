package service

import (
	"market-sentiment/internal/model"
	"time"
)

// NeedsRefresh decides whether a stock's cached quote must be re-fetched.
// A row with no quote yet or no update timestamp always refreshes; otherwise
// the quote is stale once its age exceeds maxAge. A quote exactly at the
// threshold is still fresh. Both timestamps are compared in UTC so the
// outcome does not depend on the stored zone.
func NeedsRefresh(stock *model.Stock, now time.Time, maxAge time.Duration) bool {
	if stock == nil || !stock.HasQuote() {
		return true
	}
	if stock.UpdatedAt.IsZero() {
		return true
	}
	age := now.UTC().Sub(stock.UpdatedAt.UTC())
	return age > maxAge
}
