package utils

import (
	"fmt"
	"log"
	"strings"
)

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// NormalizeTicker trims whitespace and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// SplitTickers parses a comma-separated ticker list, dropping empty entries
// and duplicates.
func SplitTickers(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := NormalizeTicker(p)
		if t == "" || ContainsString(tickers, t) {
			continue
		}
		tickers = append(tickers, t)
	}
	return tickers
}

// FormatLargeNumber renders market cap / volume figures with a K/M/B/T
// suffix: 1_500_000_000 -> "$1.50B", 999 -> "$999". Nil means the value was
// never fetched and renders as "N/A".
func FormatLargeNumber(num *int64) string {
	if num == nil {
		return "N/A"
	}

	n := *num
	switch {
	case n >= 1_000_000_000_000:
		return fmt.Sprintf("$%.2fT", float64(n)/1_000_000_000_000)
	case n >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("$%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("$%.2fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("$%d", n)
	}
}

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}
