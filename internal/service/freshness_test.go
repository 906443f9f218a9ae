package service

import (
	"market-sentiment/internal/model"
	"market-sentiment/pkg/utils"
	"testing"
	"time"
)

func TestNeedsRefresh(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	maxAge := time.Hour

	quoted := func(updatedAt time.Time) *model.Stock {
		return &model.Stock{
			Ticker:       "AAPL",
			CurrentPrice: utils.ToPointer(150.0),
			ChangeInDay:  utils.ToPointer(1.2),
			UpdatedAt:    updatedAt,
		}
	}

	tests := []struct {
		name  string
		stock *model.Stock
		want  bool
	}{
		{name: "nil stock", stock: nil, want: true},
		{name: "no quote yet", stock: &model.Stock{Ticker: "AAPL", UpdatedAt: now}, want: true},
		{
			name:  "price without change",
			stock: &model.Stock{Ticker: "AAPL", CurrentPrice: utils.ToPointer(150.0), UpdatedAt: now},
			want:  true,
		},
		{name: "zero timestamp", stock: quoted(time.Time{}), want: true},
		{name: "just updated", stock: quoted(now), want: false},
		{name: "exactly at threshold is fresh", stock: quoted(now.Add(-maxAge)), want: false},
		{name: "one second past threshold is stale", stock: quoted(now.Add(-maxAge - time.Second)), want: true},
		{
			name:  "non-UTC timestamp compared correctly",
			stock: quoted(now.Add(-30 * time.Minute).In(time.FixedZone("EST", -5*3600))),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRefresh(tt.stock, now, maxAge); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
