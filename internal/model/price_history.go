package model

import (
	"gorm.io/datatypes"
)

type PriceHistory struct {
	ID      uint           `gorm:"primarykey"`
	StockID uint           `gorm:"not null;uniqueIndex:idx_price_histories_stock_date"`
	Date    datatypes.Date `gorm:"not null;uniqueIndex:idx_price_histories_stock_date"`
	Price   float64        `gorm:"not null"`
	Volume  int64          `gorm:"not null;default:0"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (PriceHistory) TableName() string {
	return "price_histories"
}
