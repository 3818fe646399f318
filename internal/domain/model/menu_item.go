package model

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"type:varchar(255);not null;index" json:"title"`
	// 小数2桁の正の価格
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null;index" json:"price"`
	Featured   bool            `gorm:"not null;default:false;index" json:"featured"`
	CategoryID int64           `gorm:"not null;index" json:"category_id"`
	Category   Category        `gorm:"foreignKey:CategoryID" json:"category"`
}
