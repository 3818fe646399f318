package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusDelivered OrderStatus = 1
)

// 注文。user/totalは作成後に変更しない。
// status/delivery_crewだけ権限に応じて更新できる。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user"`
	DeliveryCrewID *int64          `gorm:"column:delivery_crew_id;index" json:"delivery_crew"`
	Status         OrderStatus     `gorm:"not null;default:0;index" json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"total"`
	Date           time.Time       `gorm:"not null;autoCreateTime;index" json:"date"`
}
