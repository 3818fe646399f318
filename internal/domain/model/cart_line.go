package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。(user, menuitem)で一意、同じ商品の追加は数量加算。
// unit_priceは追加時点の価格スナップショット。
type CartLine struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64 `gorm:"not null;uniqueIndex:idx_cart_lines_user_menuitem" json:"user"`
	MenuItemID int64 `gorm:"column:menuitem_id;not null;uniqueIndex:idx_cart_lines_user_menuitem" json:"menuitem"`
	Quantity   int64 `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	// price = quantity * unit_price（変更のたびに再計算）
	Price     decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
}

// NewCartLine は行合計を計算して明細を作る。
func NewCartLine(userID int64, menuItemID int64, quantity int64, unitPrice decimal.Decimal) CartLine {
	line := CartLine{
		UserID:     userID,
		MenuItemID: menuItemID,
		UnitPrice:  unitPrice,
	}
	line.SetQuantity(quantity)
	return line
}

// AddQuantity は数量を加算してpriceを計算し直す。
// unit_priceは最初の追加時点のまま動かさない。
func (l *CartLine) AddQuantity(quantity int64) {
	l.SetQuantity(l.Quantity + quantity)
}

// SetQuantity は数量を置き換えてpriceを計算し直す。
func (l *CartLine) SetQuantity(quantity int64) {
	l.Quantity = quantity
	l.Price = l.UnitPrice.Mul(decimal.NewFromInt(quantity))
}
