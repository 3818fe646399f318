package model

import "github.com/shopspring/decimal"

// 注文明細。checkout時にCartLineからコピーされるスナップショットで、
// 作成後は変更しない。(order, menuitem)で一意。
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64           `gorm:"not null;uniqueIndex:idx_order_items_order_menuitem" json:"order_id"`
	MenuItemID int64           `gorm:"column:menuitem_id;not null;uniqueIndex:idx_order_items_order_menuitem" json:"menuitem_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
}
