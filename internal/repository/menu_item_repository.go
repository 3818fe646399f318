package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

// 一覧検索（price__gt / price__lt / featured / search）
type MenuItemListQuery struct {
	Search   string // 商品タイトル＋カテゴリタイトルの部分一致
	PriceGT  *decimal.Decimal
	PriceLT  *decimal.Decimal
	Featured *bool
}

type MenuItemRepository interface {
	List(ctx context.Context, q MenuItemListQuery) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)

	Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	Update(ctx context.Context, item model.MenuItem) error
	// Deleteは参照するOrderItemも一緒に消す（カート参照はusecaseで先に弾く）
	Delete(ctx context.Context, id int64) error

	// カテゴリ削除ガード用
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
}
