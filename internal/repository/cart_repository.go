package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)

	// 同一(user, menuitem)は数量加算してpriceを再計算。
	// 戻り値のcreatedは新規行を作ったかどうか（201/200の判定に使う）。
	Upsert(ctx context.Context, userID int64, menuItemID int64, addQty int64, unitPrice decimal.Decimal) (model.CartLine, bool, error)

	// 呼び出しユーザーの明細を全削除（空でもエラーにしない）
	ClearByUserID(ctx context.Context, userID int64) error

	// 商品削除ガード用
	CountByMenuItemID(ctx context.Context, menuItemID int64) (int64, error)
}
