package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は必ず呼び出しユーザーのものだけを見る（リクエストのuser指定は信用しない）。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	menuItemRepo repo.MenuItemRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	menuItemRepo repo.MenuItemRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		menuItemRepo: menuItemRepo,
	}
}

// quantityは数値チェックをこちらでやるため文字列のまま受ける。
// 未指定は1扱い。
type AddCartInput struct {
	MenuItemID int64
	Quantity   string
}

func (u *CartUsecase) ListCart(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []model.CartLine{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return lines, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 戻り値のcreatedがtrueなら201、falseなら200を返す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (model.CartLine, bool, error) {
	if in.MenuItemID <= 0 {
		return model.CartLine{}, false, NewHTTPError(http.StatusBadRequest, "Menu item is required")
	}

	item, err := u.menuItemRepo.FindByID(ctx, in.MenuItemID)
	if err == repo.ErrNotFound {
		return model.CartLine{}, false, NewHTTPError(http.StatusNotFound, "The menu item you are looking for does not exist")
	}
	if err != nil {
		return model.CartLine{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	qtyStr := strings.TrimSpace(in.Quantity)
	if qtyStr == "" {
		qtyStr = "1"
	}
	qty, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil {
		return model.CartLine{}, false, NewHTTPError(http.StatusBadRequest, "Quantity must be a number")
	}
	if qty < 1 {
		return model.CartLine{}, false, NewHTTPError(http.StatusBadRequest, "Must be at least 1 item to add to cart")
	}

	// unit_priceは追加時点の商品価格を写す
	line, created, err := u.cartRepo.Upsert(ctx, userID, item.ID, qty, item.Price)
	if err != nil {
		return model.CartLine{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return line, created, nil
}

// ClearCart は自分の明細を全削除する。空でも204。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if err := u.cartRepo.ClearByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
