package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// OrderUsecase は注文のライフサイクル（checkout〜Delivered）を扱う。
type OrderUsecase struct {
	tx        repo.TransactionManager
	authority *RoleAuthority
	crew      CrewSelector
}

// DI
func NewOrderUsecase(tx repo.TransactionManager, authority *RoleAuthority, crew CrewSelector) *OrderUsecase {
	return &OrderUsecase{tx: tx, authority: authority, crew: crew}
}

type OrderItemOutput struct {
	MenuItemID int64           `json:"menuitem"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Price      decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user"`
	DeliveryCrew *int64            `json:"delivery_crew"`
	Status       int               `json:"status"`
	Total        decimal.Decimal   `json:"total"`
	Date         time.Time         `json:"date"`
	Items        []OrderItemOutput `json:"items"`
}

// PATCH/PUTの入力（nilは未指定）
type UpdateOrderInput struct {
	DeliveryCrewID *int64
	Status         *int
}

// Checkout はカートを注文に変換する。
// 注文作成・明細コピー・カート全削除は1トランザクションで行い、
// 途中で失敗したら何も残さない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.CartLines().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}

		// totalは保存済みの行合計の和。以後再計算しない。
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Price)
		}

		// 担当は現時点のDelivery crew全員から選ぶ。書き込みより先に確認する。
		crewMembers, err := r.Roles().ListMembers(ctx, model.RoleDeliveryCrew)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(crewMembers) == 0 {
			return NewHTTPError(http.StatusBadRequest, "No delivery crew available")
		}
		assignee := u.crew.Choose(crewMembers)
		crewID := assignee.ID

		now := time.Now()
		order := model.Order{
			UserID:         userID,
			DeliveryCrewID: &crewID,
			Status:         model.OrderStatusPending,
			Total:          total,
			Date:           now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, model.OrderItem{
				MenuItemID: l.MenuItemID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Price:      l.Price,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.CartLines().ClearByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 一覧はロールで見える範囲が変わる：
// Managerは全件、Delivery crewは担当分、それ以外は自分の注文。
func (u *OrderUsecase) ListOrders(ctx context.Context, callerID int64, f repo.OrderListFilter) ([]OrderOutput, error) {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	isCrew := false
	if !isManager {
		isCrew, err = u.authority.IsDeliveryCrew(ctx, callerID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	var outs []OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var orders []model.Order
		var listErr error

		switch {
		case isManager:
			orders, listErr = r.Orders().ListAll(ctx, f)
		case isCrew:
			orders, listErr = r.Orders().ListByDeliveryCrewID(ctx, callerID, f)
		default:
			orders, listErr = r.Orders().ListByUserID(ctx, callerID, f)
		}
		if listErr != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 単件取得は購入者本人だけ。Manager/Delivery crewでも他人の注文は403
//（一覧とは非対称だが仕様どおり）。
func (u *OrderUsecase) GetOrder(ctx context.Context, callerID int64, orderID int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != callerID {
			return NewHTTPError(http.StatusForbidden, "This is not your order")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// PartialUpdateOrder は優先順で分岐する：
//  1. Manager: delivery_crewとstatusのどちらか以上が必須
//  2. Delivery crew: statusのみ（他のフィールドは黙って無視）
//  3. 購入者本人: 編集可能フィールドの部分更新
//  4. それ以外: 403
func (u *OrderUsecase) PartialUpdateOrder(ctx context.Context, callerID int64, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	isCrew := false
	if !isManager {
		isCrew, err = u.authority.IsDeliveryCrew(ctx, callerID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		switch {
		case isManager:
			if in.DeliveryCrewID == nil && in.Status == nil {
				return NewHTTPError(http.StatusBadRequest, "Please update the delivery crew or status.")
			}
			if err := applyOrderUpdate(ctx, r, &o, in); err != nil {
				return err
			}

		case isCrew:
			if in.Status == nil {
				return NewHTTPError(http.StatusBadRequest, "Please update the status.")
			}
			// statusだけ適用する
			statusOnly := UpdateOrderInput{Status: in.Status}
			if err := applyOrderUpdate(ctx, r, &o, statusOnly); err != nil {
				return err
			}

		case o.UserID == callerID:
			if err := applyOrderUpdate(ctx, r, &o, in); err != nil {
				return err
			}

		default:
			return NewHTTPError(http.StatusForbidden, "This is not your order")
		}

		if err := r.Orders().Update(ctx, o); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// フル更新（PUT）は購入者本人の一般更新だけ。Manager/Delivery crewの
// 特例分岐はPATCH側にしかない（仕様どおりの非対称）。
func (u *OrderUsecase) UpdateOrder(ctx context.Context, callerID int64, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != callerID {
			return NewHTTPError(http.StatusForbidden, "This is not your order")
		}

		if err := applyOrderUpdate(ctx, r, &o, in); err != nil {
			return err
		}

		if err := r.Orders().Update(ctx, o); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) DeleteOrder(ctx context.Context, callerID int64, orderID int64) error {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 編集可能なのはstatusとdelivery_crewだけ（user/totalは不変）。
func applyOrderUpdate(ctx context.Context, r repo.TxRepos, o *model.Order, in UpdateOrderInput) error {
	if in.Status != nil {
		s := *in.Status
		if s != int(model.OrderStatusPending) && s != int(model.OrderStatusDelivered) {
			return NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		o.Status = model.OrderStatus(s)
	}

	if in.DeliveryCrewID != nil {
		// 担当はDelivery crewロール保持者に限る
		has, err := r.Roles().HasRole(ctx, *in.DeliveryCrewID, model.RoleDeliveryCrew)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !has {
			return NewHTTPError(http.StatusBadRequest, "Invalid delivery crew")
		}
		o.DeliveryCrewID = in.DeliveryCrewID
	}

	return nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Price:      it.Price,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		DeliveryCrew: o.DeliveryCrewID,
		Status:       int(o.Status),
		Total:        o.Total,
		Date:         o.Date,
		Items:        outItems,
	}
}
