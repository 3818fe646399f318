package repository

import (
	"context"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

type OrderListFilter struct {
	Status *model.OrderStatus
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 一覧はロールごとに見える範囲が違う
	ListAll(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	ListByUserID(ctx context.Context, userID int64, f OrderListFilter) ([]model.Order, error)
	ListByDeliveryCrewID(ctx context.Context, crewID int64, f OrderListFilter) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	Update(ctx context.Context, order model.Order) error
	// Deleteは明細ごと消す
	Delete(ctx context.Context, orderID int64) error
}
