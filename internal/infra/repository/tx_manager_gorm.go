package repository

import (
	"context"

	"gorm.io/gorm"

	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartLines  repo.CartRepository
	roles      repo.RoleRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) CartLines() repo.CartRepository       { return r.cartLines }
func (r *txReposGorm) Roles() repo.RoleRepository           { return r.roles }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			cartLines:  NewCartGormRepository(tx),
			roles:      NewRoleGormRepository(tx),
		}
		return fn(r)
	})
}
