package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order

	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListAll(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	return r.list(ctx, r.db.WithContext(ctx), f)
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.list(ctx, q, f)
}

func (r *OrderGormRepository) ListByDeliveryCrewID(ctx context.Context, crewID int64, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("delivery_crew_id = ?", crewID)
	return r.list(ctx, q, f)
}

func (r *OrderGormRepository) list(_ context.Context, q *gorm.DB, f repo.OrderListFilter) ([]model.Order, error) {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var orders []model.Order
	if err := q.Order("id asc").Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// statusとdelivery_crewだけ更新する（user/totalは作成後不変）
func (r *OrderGormRepository) Update(ctx context.Context, order model.Order) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":           order.Status,
			"delivery_crew_id": order.DeliveryCrewID,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文は明細ごと消す
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o model.Order
		if err := tx.Where("id = ?", orderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Order{}, orderID).Error
	})
}
