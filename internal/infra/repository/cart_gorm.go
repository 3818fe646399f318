package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// 同一(user, menuitem)は数量加算。priceは毎回quantity*unit_priceで計算し直す。
func (r *CartGormRepository) Upsert(ctx context.Context, userID int64, menuItemID int64, addQty int64, unitPrice decimal.Decimal) (model.CartLine, bool, error) {
	if addQty <= 0 {
		return model.CartLine{}, false, errors.New("invalid quantity")
	}

	var out model.CartLine
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line model.CartLine

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND menuitem_id = ?", userID, menuItemID).
			First(&line).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			line.AddQuantity(addQty)

			res := tx.Model(&model.CartLine{}).
				Where("id = ?", line.ID).
				Updates(map[string]interface{}{
					"quantity": line.Quantity,
					"price":    line.Price,
				})

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}

			out = line
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newLine := model.NewCartLine(userID, menuItemID, addQty, unitPrice)
		newLine.CreatedAt = now
		newLine.UpdatedAt = now

		if err := tx.Create(&newLine).Error; err != nil {
			return err
		}

		out = newLine
		created = true
		return nil
	})

	if err != nil {
		return model.CartLine{}, false, err
	}
	return out, created, nil
}

// ユーザーの明細を全削除（空でも成功）
func (r *CartGormRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{}).Error
}

func (r *CartGormRepository) CountByMenuItemID(ctx context.Context, menuItemID int64) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("menuitem_id = ?", menuItemID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}
