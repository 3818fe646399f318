package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type MenuItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuItemGormRepository(db *gorm.DB) *MenuItemGormRepository {
	return &MenuItemGormRepository{db: db}
}

func (r *MenuItemGormRepository) List(ctx context.Context, q repo.MenuItemListQuery) ([]model.MenuItem, error) {
	query := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Joins("Category")

	if q.PriceGT != nil {
		query = query.Where("menu_items.price > ?", *q.PriceGT)
	}
	if q.PriceLT != nil {
		query = query.Where("menu_items.price < ?", *q.PriceLT)
	}
	if q.Featured != nil {
		query = query.Where("menu_items.featured = ?", *q.Featured)
	}
	if q.Search != "" {
		// 商品タイトルとカテゴリタイトルの両方を見る
		pattern := "%" + q.Search + "%"
		query = query.Where(
			`menu_items.title ILIKE ? OR "Category".title ILIKE ?`,
			pattern, pattern,
		)
	}

	var items []model.MenuItem
	if err := query.Order("menu_items.id asc").Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}

	return items, nil
}

func (r *MenuItemGormRepository) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	var item model.MenuItem

	err := r.db.WithContext(ctx).
		Joins("Category").
		Where("menu_items.id = ?", id).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (r *MenuItemGormRepository) Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.MenuItem{}, err
	}
	return r.FindByID(ctx, item.ID)
}

func (r *MenuItemGormRepository) Update(ctx context.Context, item model.MenuItem) error {
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"title":       item.Title,
			"price":       item.Price,
			"featured":    item.Featured,
			"category_id": item.CategoryID,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 履歴（order_items）は商品と一緒に消す
func (r *MenuItemGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.MenuItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		if err := tx.Where("menuitem_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.MenuItem{}, id).Error
	})
}

func (r *MenuItemGormRepository) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}
