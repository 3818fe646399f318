package repository

import (
	"context"
	"errors"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カテゴリの永続化（保存・取得）だけを約束。
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
