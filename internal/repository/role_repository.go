package repository

import (
	"context"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

// ロール所属の読み書き。排他制御（Manager/Delivery crewの同時所属禁止）は
// usecase側で担保する。
type RoleRepository interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
	ListMembers(ctx context.Context, role string) ([]model.User, error)

	Add(ctx context.Context, userID int64, role string) error
	// 所属していなければErrNotFound
	Remove(ctx context.Context, userID int64, role string) error
}
