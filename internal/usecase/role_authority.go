package usecase

import (
	"context"
	"errors"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// RoleAuthority は呼び出しユーザーのロール判定だけを行う。状態は変えない。
// 変更系の操作は実行前に必ずここを通す。
type RoleAuthority struct {
	roles repo.RoleRepository
	users repo.UserRepository
}

// DI
func NewRoleAuthority(roles repo.RoleRepository, users repo.UserRepository) *RoleAuthority {
	return &RoleAuthority{roles: roles, users: users}
}

func (a *RoleAuthority) IsManager(ctx context.Context, userID int64) (bool, error) {
	return a.roles.HasRole(ctx, userID, model.RoleManager)
}

func (a *RoleAuthority) IsDeliveryCrew(ctx context.Context, userID int64) (bool, error) {
	return a.roles.HasRole(ctx, userID, model.RoleDeliveryCrew)
}

// superuserをManager扱いするのはカテゴリ作成のときだけ。
func (a *RoleAuthority) IsManagerOrSuperuser(ctx context.Context, userID int64) (bool, error) {
	isManager, err := a.IsManager(ctx, userID)
	if err != nil {
		return false, err
	}
	if isManager {
		return true, nil
	}

	u, err := a.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsSuperuser, nil
}
