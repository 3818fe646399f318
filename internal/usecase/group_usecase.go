package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// GroupUsecase はManager/Delivery crewの所属管理。
// 同時所属は許さない：片方に入れたらもう片方から外す。
// 呼び出し側がManagerであることはmiddlewareで確認済み。
type GroupUsecase struct {
	users repo.UserRepository
	roles repo.RoleRepository
}

// DI
func NewGroupUsecase(users repo.UserRepository, roles repo.RoleRepository) *GroupUsecase {
	return &GroupUsecase{users: users, roles: roles}
}

// URLのgroup_nameとロール名の対応
func groupRole(groupName string) (string, bool) {
	switch groupName {
	case "manager":
		return model.RoleManager, true
	case "delivery-crew":
		return model.RoleDeliveryCrew, true
	}
	return "", false
}

type GroupMemberResult struct {
	Created bool
	Detail  string
}

func (u *GroupUsecase) ListMembers(ctx context.Context, groupName string) ([]model.User, error) {
	role, ok := groupRole(groupName)
	if !ok {
		return []model.User{}, NewHTTPError(http.StatusNotFound, "You can only list delivery-crew or manager groups.")
	}

	members, err := u.roles.ListMembers(ctx, role)
	if err != nil {
		return []model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return members, nil
}

// AddMember は既に所属していれば200（エラーにしない）、
// 追加したら201。もう片方のロールを持っていたら外す。
func (u *GroupUsecase) AddMember(ctx context.Context, groupName string, targetUserID int64) (GroupMemberResult, error) {
	role, ok := groupRole(groupName)
	if !ok {
		return GroupMemberResult{}, NewHTTPError(http.StatusNotFound, "You can only add user to delivery-crew or manager groups.")
	}

	if _, err := u.users.FindByID(ctx, targetUserID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return GroupMemberResult{}, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return GroupMemberResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	has, err := u.roles.HasRole(ctx, targetUserID, role)
	if err != nil {
		return GroupMemberResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if has {
		if role == model.RoleManager {
			return GroupMemberResult{Created: false, Detail: "User is already manager"}, nil
		}
		return GroupMemberResult{Created: false, Detail: "User is already in delivery crew"}, nil
	}

	if err := u.roles.Add(ctx, targetUserID, role); err != nil {
		return GroupMemberResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 排他：もう片方から外す（元々無ければ何もしない）
	other := model.RoleDeliveryCrew
	if role == model.RoleDeliveryCrew {
		other = model.RoleManager
	}
	if err := u.roles.Remove(ctx, targetUserID, other); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return GroupMemberResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if role == model.RoleManager {
		return GroupMemberResult{Created: true, Detail: "User added to manager group"}, nil
	}
	return GroupMemberResult{Created: true, Detail: "User added to delivery crew"}, nil
}

func (u *GroupUsecase) RemoveMember(ctx context.Context, groupName string, targetUserID int64) (string, error) {
	role, ok := groupRole(groupName)
	if !ok {
		return "", NewHTTPError(http.StatusNotFound, "You can only remove user from delivery-crew or manager groups.")
	}

	if err := u.roles.Remove(ctx, targetUserID, role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if role == model.RoleManager {
				return "", NewHTTPError(http.StatusNotFound, "User is not manager")
			}
			return "", NewHTTPError(http.StatusNotFound, "User is not in delivery crew")
		}
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if role == model.RoleManager {
		return "User removed from manager group", nil
	}
	return "User removed from delivery crew", nil
}
