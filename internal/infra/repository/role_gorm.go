package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type RoleGormRepository struct {
	db *gorm.DB
}

// DI
func NewRoleGormRepository(db *gorm.DB) *RoleGormRepository {
	return &RoleGormRepository{db: db}
}

func (r *RoleGormRepository) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RoleGormRepository) ListMembers(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User

	err := r.db.WithContext(ctx).
		Table("users").
		Joins("join user_roles on user_roles.user_id = users.id").
		Where("user_roles.role = ?", role).
		Order("users.id asc").
		Find(&users).Error

	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}

// 既に所属していても成功（重複行は作らない）
func (r *RoleGormRepository) Add(ctx context.Context, userID int64, role string) error {
	row := model.UserRole{UserID: userID, Role: role}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *RoleGormRepository) Remove(ctx context.Context, userID int64, role string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&model.UserRole{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
