package model

import "time"

const (
	RoleManager      = "Manager"
	RoleDeliveryCrew = "Delivery crew"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	// カテゴリ作成だけManager扱いになる（それ以外では見ない）
	IsSuperuser bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
