package model

// ユーザーとロールの所属関係。
// 1ユーザーはManager/Delivery crewのどちらか一方まで（usecase側で担保）。
type UserRole struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
}
