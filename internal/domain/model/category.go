package model

import (
	"strings"
)

type Category struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title string `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
}

// Slugify はタイトルからslugを作る。作成時に一度だけ使い、
// タイトル変更時に再計算はしない。
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingDash = true
		}
	}

	return b.String()
}
