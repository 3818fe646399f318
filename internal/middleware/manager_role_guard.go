package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// ManagerRoleGuard はManagerロール保持者だけ通す。
// グループ管理エンドポイントの前段に置く（自己昇格はできない）。
func ManagerRoleGuard(roles repository.RoleRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Get(CtxUserIDKey)
			userID, ok := rawID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			isManager, err := roles.HasRole(c.Request().Context(), userID, model.RoleManager)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			if !isManager {
				return c.JSON(http.StatusForbidden, errorJSON("You do not have permission to perform this action."))
			}

			return next(c)
		}
	}
}
