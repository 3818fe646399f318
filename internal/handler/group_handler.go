package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/config"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/middleware"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/usecase"
)

// /groups/{name}/usersのHTTP
type GroupHandler struct {
	uc *usecase.GroupUsecase
}

// DI
func NewGroupHandler(uc *usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

type AddGroupMemberRequest struct {
	User json.RawMessage `json:"user"`
}

// グループ管理は全部Manager限定（自己昇格はできない）
func (h *GroupHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, roles repository.RoleRepository) {
	g := e.Group("/groups")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ManagerRoleGuard(roles))

	g.GET("/:group_name/users", h.list)
	g.POST("/:group_name/users", h.add)
	g.DELETE("/:group_name/users/:id", h.remove)
}

func (h *GroupHandler) list(c echo.Context) error {
	out, err := h.uc.ListMembers(c.Request().Context(), c.Param("group_name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GroupHandler) add(c echo.Context) error {
	var req AddGroupMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	targetID, err := strconv.ParseInt(rawToString(req.User), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "User is required"})
	}

	res, err := h.uc.AddMember(c.Request().Context(), c.Param("group_name"), targetID)
	if err != nil {
		return writeError(c, err)
	}

	// 既存メンバーなら200、追加したら201
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, DetailResponse{Detail: res.Detail})
}

func (h *GroupHandler) remove(c echo.Context) error {
	targetID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid id"})
	}

	detail, err := h.uc.RemoveMember(c.Request().Context(), c.Param("group_name"), targetID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DetailResponse{Detail: detail})
}
