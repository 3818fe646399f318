package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/config"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/middleware"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/usecase"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// quantityは「数値じゃない」を区別したいので生のまま受けてusecaseに渡す
type AddCartRequest struct {
	MenuItem json.RawMessage `json:"menuitem"`
	Quantity json.RawMessage `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.add)
	g.DELETE("", h.clear)
}

func (h *CartHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})
	}

	out, err := h.uc.ListCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	menuItemID, err := strconv.ParseInt(rawToString(req.MenuItem), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Menu item is required"})
	}

	line, created, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddCartInput{
		MenuItemID: menuItemID,
		Quantity:   rawToString(req.Quantity),
	})
	if err != nil {
		return writeError(c, err)
	}

	// 新規行なら201、数量加算なら200
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, line)
}

// 空でも204（冪等）
func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// "5"も5も同じ扱いにする
func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
