package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/usecase"
)

func newCatalogUsecase(categoryRepo *CategoryRepoMock, menuItemRepo *MenuItemRepoMock, cartRepo *CartRepoMock, roles *RoleRepoMock, users *UserRepoMock) *usecase.CatalogUsecase {
	authority := usecase.NewRoleAuthority(roles, users)
	return usecase.NewCatalogUsecase(categoryRepo, menuItemRepo, cartRepo, authority)
}

func TestCatalogUsecase_CreateCategory_DerivesSlug(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	roles := new(RoleRepoMock)
	users := new(UserRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	categoryRepo.On("Create", ctx, mock.MatchedBy(func(c model.Category) bool {
		return c.Title == "Main Dishes" && c.Slug == "main-dishes"
	})).Return(model.Category{ID: 1, Title: "Main Dishes", Slug: "main-dishes"}, nil)

	uc := newCatalogUsecase(categoryRepo, new(MenuItemRepoMock), new(CartRepoMock), roles, users)

	created, err := uc.CreateCategory(ctx, 1, usecase.CategoryInput{Title: "Main Dishes"})

	assert.NoError(t, err)
	assert.Equal(t, "main-dishes", created.Slug)
	categoryRepo.AssertExpectations(t)
}

func TestCatalogUsecase_CreateCategory_SuperuserAllowed(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	roles := new(RoleRepoMock)
	users := new(UserRepoMock)

	// Managerでなくてもsuperuserなら作れる（この操作だけの特例）
	roles.On("HasRole", ctx, int64(2), model.RoleManager).Return(false, nil)
	users.On("FindByID", ctx, int64(2)).Return(&model.User{ID: 2, IsSuperuser: true}, nil)
	categoryRepo.On("Create", ctx, mock.Anything).Return(model.Category{ID: 1, Title: "Desserts", Slug: "desserts"}, nil)

	uc := newCatalogUsecase(categoryRepo, new(MenuItemRepoMock), new(CartRepoMock), roles, users)

	_, err := uc.CreateCategory(ctx, 2, usecase.CategoryInput{Title: "Desserts"})

	assert.NoError(t, err)
}

func TestCatalogUsecase_CreateCategory_CustomerForbidden(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	roles := new(RoleRepoMock)
	users := new(UserRepoMock)

	roles.On("HasRole", ctx, int64(3), model.RoleManager).Return(false, nil)
	users.On("FindByID", ctx, int64(3)).Return(&model.User{ID: 3, IsSuperuser: false}, nil)

	uc := newCatalogUsecase(categoryRepo, new(MenuItemRepoMock), new(CartRepoMock), roles, users)

	_, err := uc.CreateCategory(ctx, 3, usecase.CategoryInput{Title: "Drinks"})

	assertHTTPError(t, err, http.StatusForbidden, usecase.PermissionDeniedDetail)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_DeleteCategory_BlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	menuItemRepo := new(MenuItemRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	menuItemRepo.On("CountByCategoryID", ctx, int64(4)).Return(int64(3), nil)

	uc := newCatalogUsecase(categoryRepo, menuItemRepo, new(CartRepoMock), roles, new(UserRepoMock))

	err := uc.DeleteCategory(ctx, 1, 4)

	assertHTTPError(t, err, http.StatusBadRequest, "Category is referenced by menu items")
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_CreateMenuItem_NonManagerForbidden(t *testing.T) {
	ctx := context.Background()
	menuItemRepo := new(MenuItemRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(3), model.RoleManager).Return(false, nil)

	uc := newCatalogUsecase(new(CategoryRepoMock), menuItemRepo, new(CartRepoMock), roles, new(UserRepoMock))

	_, err := uc.CreateMenuItem(ctx, 3, usecase.MenuItemInput{
		Title:      "Pasta",
		Price:      decimal.RequireFromString("12.00"),
		CategoryID: 1,
	})

	assertHTTPError(t, err, http.StatusForbidden, usecase.PermissionDeniedDetail)
	menuItemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_CreateMenuItem_InvalidPrice(t *testing.T) {
	ctx := context.Background()
	roles := new(RoleRepoMock)
	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)

	uc := newCatalogUsecase(new(CategoryRepoMock), new(MenuItemRepoMock), new(CartRepoMock), roles, new(UserRepoMock))

	for _, price := range []string{"-1.00", "0", "9.999"} {
		_, err := uc.CreateMenuItem(ctx, 1, usecase.MenuItemInput{
			Title:      "Pasta",
			Price:      decimal.RequireFromString(price),
			CategoryID: 1,
		})
		assertHTTPError(t, err, http.StatusBadRequest, "Price must be a positive amount with at most 2 decimal places")
	}
}

func TestCatalogUsecase_CreateMenuItem_InvalidCategory(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	categoryRepo.On("FindByID", ctx, int64(77)).Return(model.Category{}, repo.ErrNotFound)

	uc := newCatalogUsecase(categoryRepo, new(MenuItemRepoMock), new(CartRepoMock), roles, new(UserRepoMock))

	_, err := uc.CreateMenuItem(ctx, 1, usecase.MenuItemInput{
		Title:      "Pasta",
		Price:      decimal.RequireFromString("12.00"),
		CategoryID: 77,
	})

	assertHTTPError(t, err, http.StatusBadRequest, "Invalid category")
}

func TestCatalogUsecase_UpdateMenuItem_PartialFields(t *testing.T) {
	ctx := context.Background()
	menuItemRepo := new(MenuItemRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	existing := model.MenuItem{ID: 9, Title: "Pasta", Price: decimal.RequireFromString("12.00"), CategoryID: 1}
	updated := existing
	updated.Featured = true
	// 更新後に読み直すので2回引かれる
	menuItemRepo.On("FindByID", ctx, int64(9)).Return(existing, nil).Once()
	menuItemRepo.On("Update", ctx, mock.MatchedBy(func(item model.MenuItem) bool {
		return item.Featured && item.Title == "Pasta"
	})).Return(nil)
	menuItemRepo.On("FindByID", ctx, int64(9)).Return(updated, nil).Once()

	uc := newCatalogUsecase(new(CategoryRepoMock), menuItemRepo, new(CartRepoMock), roles, new(UserRepoMock))

	featured := true
	item, err := uc.UpdateMenuItem(ctx, 1, 9, usecase.MenuItemUpdateInput{Featured: &featured})

	assert.NoError(t, err)
	assert.True(t, item.Featured)
	menuItemRepo.AssertExpectations(t)
}

func TestCatalogUsecase_ReplaceMenuItem_RejectsIncompletePayload(t *testing.T) {
	ctx := context.Background()
	menuItemRepo := new(MenuItemRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	existing := model.MenuItem{ID: 9, Title: "Pasta", Price: decimal.RequireFromString("12.00"), CategoryID: 1}
	menuItemRepo.On("FindByID", ctx, int64(9)).Return(existing, nil)

	uc := newCatalogUsecase(new(CategoryRepoMock), menuItemRepo, new(CartRepoMock), roles, new(UserRepoMock))

	// フル更新でtitleが無ければ据え置きにせずエラー
	_, err := uc.ReplaceMenuItem(ctx, 1, 9, usecase.MenuItemInput{
		Price:      decimal.RequireFromString("15.00"),
		CategoryID: 1,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "Title is required")

	// priceが無ければゼロ扱いでエラー
	_, err = uc.ReplaceMenuItem(ctx, 1, 9, usecase.MenuItemInput{
		Title:      "Pasta",
		CategoryID: 1,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "Price must be a positive amount with at most 2 decimal places")

	menuItemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_ReplaceMenuItem_OverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	categoryRepo := new(CategoryRepoMock)
	menuItemRepo := new(MenuItemRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	existing := model.MenuItem{ID: 9, Title: "Pasta", Price: decimal.RequireFromString("12.00"), Featured: true, CategoryID: 1}
	replaced := model.MenuItem{ID: 9, Title: "Lasagna", Price: decimal.RequireFromString("15.00"), Featured: false, CategoryID: 2}
	menuItemRepo.On("FindByID", ctx, int64(9)).Return(existing, nil).Once()
	categoryRepo.On("FindByID", ctx, int64(2)).Return(model.Category{ID: 2}, nil)
	// featuredを送らなければfalseで上書きされる（部分更新ではない）
	menuItemRepo.On("Update", ctx, mock.MatchedBy(func(item model.MenuItem) bool {
		return item.Title == "Lasagna" && !item.Featured && item.CategoryID == 2
	})).Return(nil)
	menuItemRepo.On("FindByID", ctx, int64(9)).Return(replaced, nil).Once()

	uc := newCatalogUsecase(categoryRepo, menuItemRepo, new(CartRepoMock), roles, new(UserRepoMock))

	item, err := uc.ReplaceMenuItem(ctx, 1, 9, usecase.MenuItemInput{
		Title:      "Lasagna",
		Price:      decimal.RequireFromString("15.00"),
		CategoryID: 2,
	})

	assert.NoError(t, err)
	assert.False(t, item.Featured)
	assert.Equal(t, "Lasagna", item.Title)
	menuItemRepo.AssertExpectations(t)
}

func TestCatalogUsecase_DeleteMenuItem_BlockedWhileInCarts(t *testing.T) {
	ctx := context.Background()
	menuItemRepo := new(MenuItemRepoMock)
	cartRepo := new(CartRepoMock)
	roles := new(RoleRepoMock)

	roles.On("HasRole", ctx, int64(1), model.RoleManager).Return(true, nil)
	cartRepo.On("CountByMenuItemID", ctx, int64(9)).Return(int64(2), nil)

	uc := newCatalogUsecase(new(CategoryRepoMock), menuItemRepo, cartRepo, roles, new(UserRepoMock))

	err := uc.DeleteMenuItem(ctx, 1, 9)

	assertHTTPError(t, err, http.StatusBadRequest, "Menu item is referenced by cart lines")
	menuItemRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
