package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 403の決まり文句
const PermissionDeniedDetail = "You do not have permission to perform this action."

// CatalogUsecase はカテゴリと商品の業務ロジックです。
type CatalogUsecase struct {
	categoryRepo repo.CategoryRepository
	menuItemRepo repo.MenuItemRepository
	cartRepo     repo.CartRepository
	authority    *RoleAuthority
}

// DI
func NewCatalogUsecase(
	categoryRepo repo.CategoryRepository,
	menuItemRepo repo.MenuItemRepository,
	cartRepo repo.CartRepository,
	authority *RoleAuthority,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
		cartRepo:     cartRepo,
		authority:    authority,
	}
}

type CategoryInput struct {
	Title string
	Slug  string
}

type MenuItemInput struct {
	Title      string
	Price      decimal.Decimal
	Featured   bool
	CategoryID int64
}

// PATCH用の部分更新フォーム（nilは据え置き）
type MenuItemUpdateInput struct {
	Title      *string
	Price      *decimal.Decimal
	Featured   *bool
	CategoryID *int64
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 作成はManagerかsuperuser（superuser特例はここだけ）
func (u *CatalogUsecase) CreateCategory(ctx context.Context, callerID int64, in CategoryInput) (model.Category, error) {
	allowed, err := u.authority.IsManagerOrSuperuser(ctx, callerID)
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !allowed {
		return model.Category{}, NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	// slugは無ければタイトルから作る（以後再計算しない）
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = model.Slugify(title)
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{Title: title, Slug: slug})
	if err != nil {
		// 一意制約違反はBad-Requestへ寄せる
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category already exists")
	}
	return created, nil
}

// タイトルだけ更新する。slugは作成時のまま（意図した据え置き）。
func (u *CatalogUsecase) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	c.Title = title
	if err := u.categoryRepo.Update(ctx, c); err != nil {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Category already exists")
	}
	return c, nil
}

func (u *CatalogUsecase) DeleteCategory(ctx context.Context, callerID int64, id int64) error {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	// 商品から参照されている間は消せない
	count, err := u.menuItemRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return NewHTTPError(http.StatusBadRequest, "Category is referenced by menu items")
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) ListMenuItems(ctx context.Context, q repo.MenuItemListQuery) ([]model.MenuItem, error) {
	items, err := u.menuItemRepo.List(ctx, q)
	if err != nil {
		return []model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CatalogUsecase) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	item, err := u.menuItemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

func (u *CatalogUsecase) CreateMenuItem(ctx context.Context, callerID int64, in MenuItemInput) (model.MenuItem, error) {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return model.MenuItem{}, NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	if !validPrice(in.Price) {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Price must be a positive amount with at most 2 decimal places")
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
		}
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.menuItemRepo.Create(ctx, model.MenuItem{
		Title:      title,
		Price:      in.Price,
		Featured:   in.Featured,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// ReplaceMenuItem は全フィールド必須のフル更新（PUT）。
// 欠けたフィールドを黙って据え置きにはしない。
func (u *CatalogUsecase) ReplaceMenuItem(ctx context.Context, callerID int64, id int64, in MenuItemInput) (model.MenuItem, error) {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return model.MenuItem{}, NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	item, err := u.menuItemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	if !validPrice(in.Price) {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Price must be a positive amount with at most 2 decimal places")
	}
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
		}
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item.Title = title
	item.Price = in.Price
	item.Featured = in.Featured
	item.CategoryID = in.CategoryID

	if err := u.menuItemRepo.Update(ctx, item); err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.GetMenuItem(ctx, id)
}

func (u *CatalogUsecase) UpdateMenuItem(ctx context.Context, callerID int64, id int64, in MenuItemUpdateInput) (model.MenuItem, error) {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return model.MenuItem{}, NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	item, err := u.menuItemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Title is required")
		}
		item.Title = title
	}
	if in.Price != nil {
		if !validPrice(*in.Price) {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Price must be a positive amount with at most 2 decimal places")
		}
		item.Price = *in.Price
	}
	if in.Featured != nil {
		item.Featured = *in.Featured
	}
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
			}
			return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		item.CategoryID = *in.CategoryID
	}

	if err := u.menuItemRepo.Update(ctx, item); err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.GetMenuItem(ctx, id)
}

func (u *CatalogUsecase) DeleteMenuItem(ctx context.Context, callerID int64, id int64) error {
	isManager, err := u.authority.IsManager(ctx, callerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !isManager {
		return NewHTTPError(http.StatusForbidden, PermissionDeniedDetail)
	}

	// カートに入っている間は消せない（注文明細は一緒に消える）
	count, err := u.cartRepo.CountByMenuItemID(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return NewHTTPError(http.StatusBadRequest, "Menu item is referenced by cart lines")
	}

	if err := u.menuItemRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 正の値で小数2桁まで
func validPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Exponent() >= -2
}
