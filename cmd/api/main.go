package main

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/config"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/handler"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/infra/db"
	infraRepo "github.com/sunnwydays/LittleLemonRestaurant/internal/infra/repository"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/server"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserRole{},
		&model.RefreshToken{},
		&model.Category{},
		&model.MenuItem{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	menuItemRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}
	refreshTTL := 14 * 24 * time.Hour

	authority := usecase.NewRoleAuthority(roleRepo, userRepo)
	crewSelector := usecase.NewRandomCrewSelector()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, rtRepo, hasher, verifier, issuer, idGen, clock, refreshTTL)
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, menuItemRepo, cartRepo, authority)
	cartUC := usecase.NewCartUsecase(cartRepo, menuItemRepo)
	orderUC := usecase.NewOrderUsecase(txManager, authority, crewSelector)
	groupUC := usecase.NewGroupUsecase(userRepo, roleRepo)

	//Handler生成とルート登録
	e := server.New()

	handler.NewAuthHandler(authUC).RegisterRoutes(e)
	handler.NewCategoryHandler(catalogUC).RegisterRoutes(e, cfg)
	handler.NewMenuItemHandler(catalogUC).RegisterRoutes(e, cfg)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg)
	handler.NewGroupHandler(groupUC).RegisterRoutes(e, cfg, roleRepo)

	//Server起動
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		panic(err)
	}
}
