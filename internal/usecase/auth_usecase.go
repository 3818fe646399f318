package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// bcryptハッシュと平文を比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type AuthUsecase struct {
	users         repo.UserRepository
	refreshTokens repo.RefreshTokenRepository
	hasher        PasswordHasher
	verifier      PasswordVerifier
	issuer        AccessTokenIssuer
	idGen         IDGenerator
	clock         Clock
	refreshTTL    time.Duration
}

// DI
func NewAuthUsecase(
	users repo.UserRepository,
	refreshTokens repo.RefreshTokenRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		refreshTokens: refreshTokens,
		hasher:        hasher,
		verifier:      verifier,
		issuer:        issuer,
		idGen:         idGen,
		clock:         clock,
		refreshTTL:    refreshTTL,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type TokenOutput struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "Username is required")
	}
	if len(in.Password) < 8 {
		return nil, NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	// username重複チェック
	existing, err := u.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "Username already taken")
	}
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hashed, // 平文は保存しない
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return user, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (TokenOutput, error) {
	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	now := u.clock.Now()
	access, expiresAt, err := u.issuer.Issue(user.ID, now)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	refresh := u.idGen.NewID()
	if err := u.refreshTokens.Create(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(u.refreshTTL),
	}); err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TokenOutput{
		AccessToken:  access,
		ExpiresIn:    int(expiresAt.Sub(now).Seconds()),
		RefreshToken: refresh,
	}, nil
}

func (u *AuthUsecase) Refresh(ctx context.Context, token string) (TokenOutput, error) {
	rt, err := u.refreshTokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	if now.After(rt.ExpiresAt) {
		_ = u.refreshTokens.DeleteByToken(ctx, token)
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "Refresh token expired")
	}

	access, expiresAt, err := u.issuer.Issue(rt.UserID, now)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return TokenOutput{
		AccessToken:  access,
		ExpiresIn:    int(expiresAt.Sub(now).Seconds()),
		RefreshToken: token,
	}, nil
}
