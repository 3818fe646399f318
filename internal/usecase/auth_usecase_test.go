package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
	repo "github.com/sunnwydays/LittleLemonRestaurant/internal/repository"
	"github.com/sunnwydays/LittleLemonRestaurant/internal/usecase"
)

// bcryptは遅いのでテストはスタブで回す
type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type stubVerifier struct{ ok bool }

func (s stubVerifier) Verify(plain string, hashed string) bool { return s.ok }

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	return "access-token", now.Add(15 * time.Minute), nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

func newAuthUsecase(users *UserRepoMock, tokens *RefreshTokenRepoMock, verifierOK bool, now time.Time) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(
		users,
		tokens,
		stubHasher{},
		stubVerifier{ok: verifierOK},
		stubIssuer{},
		fixedIDGen{id: "refresh-1"},
		fixedClock{t: now},
		14*24*time.Hour,
	)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)

	users.On("FindByUsername", ctx, "taro").Return(nil, repo.ErrUserNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		// 平文はどこにも残さない
		return u.Username == "taro" && u.PasswordHash == "hashed:password123"
	})).Return(nil)

	uc := newAuthUsecase(users, tokens, true, time.Now())

	user, err := uc.Register(ctx, usecase.RegisterInput{
		Username: "taro",
		Email:    "taro@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "taro", user.Username)
	users.AssertExpectations(t)
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)

	uc := newAuthUsecase(users, new(RefreshTokenRepoMock), true, time.Now())

	_, err := uc.Register(ctx, usecase.RegisterInput{Username: "taro", Password: "short"})

	assertHTTPError(t, err, http.StatusBadRequest, "Password must be at least 8 characters")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)

	users.On("FindByUsername", ctx, "taro").Return(&model.User{ID: 1, Username: "taro"}, nil)

	uc := newAuthUsecase(users, new(RefreshTokenRepoMock), true, time.Now())

	_, err := uc.Register(ctx, usecase.RegisterInput{Username: "taro", Password: "password123"})

	assertHTTPError(t, err, http.StatusBadRequest, "Username already taken")
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	users.On("FindByUsername", ctx, "taro").Return(&model.User{ID: 1, Username: "taro", PasswordHash: "hashed:password123"}, nil)
	tokens.On("Create", ctx, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 1 && rt.Token == "refresh-1" && rt.ExpiresAt.Equal(now.Add(14*24*time.Hour))
	})).Return(nil)

	uc := newAuthUsecase(users, tokens, true, now)

	out, err := uc.Login(ctx, usecase.LoginInput{Username: "taro", Password: "password123"})

	assert.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, 900, out.ExpiresIn)
	assert.Equal(t, "refresh-1", out.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)

	users.On("FindByUsername", ctx, "taro").Return(&model.User{ID: 1, PasswordHash: "hashed:other"}, nil)

	uc := newAuthUsecase(users, tokens, false, time.Now())

	_, err := uc.Login(ctx, usecase.LoginInput{Username: "taro", Password: "wrong"})

	assertHTTPError(t, err, http.StatusUnauthorized, "Invalid credentials")
	tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)

	users.On("FindByUsername", ctx, "nobody").Return(nil, repo.ErrUserNotFound)

	uc := newAuthUsecase(users, new(RefreshTokenRepoMock), true, time.Now())

	_, err := uc.Login(ctx, usecase.LoginInput{Username: "nobody", Password: "password123"})

	assertHTTPError(t, err, http.StatusUnauthorized, "Invalid credentials")
}

func TestAuthUsecase_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tokens.On("FindByToken", ctx, "refresh-1").Return(&model.RefreshToken{
		UserID:    1,
		Token:     "refresh-1",
		ExpiresAt: now.Add(time.Hour),
	}, nil)

	uc := newAuthUsecase(users, tokens, true, now)

	out, err := uc.Refresh(ctx, "refresh-1")

	assert.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, "refresh-1", out.RefreshToken)
}

func TestAuthUsecase_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	tokens := new(RefreshTokenRepoMock)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tokens.On("FindByToken", ctx, "refresh-1").Return(&model.RefreshToken{
		UserID:    1,
		Token:     "refresh-1",
		ExpiresAt: now.Add(-time.Minute),
	}, nil)
	// 期限切れトークンは掃除する
	tokens.On("DeleteByToken", ctx, "refresh-1").Return(nil)

	uc := newAuthUsecase(new(UserRepoMock), tokens, true, now)

	_, err := uc.Refresh(ctx, "refresh-1")

	assertHTTPError(t, err, http.StatusUnauthorized, "Refresh token expired")
	tokens.AssertExpectations(t)
}

func TestAuthUsecase_Refresh_UnknownToken(t *testing.T) {
	ctx := context.Background()
	tokens := new(RefreshTokenRepoMock)

	tokens.On("FindByToken", ctx, "bogus").Return(nil, repo.ErrNotFound)

	uc := newAuthUsecase(new(UserRepoMock), tokens, true, time.Now())

	_, err := uc.Refresh(ctx, "bogus")

	assertHTTPError(t, err, http.StatusUnauthorized, "Invalid refresh token")
}
