package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/Expenditious/qac-system/internal/config"
	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/Expenditious/qac-system/internal/qac/testutil"
)

func setupAuthTest(t *testing.T) (*AuthService, *repository.Repositories) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "qac-system"
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour

	// Refresh-token bookkeeping is fire-and-forget on login, so a dead
	// address is fine here.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { rdb.Close() })

	return NewAuthService(repos.User, rdb, cfg), repos
}

func seedLoginUser(t *testing.T, repos *repository.Repositories, username, password string, active bool) *entity.User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &entity.User{
		ID:           testutil.NewID(),
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test " + username,
		Role:         entity.RoleInspector,
		IsActive:     active,
	}
	if err := repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repos := setupAuthTest(t)
	seedLoginUser(t, repos, "inspector1", "secret123", true)

	user, pair, err := svc.Login(context.Background(), "inspector1", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "inspector1" {
		t.Errorf("username = %q", user.Username)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}
	if pair.ExpiresIn != int64((2 * time.Hour).Seconds()) {
		t.Errorf("expires_in = %d", pair.ExpiresIn)
	}

	// The access token must carry the signed identity claims.
	token, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["name"] != "inspector1" || claims["role"] != entity.RoleInspector || claims["type"] != "access" {
		t.Errorf("claims = %v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repos := setupAuthTest(t)
	seedLoginUser(t, repos, "inspector1", "secret123", true)

	_, _, err := svc.Login(context.Background(), "inspector1", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := setupAuthTest(t)

	// Unknown users and wrong passwords are indistinguishable to the caller.
	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, repos := setupAuthTest(t)
	seedLoginUser(t, repos, "former", "secret123", false)

	_, _, err := svc.Login(context.Background(), "former", "secret123")
	if err == nil {
		t.Fatal("disabled account logged in")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("disabled account should not report bad credentials")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")) != nil {
		t.Error("hash does not verify against original password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("other")) == nil {
		t.Error("hash verifies against a different password")
	}
}
