package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/dmt/internal/config"
	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
	"github.com/bitfantasy/dmt/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 用户名或密码错误，对外不区分两者
var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	User        entity.Principal `json:"user"`
}

// AuthService 登录认证
type AuthService struct {
	users UserStore
	jwt   config.JWTConfig
}

func NewAuthService(users UserStore, jwt config.JWTConfig) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login 校验口令并签发JWT
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expire := s.jwt.AccessTokenExpire
	if expire <= 0 {
		expire = 30 * time.Minute
	}

	claims := middleware.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.FullName,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(expire.Seconds()),
		User: entity.Principal{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		},
	}, nil
}
