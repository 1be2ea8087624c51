package authenticating

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	// TokenRequired indica se as rotas do dashboard exigem token
	TokenRequired() bool
	ValidateToken(tokenString string) (*domain.Claims, error)
	IssueToken(email, role string, ttl time.Duration) (string, error)
	VerifyAdminKey(key string) error
}

type Service struct {
	secret       []byte
	adminKeyHash []byte
	now          func() time.Time
}

func NewService(cfg *config.Config) *Service {
	if cfg.Auth.Secret == "" {
		logrus.Warn("AUTH_SECRET vazio: rotas do dashboard não exigem token")
	}
	if cfg.Admin.KeyHash == "" {
		logrus.Warn("ADMIN_KEY_HASH vazio: rotas de administração ficam bloqueadas")
	}

	return &Service{
		secret:       []byte(cfg.Auth.Secret),
		adminKeyHash: []byte(cfg.Admin.KeyHash),
		now:          time.Now,
	}
}

func (s *Service) TokenRequired() bool {
	return len(s.secret) > 0
}

func (s *Service) IssueToken(email, role string, ttl time.Duration) (string, error) {
	if !s.TokenRequired() {
		return "", ErrSecretNotConfigured
	}

	now := s.now()
	claims := &domain.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if tokenString == "" {
		return nil, NewAuthError(ErrMissingToken, apiErrors.ErrMissingToken, "")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	return claims, nil
}

// VerifyAdminKey compara a chave recebida com o hash bcrypt configurado
func (s *Service) VerifyAdminKey(key string) error {
	if len(s.adminKeyHash) == 0 {
		return NewAuthError(ErrAdminKeyNotConfigured, apiErrors.ErrInsufficientPrivilege, "")
	}

	if key == "" {
		return NewAuthError(ErrInvalidAdminKey, apiErrors.ErrInsufficientPrivilege, "chave ausente")
	}

	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(key)); err != nil {
		return NewAuthError(ErrInvalidAdminKey, apiErrors.ErrInsufficientPrivilege, "")
	}

	return nil
}

// HashAdminKey gera o valor de ADMIN_KEY_HASH para uma chave
func HashAdminKey(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
