package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/retail-sales-api/internal/domain"
)

const (
	issuer     = "retail-sales-api"
	defaultTTL = 24 * time.Hour
)

type Authenticator interface {
	IssueToken(subject, role string, ttl time.Duration) (string, error)
	IssueOperatorToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	secretKey []byte
	now       func() time.Time
}

func NewService(secretKey string) Authenticator {
	return &Service{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// IssueToken gera um token HS256 para o sujeito. ttl <= 0 usa 24h.
func (s *Service) IssueToken(subject, role string, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", NewAuthError(ErrMissingSubject, "Informe quem vai usar o token")
	}

	if role != domain.RoleOperator && role != domain.RoleViewer {
		return "", NewAuthError(ErrUnknownRole, role)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := s.now()
	claims := domain.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) IssueOperatorToken(subject string, ttl time.Duration) (string, error) {
	return s.IssueToken(subject, domain.RoleOperator, ttl)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, "Token expirado")
		}
		return nil, NewAuthError(ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, "Token inválido")
}
