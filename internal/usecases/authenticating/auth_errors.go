package authenticating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
)

var (
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrInsufficientPrivilege = errors.New("privilégios insuficientes")
	ErrMissingSubject        = errors.New("o token precisa de um sujeito")
	ErrUnknownRole           = errors.New("perfil desconhecido")
)

// AuthError carrega o código de API que o erro de autenticação deve produzir
type AuthError struct {
	Err     error
	Code    string
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthorizationError verifica se o erro deve negar o acesso à rota
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

// NewAuthError cria um erro de autenticação com o código padrão do erro base
func NewAuthError(baseErr error, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    defaultCode(baseErr),
		Details: details,
	}
}

// CodeOf devolve o código de API de qualquer erro vindo deste pacote.
// Erros desconhecidos viram token inválido.
func CodeOf(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		return authErr.Code
	}
	return defaultCode(err)
}

func defaultCode(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return apiErrors.ErrExpiredToken
	case errors.Is(err, ErrInsufficientPrivilege):
		return apiErrors.ErrInsufficientPrivilege
	case errors.Is(err, ErrMissingSubject), errors.Is(err, ErrUnknownRole):
		return apiErrors.ErrInvalidRequest
	default:
		return apiErrors.ErrInvalidToken
	}
}
