package selling

import (
	"errors"
	"fmt"
)

var (
	// Fonte de dados inacessível ou corrompida. Exige intervenção do operador.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrQueryTimeout          = errors.New("query deadline exceeded")
)

// RemediationHint acompanha ErrDataSourceUnavailable nas respostas da API
const RemediationHint = "Verifique se a base de vendas existe e está acessível. Para criá-la, execute: go run ./cmd/import"

// SalesError é um erro com contexto adicional para as consultas de vendas
type SalesError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
	Cause   error  // Erro original do armazenamento, exposto só em desenvolvimento
}

// Error implementa a interface error
func (e *SalesError) Error() string {
	msg := e.Err.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap retorna o erro subjacente
func (e *SalesError) Unwrap() error {
	return e.Err
}

// NewSalesError cria um novo SalesError
func NewSalesError(err error, code string, details string, cause error) *SalesError {
	return &SalesError{
		Err:     err,
		Code:    code,
		Details: details,
		Cause:   cause,
	}
}
