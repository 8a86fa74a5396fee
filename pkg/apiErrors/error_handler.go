package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação (2000-2999)
	ErrInvalidRequest   = "VAL_001" // Requisição inválida
	ErrNotFound         = "VAL_004" // Rota inexistente
	ErrMethodNotAllowed = "VAL_005" // Método HTTP não aceito pela rota

	// Erros do servidor (5000-5999)
	ErrInternalServer        = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation     = "SRV_002" // Erro de operação de banco de dados
	ErrDataSourceUnavailable = "SRV_005" // Fonte de dados inacessível
	ErrQueryTimeout          = "SRV_006" // Consulta excedeu o prazo
	ErrReloadInProgress      = "SRV_007" // Recarga do snapshot já em andamento
	ErrReloadUnavailable     = "SRV_008" // Recarga não se aplica à fonte configurada
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrDataSourceUnavailable: http.StatusServiceUnavailable,
	ErrQueryTimeout:          http.StatusGatewayTimeout,
	ErrReloadInProgress:      http.StatusConflict,
	ErrReloadUnavailable:     http.StatusConflict,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

func (e APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Status retorna o status HTTP do código, ou 500 para códigos desconhecidos
func Status(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
