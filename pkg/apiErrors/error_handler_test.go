package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{ErrDataSourceUnavailable, http.StatusServiceUnavailable},
		{ErrQueryTimeout, http.StatusGatewayTimeout},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrInternalServer, http.StatusInternalServerError},
		{"XYZ_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.code, "mensagem", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, "mensagem", body["message"])
			assert.NotContains(t, body, "details")
		})
	}
}

func TestWriteError_WithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrDataSourceUnavailable, "Fonte indisponível", "Execute o importador")

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Execute o importador", body.Details)
}
