package domain

import "github.com/golang-jwt/jwt/v5"

// Perfis aceitos nos tokens
const (
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Claims é o conteúdo do token de acesso às rotas administrativas
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
