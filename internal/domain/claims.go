package domain

import "github.com/golang-jwt/jwt/v5"

// Papéis aceitos nos tokens do dashboard
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Claims são as informações carregadas no token do dashboard
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
