package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the platform JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
}

// HasRole reports whether the claims include the given role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Role constants.
const (
	RoleAdmin       = "admin"
	RoleLoanOfficer = "loan_officer"
	RoleCollections = "collections_officer"
	RoleAuditor     = "auditor"
	RoleSystem      = "system"
)
