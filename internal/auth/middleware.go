package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/repository"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Technician is set only for
// support staff; plain platform members carry just the user id.
type Principal struct {
	UserID     int64
	Role       string
	Technician *domain.Technician
}

// IsStaff reports whether the caller holds a helpdesk role.
func (p *Principal) IsStaff() bool {
	return p.Technician != nil
}

// IsSuperAdmin reports whether the caller is a super admin.
func (p *Principal) IsSuperAdmin() bool {
	return p.Technician != nil && p.Technician.Role == domain.RoleSuperAdmin
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	technicians repository.TechnicianRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, technicians repository.TechnicianRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, technicians: technicians}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{UserID: claims.UserID, Role: claims.Role}
	if claims.Role == string(domain.RoleSuperAdmin) || claims.Role == string(domain.RoleSupportTechnician) {
		tech, err := m.technicians.GetByID(c.UserContext(), claims.UserID)
		if err != nil || !tech.Active {
			return apperrors.NewUnauthorized("staff account unavailable")
		}
		principal.Technician = tech
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext extracts the caller, when present.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
