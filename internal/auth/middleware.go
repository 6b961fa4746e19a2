package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/domain"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

const principalKey = "auth_principal"

// AccessGate validates bearer tokens, resolves the principal and applies the
// account-status policy. Ordering is deliberate: credential validity is
// checked strictly before status, and status before any role restriction, so
// responses never leak more than the failing category.
type AccessGate struct {
	tokens      *TokenManager
	resolver    *PrincipalResolver
	revocations *RevocationList
}

// NewAccessGate constructs the middleware.
func NewAccessGate(tokens *TokenManager, resolver *PrincipalResolver, revocations *RevocationList) *AccessGate {
	return &AccessGate{tokens: tokens, resolver: resolver, revocations: revocations}
}

// Handle enforces authentication for protected routes.
func (g *AccessGate) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "invalid authorization header")
	}

	claims, err := g.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized(apperrors.CodeInvalidToken, "invalid or expired token")
	}

	revoked, err := g.revocations.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized(apperrors.CodeInvalidToken, "invalid or expired token")
	}

	principal, err := g.resolver.Resolve(c.UserContext(), claims.PrincipalType, claims.PrincipalID)
	if err != nil {
		if err == ErrPrincipalNotFound {
			return apperrors.NewUnauthorized(apperrors.CodePrincipalGone, "account no longer exists")
		}
		return apperrors.MapError(err)
	}
	principal.TokenID = claims.ID
	if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt.Time
	}

	// The caller proved who they are; status failures may name the reason.
	switch principal.Status() {
	case domain.StatusInactive:
		return apperrors.NewForbidden(apperrors.CodeAccountInactive, "account is inactive")
	case domain.StatusBlocked:
		return apperrors.NewForbidden(apperrors.CodeAccountBlocked, "account is blocked")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
