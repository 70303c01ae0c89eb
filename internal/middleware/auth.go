package middleware

import (
	"strings"
	"time"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	CtxPrincipal = "principal"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// Authenticate resolves the request to a principal. A missing or bad
// token resolves to the anonymous principal rather than an error, so
// every downstream check runs against the same Principal type; routes
// that demand identity stack RequireAuth on top.
func Authenticate(cfg *config.Config, identity *services.IdentityService, blocklist *auth.Blocklist, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(CtxPrincipal, rbac.Anonymous())

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Next()
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Next()
		}

		if blocklist != nil {
			revoked, err := blocklist.IsRevoked(c.Context(), claims.ID)
			if err != nil {
				log.Warn("blocklist check failed", zap.Error(err))
			} else if revoked {
				return c.Next()
			}
		}

		p, err := identity.PrincipalFor(c.Context(), claims.UserID)
		if err != nil {
			log.Debug("principal resolution failed", zap.Error(err))
			return c.Next()
		}

		identity.TouchLastSeen(c.Context(), p.ID)

		c.Locals(CtxPrincipal, p)
		c.Locals(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(CtxTokenExp, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

func GetPrincipal(c *fiber.Ctx) rbac.Principal {
	if p, ok := c.Locals(CtxPrincipal).(rbac.Principal); ok {
		return p
	}
	return rbac.Anonymous()
}

func GetTokenJTI(c *fiber.Ctx) string {
	jti, _ := c.Locals(CtxTokenJTI).(string)
	return jti
}

func GetTokenExpiry(c *fiber.Ctx) time.Time {
	exp, _ := c.Locals(CtxTokenExp).(time.Time)
	return exp
}

// RequireAuth rejects anonymous principals.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetPrincipal(c).IsAnonymous() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Next()
	}
}

// RequireRoles gates a route on every listed role being held. The 403
// body stays generic; the ledger entry names what was missing.
func RequireRoles(buzz *services.BuzzService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if !rbac.RequireAll(p, roles...) {
			buzz.Denied(c.Context(), p, c.Method()+" "+c.Path(), rbac.Missing(p, roles...))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized"})
		}
		return c.Next()
	}
}

// AnyRole gates a route on at least one listed role being held.
func AnyRole(buzz *services.BuzzService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if !rbac.AcceptAny(p, roles...) {
			buzz.Denied(c.Context(), p, c.Method()+" "+c.Path(), rbac.Missing(p, roles...))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized"})
		}
		return c.Next()
	}
}
