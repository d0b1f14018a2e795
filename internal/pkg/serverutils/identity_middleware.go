// FILE: internal/pkg/serverutils/identity_middleware.go
package serverutils

import (
	"crypto/sha256"
	"fmt"
	"os"

	"ai-chat-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityMiddleware resolves the caller to a stable identity. A valid Bearer
// token wins; otherwise the request is attributed to a deterministic guest
// derived from the client IP, so the same anonymous visitor keeps the same
// identity across requests without any signup step.
func IdentityMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				ctx.Locals("user_id", claims["user_id"])
				if t, ok := claims["user_type"].(string); ok {
					ctx.Locals("user_type", t)
				}
				ctx.Locals("anonymous", false)
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	ip := ClientIP(ctx)
	ctx.Locals("user_id", GuestIdFromIP(ip).String())
	ctx.Locals("user_email", GuestEmailFromIP(ip))
	ctx.Locals("user_type", string(entity.UserTypeGuest))
	ctx.Locals("anonymous", true)
	return ctx.Next()
}

// GuestIdFromIP folds a SHA-256 of the client IP into a UUID-shaped value.
// The mapping is deterministic: one IP, one guest identity.
func GuestIdFromIP(ip string) uuid.UUID {
	sum := sha256.Sum256([]byte("guest_" + ip))
	var id uuid.UUID
	copy(id[:], sum[:16])
	// Stamp version 4 / variant bits so the value round-trips through
	// UUID columns and client-side validators.
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

func GuestEmailFromIP(ip string) string {
	return fmt.Sprintf("guest-%s@localhost", ip)
}

// ClientIP prefers the first X-Forwarded-For hop so deployments behind a
// proxy still see the real visitor address.
func ClientIP(ctx *fiber.Ctx) string {
	if fwd := ctx.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	return ctx.IP()
}

// UserIdFromLocals extracts the resolved identity set by IdentityMiddleware
// or JwtMiddleware. Returns uuid.Nil when the request carried no identity.
func UserIdFromLocals(ctx *fiber.Ctx) uuid.UUID {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func IsAnonymous(ctx *fiber.Ctx) bool {
	anon, ok := ctx.Locals("anonymous").(bool)
	return ok && anon
}
