package middleware

import (
	"log"
	"strings"

	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// AuthRequired rejects requests without a valid "Bearer <token>" header and
// stores the verified operator claims for the handlers behind it.
// Rejections are fiber errors so the app's error handler renders them.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "a Bearer token is required")
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("Rejected %s %s: %v", c.Method(), c.Path(), err)
			return unauthorized(c, services.ErrInvalidToken.Error())
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the operator claims AuthRequired stored on c.
func ClaimsFrom(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="gudang"`)
	return fiber.NewError(fiber.StatusUnauthorized, message)
}
