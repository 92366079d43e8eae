package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(authHeader string) (jwt.MapClaims, bool) {
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// JwtMiddleware rejects requests without a valid bearer token.
func JwtMiddleware(ctx *fiber.Ctx) error {
	claims, ok := parseToken(ctx.Get("Authorization"))
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or missing token"})
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}

// OptionalJwtMiddleware resolves the user when a valid token is present but
// lets anonymous requests through. Anonymous chat turns skip session risk
// tracking entirely, so the chat route must stay reachable without auth.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if claims, ok := parseToken(ctx.Get("Authorization")); ok {
		ctx.Locals("user_id", claims["user_id"])
	}
	return ctx.Next()
}
