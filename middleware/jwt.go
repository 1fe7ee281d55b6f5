package middleware

import (
	"apex/apperr"
	"apex/config"
	"apex/models"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const identityKey = "identity"

// GenerateJWT issues a token in the format the auth provider uses. The
// backend never logs users in itself; this is used by tests and tooling.
func GenerateJWT(userID uint, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"userId":  userID,
		"isAdmin": isAdmin,
		"iat":     time.Now().Unix(),                     // issued at
		"exp":     time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return JsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return JsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return JsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid token payload")
	}
	isAdmin, _ := claims["isAdmin"].(bool)

	c.Locals(identityKey, models.Identity{UserID: uint(userID), IsAdmin: isAdmin})
	return c.Next()
}

// CurrentIdentity returns the caller stored by JWTMiddleware.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	id, ok := c.Locals(identityKey).(models.Identity)
	return id, ok
}

// Caller is CurrentIdentity for handlers that return service errors.
func Caller(c *fiber.Ctx) (models.Identity, error) {
	who, ok := CurrentIdentity(c)
	if !ok {
		return who, apperr.New(apperr.Unauthorized, "Unauthorized!")
	}
	return who, nil
}
