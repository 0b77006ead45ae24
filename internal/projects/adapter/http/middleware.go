package http

import (
	"fmt"
	"strings"

	"trackserver/internal/shared/logger"
	"trackserver/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// identityClaims are the token claims this service reads. Tokens are issued by
// the platform auth service; this middleware only parses and validates them.
type identityClaims struct {
	Company string `json:"company"`
	User    string `json:"user"`
	jwt.RegisteredClaims
}

// CompanyExtractor resolves the calling company and user from a request.
type CompanyExtractor struct {
	secret []byte
	logger logger.Logger
}

// NewCompanyExtractor creates an extractor validating tokens with the given
// HS256 secret.
func NewCompanyExtractor(secret []byte, log logger.Logger) *CompanyExtractor {
	return &CompanyExtractor{secret: secret, logger: log}
}

// Extract resolves (company, user) in priority order:
//  1. Authorization bearer token (company and user claims)
//  2. X-Company-ID header (development and internal calls)
func (ce *CompanyExtractor) Extract(c *fiber.Ctx) (company, user string, err error) {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims := &identityClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return ce.secret, nil
		})
		if err != nil || !token.Valid {
			return "", "", fmt.Errorf("invalid identity token: %w", err)
		}
		if claims.Company == "" {
			return "", "", fmt.Errorf("identity token carries no company claim")
		}
		return claims.Company, claims.User, nil
	}

	if company := c.Get("X-Company-ID"); company != "" {
		return company, c.Get("X-User-ID"), nil
	}

	return "", "", fmt.Errorf("no identity provided")
}

// CompanyMiddleware resolves the tenant identity and places it in the request
// context. Handlers never accept a company from request bodies.
func CompanyMiddleware(secret []byte, log logger.Logger) fiber.Handler {
	extractor := NewCompanyExtractor(secret, log)

	return func(c *fiber.Ctx) error {
		company, user, err := extractor.Extract(c)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"path": c.Path(),
			}).Debugf("Identity resolution failed: %v", err)

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "A valid identity token or X-Company-ID header is required",
			})
		}

		ctx := utils.WithCompanyID(c.UserContext(), company)
		if user != "" {
			ctx = utils.WithUserID(ctx, user)
		}
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequestContextMiddleware copies the Fiber request id into the user context
// so the structured logger can pick it up.
func RequestContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), requestID))
		}
		return c.Next()
	}
}
