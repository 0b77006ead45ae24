package http

import (
	"net/http"
	"testing"
	"time"

	"trackserver/internal/shared/logger"
	"trackserver/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, company, user string) string {
	t.Helper()
	claims := identityClaims{
		Company: company,
		User:    user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func identityApp() (*fiber.App, *string, *string) {
	var gotCompany, gotUser string

	log := logger.NewLoggerWithConfig("error", "text")
	app := fiber.New()
	app.Use(CompanyMiddleware(testSecret, log))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		gotCompany, _ = utils.GetCompanyIDFromContext(c.UserContext())
		gotUser = utils.GetUserIDOrDefault(c.UserContext(), "")
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &gotCompany, &gotUser
}

func TestCompanyMiddlewareBearerToken(t *testing.T) {
	app, company, user := identityApp()

	req, _ := http.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, "acme", "u1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "acme", *company)
	assert.Equal(t, "u1", *user)
}

func TestCompanyMiddlewareHeaderFallback(t *testing.T) {
	app, company, user := identityApp()

	req, _ := http.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("X-Company-ID", "acme")
	req.Header.Set("X-User-ID", "u2")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "acme", *company)
	assert.Equal(t, "u2", *user)
}

func TestCompanyMiddlewareBadSignature(t *testing.T) {
	app, _, _ := identityApp()

	claims := identityClaims{Company: "acme"}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req, _ := http.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCompanyMiddlewareTokenWithoutCompany(t *testing.T) {
	app, _, _ := identityApp()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{User: "u1"}).SignedString(testSecret)
	require.NoError(t, err)

	req, _ := http.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
