package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/permission"
)

func roleApp(role interface{}, min permission.Role) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals(localUserRole, role)
		}
		return c.Next()
	})
	app.Use(RequireRole(min))
	app.Get("/resource", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsHigherRanks(t *testing.T) {
	for _, role := range []permission.Role{permission.Manager, permission.Admin} {
		resp, err := roleApp(role, permission.Manager).Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, role)
	}
}

func TestRequireRoleRejectsLowerRanks(t *testing.T) {
	for _, role := range []permission.Role{permission.Staff, permission.Security} {
		resp, err := roleApp(role, permission.Manager).Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode, role)
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	resp, err := roleApp(nil, permission.Staff).Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = roleApp("admin", permission.Staff).Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdminMessage(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localUserRole, permission.Manager)
		return c.Next()
	})
	app.Get("/users", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Unauthorized: Admin access required")
}

func TestRequireRoleMessage(t *testing.T) {
	app := fiber.New()
	app.Post("/review", func(c *fiber.Ctx) error {
		c.Locals(localUserRole, permission.Security)
		return c.Next()
	}, RequireRoleMessage(permission.Manager, "Only managers review"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/review", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Only managers review")
}
