package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	common_models "khesed-tek/internal/common/models"
	"khesed-tek/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp() *fiber.App {
	utils.SetSecret("test-secret")
	app := fiber.New()
	app.Get("/scoped", AuthMiddleware(false), func(c *fiber.Ctx) error {
		tenant, _ := c.UserContext().Value(common_models.TenantIDKey).(string)
		return c.SendString(ChurchID(c) + "|" + tenant)
	})
	app.Get("/admin", AuthMiddleware(false), RequireRole(false, RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := newAuthApp()
	token, err := utils.GenerateToken("u1", "grace", []string{"MEMBER"})
	require.NoError(t, err)
	unscoped, err := utils.GenerateToken("u1", "", []string{RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"no header", "/scoped", "", fiber.StatusUnauthorized},
		{"bad scheme", "/scoped", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "/scoped", "Bearer abc", fiber.StatusUnauthorized},
		{"no church in token", "/scoped", "Bearer " + unscoped, fiber.StatusForbidden},
		{"valid", "/scoped", "Bearer " + token, fiber.StatusOK},
		{"query token", "/scoped?access_token=" + token, "", fiber.StatusOK},
		{"missing role", "/admin", "Bearer " + token, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_ScopesContextToChurch(t *testing.T) {
	app := newAuthApp()
	token, err := utils.GenerateToken("u1", "grace", []string{RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/scoped", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "grace|grace", string(body))

	admin := httptest.NewRequest("GET", "/admin", nil)
	admin.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(admin)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
