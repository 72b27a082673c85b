package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gudang/internal/handlers"
	"gudang/internal/middleware"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	authService := services.NewAuthService(users, "test_jwt_secret", time.Hour)
	_, err := authService.Register(context.Background(), services.RegisterInput{
		Username: "operator", Email: "op@example.com", Password: "password123",
	})
	require.NoError(t, err)
	token, err := authService.Login(context.Background(), "operator", "password123")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/private", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(claims.Username)
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "a Bearer token is required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "a Bearer token is required"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "a Bearer token is required"},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized, services.ErrInvalidToken.Error()},
		{"valid token", "Bearer " + token, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "operator", string(body))
				return
			}
			assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	app := fiber.New()
	app.Get("/slow", middleware.RequestTimeout(10*time.Millisecond), func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		<-c.UserContext().Done()
		if time.Until(deadline) > 0 {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(c.UserContext().Err().Error())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/slow", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, context.DeadlineExceeded.Error(), string(body))
}
