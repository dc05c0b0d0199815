package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/classboard/classboard-api/internal/middleware"
)

func TestRequestContextCarriesCorrelationID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	var captured string
	app.Get("/ping", func(c *fiber.Ctx) error {
		captured = middleware.CorrelationIDFromContext(requestContext(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "corr-42")

	_, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "corr-42", captured, "services must see the request's correlation id")
}
