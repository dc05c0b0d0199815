package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func correlationApp(captured *string) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		*captured = GetCorrelationID(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCorrelationIDReusesIncomingHeader(t *testing.T) {
	var captured string
	app := correlationApp(&captured)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "corr-123", captured)
	require.Equal(t, "corr-123", resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDGeneratesWhenAbsent(t *testing.T) {
	var captured string
	app := correlationApp(&captured)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.NotEmpty(t, captured)
	require.Equal(t, captured, resp.Header.Get("X-Correlation-ID"))
}

func TestContextWithCorrelationRoundTrip(t *testing.T) {
	ctx := ContextWithCorrelation(context.Background(), " corr-9 ")
	require.Equal(t, "corr-9", CorrelationIDFromContext(ctx))

	// A blank identifier leaves the context untouched.
	blank := ContextWithCorrelation(context.Background(), "  ")
	require.Empty(t, CorrelationIDFromContext(blank))

	require.Empty(t, CorrelationIDFromContext(context.Background()))
}
