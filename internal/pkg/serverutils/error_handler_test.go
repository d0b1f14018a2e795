package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appWith(err error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return err
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandlerApiError(t *testing.T) {
	status, body := doRequest(t, appWith(dto.NewApiError(dto.ErrKindForbidden, "chat")))

	assert.Equal(t, 403, status)
	assert.Equal(t, "forbidden:chat", body["code"])
	assert.NotEmpty(t, body["message"])
}

func TestErrorHandlerNotFound(t *testing.T) {
	status, body := doRequest(t, appWith(dto.NewApiError(dto.ErrKindNotFound, "document")))

	assert.Equal(t, 404, status)
	assert.Equal(t, "not_found:document", body["code"])
}

func TestErrorHandlerQuotaError(t *testing.T) {
	status, body := doRequest(t, appWith(&dto.LimitExceededError{
		Limit:      20,
		Used:       20,
		ResetAfter: time.Now().Add(24 * time.Hour),
	}))

	assert.Equal(t, 429, status)
	assert.Equal(t, "rate_limit:chat", body["code"])
	assert.EqualValues(t, 20, body["limit"])
	assert.EqualValues(t, 20, body["used"])
	assert.Contains(t, body, "reset_after")
}

func TestErrorHandlerValidationError(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	valErr := ValidateRequest(payload{Email: "not-an-email"})
	require.Error(t, valErr)

	status, body := doRequest(t, appWith(valErr))
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid request", body["message"])
}

func TestErrorHandlerFiberErrorKeepsStatus(t *testing.T) {
	status, _ := doRequest(t, appWith(fiber.NewError(fiber.StatusTeapot, "teapot")))
	assert.Equal(t, fiber.StatusTeapot, status)
}

func TestErrorHandlerUnknownErrorIs500(t *testing.T) {
	status, _ := doRequest(t, appWith(assert.AnError))
	assert.Equal(t, 500, status)
}
