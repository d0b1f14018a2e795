// FILE: internal/controller/chat_controller_test.go
package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	service.IChatService
	deleted []uuid.UUID
}

func (f *fakeChatService) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) (*dto.DeleteChatResponse, error) {
	f.deleted = append(f.deleted, chatId)
	return &dto.DeleteChatResponse{Id: chatId}, nil
}

func chatApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestDeleteChatRequiresIdQueryParam(t *testing.T) {
	app := chatApp(&fakeChatService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/chat/v1/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "bad_request:api", body["code"])
}

func TestDeleteChatRejectsMalformedId(t *testing.T) {
	app := chatApp(&fakeChatService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/chat/v1/?id=not-a-uuid", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
}

func TestDeleteChatAcceptsIdQueryParam(t *testing.T) {
	svc := &fakeChatService{}
	app := chatApp(svc)
	chatId := uuid.New()

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/chat/v1/?id="+chatId.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, svc.deleted, 1)
	assert.Equal(t, chatId, svc.deleted[0])
}
