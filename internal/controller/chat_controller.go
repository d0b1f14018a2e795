// FILE: internal/controller/chat_controller.go
package controller

import (
	"bufio"
	"strconv"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/chat/prompt"
	"ai-chat-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	PostMessage(ctx *fiber.Ctx) error
	ResumeStream(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetChat(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	DeleteChat(ctx *fiber.Ctx) error
	UpdateVisibility(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1", serverutils.IdentityMiddleware)
	h.Post("/", c.PostMessage)
	h.Get("/history", c.GetHistory)
	h.Get("/:id", c.GetChat)
	h.Get("/:id/messages", c.GetMessages)
	h.Get("/:id/stream", c.ResumeStream)
	h.Delete("/", c.DeleteChat)
	h.Patch("/:id/visibility", c.UpdateVisibility)
}

// PostMessage accepts one user turn and answers with a Server-Sent Events
// stream. The stream carries the assistant's deltas, tool progress, and a
// final finish event; the connection dropping does not abort generation.
func (c *chatController) PostMessage(ctx *fiber.Ctx) error {
	var req dto.PostChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userId := serverutils.UserIdFromLocals(ctx)
	if userId == uuid.Nil {
		return dto.NewApiError(dto.ErrKindUnauthorized, "chat")
	}

	hints := requestHints(ctx)
	guestEmail := serverutils.GuestEmailFromIP(serverutils.ClientIP(ctx))

	em, err := c.service.PostMessage(ctx.Context(), userId, serverutils.IsAnonymous(ctx), guestEmail, hints, &req)
	if err != nil {
		return err
	}

	setSSEHeaders(ctx)
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for event := range em.Events() {
			if err := stream.WriteSSE(w, event); err != nil {
				// Client went away; drain so the producer is not blocked.
				for range em.Events() {
				}
				return
			}
		}
		stream.WriteSSEDone(w)
	}))

	return nil
}

// ResumeStream replays the buffered events of the most recent turn and
// closes. Clients reconcile by sequence number, so replaying events they
// already applied is harmless.
func (c *chatController) ResumeStream(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	userId := serverutils.UserIdFromLocals(ctx)
	events, err := c.service.ResumeStream(ctx.Context(), userId, chatId)
	if err != nil {
		return err
	}

	lastSeq := int64(-1)
	if raw := ctx.Get("Last-Event-ID"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			lastSeq = n
		}
	}

	setSSEHeaders(ctx)
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for _, event := range events {
			if event.Seq <= lastSeq {
				continue
			}
			if err := stream.WriteSSE(w, event); err != nil {
				return
			}
		}
		stream.WriteSSEDone(w)
	}))

	return nil
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromLocals(ctx)
	limit := ctx.QueryInt("limit", 20)

	var startingAfter, endingBefore *uuid.UUID
	if raw := ctx.Query("starting_after"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return dto.NewApiError(dto.ErrKindBadRequest, "api")
		}
		startingAfter = &id
	}
	if raw := ctx.Query("ending_before"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return dto.NewApiError(dto.ErrKindBadRequest, "api")
		}
		endingBefore = &id
	}

	res, err := c.service.GetHistory(ctx.Context(), userId, limit, startingAfter, endingBefore, ctx.Query("search"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history retrieved", res))
}

func (c *chatController) GetChat(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	res, err := c.service.GetChat(ctx.Context(), serverutils.UserIdFromLocals(ctx), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat retrieved", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	res, err := c.service.GetMessages(ctx.Context(), serverutils.UserIdFromLocals(ctx), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Messages retrieved", res))
}

func (c *chatController) DeleteChat(ctx *fiber.Ctx) error {
	raw := ctx.Query("id")
	if raw == "" {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}
	chatId, err := uuid.Parse(raw)
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	res, err := c.service.DeleteChat(ctx.Context(), serverutils.UserIdFromLocals(ctx), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat deleted", res))
}

func (c *chatController) UpdateVisibility(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	var req dto.UpdateVisibilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.UpdateVisibility(ctx.Context(), serverutils.UserIdFromLocals(ctx), chatId, req.Visibility); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Visibility updated", fiber.Map{"visibility": req.Visibility}))
}

func setSSEHeaders(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")
}

// requestHints reads the edge-provided geolocation headers used to localize
// the system prompt. Missing headers are fine; the prompt says "unknown".
func requestHints(ctx *fiber.Ctx) prompt.RequestHints {
	return prompt.RequestHints{
		Latitude:  ctx.Get("x-vercel-ip-latitude"),
		Longitude: ctx.Get("x-vercel-ip-longitude"),
		City:      ctx.Get("x-vercel-ip-city"),
		Country:   ctx.Get("x-vercel-ip-country"),
	}
}
