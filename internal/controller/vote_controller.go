// FILE: internal/controller/vote_controller.go
package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVoteController interface {
	RegisterRoutes(r fiber.Router)
	Vote(ctx *fiber.Ctx) error
	GetVotes(ctx *fiber.Ctx) error
}

type voteController struct {
	service service.IVoteService
}

func NewVoteController(service service.IVoteService) IVoteController {
	return &voteController{service: service}
}

func (c *voteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vote/v1", serverutils.IdentityMiddleware)
	h.Patch("/", c.Vote)
	h.Get("/:chatId", c.GetVotes)
}

func (c *voteController) Vote(ctx *fiber.Ctx) error {
	var req dto.VoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userId := serverutils.UserIdFromLocals(ctx)
	if err := c.service.Vote(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Vote recorded", &dto.VoteResponse{
		ChatId:    req.ChatId,
		MessageId: req.MessageId,
		IsUpvoted: req.Type == "up",
	}))
}

func (c *voteController) GetVotes(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("chatId"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	res, err := c.service.GetVotes(ctx.Context(), serverutils.UserIdFromLocals(ctx), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Votes retrieved", res))
}
