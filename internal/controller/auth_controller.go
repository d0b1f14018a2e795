// FILE: internal/controller/auth_controller.go
package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Guest(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/guest", c.Guest)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Account created", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// Guest mints a session for an anonymous visitor. The identity is derived
// from the client IP, so repeat visits map to the same guest account.
func (c *authController) Guest(ctx *fiber.Ctx) error {
	ip := serverutils.ClientIP(ctx)
	guestId := serverutils.GuestIdFromIP(ip)
	user, err := c.service.EnsureGuest(ctx.Context(), guestId, serverutils.GuestEmailFromIP(ip))
	if err != nil {
		return err
	}

	token, err := c.service.IssueToken(user)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Guest session created", dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			Id:        user.Id,
			Email:     user.Email,
			Type:      string(user.Type),
			CreatedAt: user.CreatedAt,
		},
	}))
}
