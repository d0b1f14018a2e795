// FILE: internal/controller/document_controller.go
package controller

import (
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	GetVersions(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	TruncateAfter(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1", serverutils.IdentityMiddleware)
	h.Get("/:id", c.GetVersions)
	h.Post("/:id", c.Save)
	h.Delete("/:id", c.TruncateAfter)
}

// GetVersions returns every version of the document, oldest first.
func (c *documentController) GetVersions(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	res, err := c.service.GetVersions(ctx.Context(), serverutils.UserIdFromLocals(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document versions retrieved", res))
}

func (c *documentController) Save(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	var req dto.SaveDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), serverutils.UserIdFromLocals(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document saved", res))
}

// TruncateAfter rewinds the document: every version newer than the given
// RFC 3339 timestamp is removed.
func (c *documentController) TruncateAfter(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	raw := ctx.Query("timestamp")
	if raw == "" {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}
	timestamp, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	if err := c.service.TruncateAfter(ctx.Context(), serverutils.UserIdFromLocals(ctx), id, timestamp); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document versions removed", fiber.Map{"id": id}))
}
