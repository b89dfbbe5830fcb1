package controller

import (
	"healthmate-be/internal/dto"
	"healthmate-be/internal/pkg/serverutils"
	"healthmate-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Record(ctx *fiber.Ctx) error
	UndoLast(ctx *fiber.Ctx) error
}

type historyController struct {
	historyService service.IHistoryService
}

func NewHistoryController(historyService service.IHistoryService) IHistoryController {
	return &historyController{
		historyService: historyService,
	}
}

func (c *historyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/history/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Record)
	h.Delete("last", c.UndoLast)
}

func (c *historyController) List(ctx *fiber.Ctx) error {
	userID := resolveUserID(ctx, ctx.Query("user_id"))
	if userID == "" {
		return serverutils.BadRequest("user_id is required")
	}

	res, err := c.historyService.GetHistory(ctx.Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *historyController) Record(ctx *fiber.Ctx) error {
	var req dto.RecordActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.historyService.RecordAction(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record action", nil))
}

func (c *historyController) UndoLast(ctx *fiber.Ctx) error {
	userID := resolveUserID(ctx, ctx.Query("user_id"))
	if userID == "" {
		return serverutils.BadRequest("user_id is required")
	}

	res, err := c.historyService.UndoLast(ctx.Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success undo last action", res))
}
