package controller

import (
	"healthmate-be/internal/dto"
	"healthmate-be/internal/pkg/serverutils"
	"healthmate-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	NewRound(ctx *fiber.Ctx) error
	Chase(ctx *fiber.Ctx) error
	More(ctx *fiber.Ctx) error
	Filter(ctx *fiber.Ctx) error
}

type advisorController struct {
	advisorService service.IAdvisorService
}

func NewAdvisorController(advisorService service.IAdvisorService) IAdvisorController {
	return &advisorController{
		advisorService: advisorService,
	}
}

func (c *advisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("question", c.Ask)
	h.Post("question/new", c.NewRound)
	h.Post("question/chase", c.Chase)
	h.Post("question/more", c.More)
	h.Post("filter", c.Filter)
}

// resolveUserID prefers the authenticated identity when the JWT middleware
// is active, falling back to the id carried in the request body.
func resolveUserID(ctx *fiber.Ctx, bodyUserID string) string {
	if v, ok := ctx.Locals("user_id").(string); ok && v != "" {
		return v
	}
	return bodyUserID
}

func (c *advisorController) Ask(ctx *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *advisorController) NewRound(ctx *fiber.Ctx) error {
	var req dto.NewRoundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.NewRound(ctx.Context(), req.UserID, req.Question)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start new round", res))
}

func (c *advisorController) Chase(ctx *fiber.Ctx) error {
	var req dto.NewRoundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.Chase(ctx.Context(), req.UserID, req.Question)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer follow-up", res))
}

func (c *advisorController) More(ctx *fiber.Ctx) error {
	var req dto.NewRoundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.RecommendMore(ctx.Context(), req.UserID, req.Question)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend more", res))
}

func (c *advisorController) Filter(ctx *fiber.Ctx) error {
	var req dto.FilterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserID = resolveUserID(ctx, req.UserID)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.FilterIncludeExclude(ctx.Context(), req.UserID, req.Include, req.Exclude)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success filter recommendations", res))
}
