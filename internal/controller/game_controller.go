package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
	log         *zap.SugaredLogger
}

func NewGameController(gameService *service.GameService, log *zap.SugaredLogger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	requireID := middleware.RequireGameID()
	router.Post("/create", gc.CreateGame)
	router.Get("/:gameId", requireID, gc.GetGameState)
	router.Get("/:gameId/moves/:square", requireID, gc.LegalMoves)
	router.Post("/:gameId/move", requireID, gc.MakeMove)
	router.Post("/:gameId/promote", requireID, gc.Promote)
	router.Post("/:gameId/cancel", requireID, gc.CancelPromotion)
	router.Post("/:gameId/view", requireID, gc.ViewHistory)
	router.Get("/:gameId/history", requireID, gc.History)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(c.UserContext())
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.UserContext(), c.Params("gameId"), c.Params("square"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"square": c.Params("square"),
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req service.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed move",
		})
	}
	gameID := c.Params("gameId")
	ply, err := gc.gameService.HandleMove(c.UserContext(), gameID, req)
	if errors.Is(err, model.ErrPromotionPending) {
		state, stateErr := gc.gameService.GetGameState(c.UserContext(), gameID)
		if stateErr != nil {
			return gc.fail(c, stateErr)
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   err.Error(),
			"choices": state.PromotionChoices,
		})
	}
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(ply)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req struct {
		Piece string `json:"piece"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed promotion",
		})
	}
	ply, err := gc.gameService.FinishPromotion(c.UserContext(), c.Params("gameId"), req.Piece)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(ply)
}

func (gc *GameController) CancelPromotion(c *fiber.Ctx) error {
	if err := gc.gameService.CancelPromotion(c.UserContext(), c.Params("gameId")); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) ViewHistory(c *fiber.Ctx) error {
	var req struct {
		Index int `json:"index"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed history index",
		})
	}
	if err := gc.gameService.ViewHistory(c.UserContext(), c.Params("gameId"), req.Index); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) History(c *fiber.Ctx) error {
	history, err := gc.gameService.History(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": history,
	})
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.log.Errorw("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// StatusFor maps service and rule errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidSquare), errors.Is(err, service.ErrInvalidPromotion):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPendingPromotion),
		errors.Is(err, model.ErrViewingHistory),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrNoPieceSelected),
		errors.Is(err, model.ErrNotYourPiece):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
