package controller

import (
	"errors"
	"log"

	"github.com/benbeisheim/borderless-chess/internal/middleware"
	"github.com/benbeisheim/borderless-chess/internal/model"
	"github.com/benbeisheim/borderless-chess/internal/rules"
	"github.com/benbeisheim/borderless-chess/internal/service"
	"github.com/benbeisheim/borderless-chess/internal/uci"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts model.GameOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid game options",
			})
		}
	}

	state, err := gc.gameService.CreateGame(middleware.PlayerID(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": state.ID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := rules.ParseSquare(c.Query("square"))
	if err != nil {
		return respondError(c, err)
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": from,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move",
		})
	}
	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	state, err := gc.gameService.Resign(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Difficulties(c *fiber.Ctx) error {
	tiers := gc.gameService.Difficulties()
	out := make([]fiber.Map, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, fiber.Map{
			"level":       t.Level,
			"name":        t.Name,
			"elo":         t.Elo,
			"description": t.Describe(true),
		})
	}
	return c.JSON(out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotAPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrEngineTurn),
		errors.Is(err, rules.ErrNotYourTurn):
		return fiber.StatusConflict
	case errors.Is(err, rules.ErrIllegalMove),
		errors.Is(err, rules.ErrEmptySquare):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, rules.ErrBadSquare),
		errors.Is(err, model.ErrInvalidOptions),
		errors.Is(err, uci.ErrLevelRange):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
