package controller

import (
	"errors"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/model"
	"github.com/Stryder91/Chess/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
)

type GameController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewGameController(gameService *service.GameService, log zerolog.Logger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	id, err := gc.gameService.CreateGame()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": id,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(gameID(c), playerID(c))
	if err != nil {
		return gc.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(gameID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves lists the side to move's legal moves in move notation.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(gameID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{"moves": moves})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil || move.From == "" || move.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body must be {\"from\": \"e2\", \"to\": \"e4\"}",
		})
	}

	if err := gc.gameService.HandleMove(gameID(c), playerID(c), move); err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	if err := gc.gameService.HandleUndo(gameID(c), playerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

// DeleteGame drops a game and its archived record. Only seated players may delete.
func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(gameID(c), playerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game deleted",
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	ids, err := gc.gameService.ListGames()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{"games": ids})
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, chess.ErrIllegalMove),
		errors.Is(err, chess.ErrOutOfBounds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, chess.ErrInvalidSquare):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

// gameID copies the route parameter out of the request buffer, which fasthttp reuses.
func gameID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("gameId"))
}
