package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adventure-server/internal/game"
)

// GameController is the slice of the controller the HTTP layer needs.
type GameController interface {
	Start(ctx context.Context) game.SessionState
	Choose(ctx context.Context, optionText string) game.SessionState
	Restart(ctx context.Context) game.SessionState
	Snapshot() game.SessionState
}

// GameHandler exposes the session over HTTP. It renders state and relays
// player events to the controller; it never mutates state itself.
type GameHandler struct {
	controller GameController
	logger     *zap.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(controller GameController, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		controller: controller,
		logger:     logger.Named("GameHandler"),
	}
}

// RegisterRoutes registers the game API routes on the Echo instance.
func (h *GameHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/state", h.GetState)
	gameGroup := api.Group("/game")
	gameGroup.POST("/start", h.Start)
	gameGroup.POST("/choice", h.Choose)
	gameGroup.POST("/restart", h.Restart)
}

// GetState returns the current session state.
func (h *GameHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, NewStateResponse(h.controller.Snapshot()))
}

// Start begins a new adventure. The fetch cycle continues asynchronously;
// the response carries the snapshot taken right after the cycle was
// initiated.
func (h *GameHandler) Start(c echo.Context) error {
	snap := h.controller.Start(c.Request().Context())
	return c.JSON(http.StatusAccepted, NewStateResponse(snap))
}

// Choose advances the story with the player's selected option text.
func (h *GameHandler) Choose(c echo.Context) error {
	var req ChooseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "choice text is required"})
	}
	snap := h.controller.Choose(c.Request().Context(), req.Text)
	return c.JSON(http.StatusAccepted, NewStateResponse(snap))
}

// Restart resets the session and starts over.
func (h *GameHandler) Restart(c echo.Context) error {
	snap := h.controller.Restart(c.Request().Context())
	return c.JSON(http.StatusAccepted, NewStateResponse(snap))
}
