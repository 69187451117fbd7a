package http_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/VICHiNG16/MusicDuel/internal/delivery/http/common"
	"github.com/VICHiNG16/MusicDuel/internal/model"
	usecase_room "github.com/VICHiNG16/MusicDuel/internal/usecase/room"
)

type Controller struct {
	usecase *usecase_room.Usecase
	logger  *slog.Logger
}

func New(usecase *usecase_room.Usecase) *Controller {
	return &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("", c.create)
		rooms.GET("/:code", c.snapshot)
		rooms.POST("/:code/join", c.join)
		rooms.POST("/:code/start", c.start)
	}
}

type CreateRoomRequest struct {
	Artist string `json:"artist" binding:"required"`
}

type CreateRoomResponse struct {
	RoomCode string `json:"room_code"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "artist is required",
		})
		return
	}

	code, err := c.usecase.Create(ctx, req.Artist)
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusCreated, CreateRoomResponse{
		RoomCode: code,
	})
}

func (c *Controller) join(ctx *gin.Context) {
	code := ctx.Param("code")

	if err := c.usecase.Join(ctx, code); err != nil {
		c.logger.Error("failed to join room", slog.String("room", code), slog.String("error", err.Error()))
		if errors.Is(err, usecase_room.ErrRoomNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Controller) start(ctx *gin.Context) {
	code := ctx.Param("code")

	err := c.usecase.Start(ctx, code)
	if err == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	c.logger.Error("failed to start game", slog.String("room", code), slog.String("error", err.Error()))
	switch {
	case errors.Is(err, usecase_room.ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
	case errors.Is(err, usecase_room.ErrRoomNotStartable):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
			Message: "room already started",
		})
	case errors.Is(err, usecase_room.ErrInsufficientSongs):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
			Message: "not enough songs found for this artist",
		})
	case errors.Is(err, usecase_room.ErrCatalogUnavailable):
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "song catalog unavailable",
		})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}

type RoomResponse struct {
	Guest    bool         `json:"guest"`
	Artist   string       `json:"artist"`
	Status   model.Status `json:"status"`
	Round    int          `json:"current_round"`
	Phase    model.Phase  `json:"game_state,omitempty"`
	Scores   model.Scores `json:"scores"`
	GameOver bool         `json:"game_over"`
}

func (c *Controller) snapshot(ctx *gin.Context) {
	code := ctx.Param("code")

	room, err := c.usecase.Snapshot(ctx, code)
	if err != nil {
		if errors.Is(err, usecase_room.ErrRoomNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to load room", slog.String("room", code), slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusOK, RoomResponse{
		Guest:    room.Guest,
		Artist:   room.Artist,
		Status:   room.Status,
		Round:    room.Round,
		Phase:    room.Phase,
		Scores:   room.Scores,
		GameOver: room.Phase == model.PhaseGameOver,
	})
}
