package ws_room

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_common "github.com/VICHiNG16/MusicDuel/internal/delivery/http/common"
	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	"github.com/VICHiNG16/MusicDuel/internal/model"
	usecase_game "github.com/VICHiNG16/MusicDuel/internal/usecase/game"
)

const sendBuffer = 32

// Controller upgrades a peer onto a room. The connection owns a game
// session, and a host connection additionally runs the host engine, so the
// arbiter lives exactly as long as the host client does.
type Controller struct {
	hub      *Hub
	store    docstore.Store
	archiver usecase_game.Archiver
	roundLen time.Duration
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewController(hub *Hub, store docstore.Store, archiver usecase_game.Archiver, roundLen time.Duration) *Controller {
	return &Controller{
		hub:      hub,
		store:    store,
		archiver: archiver,
		roundLen: roundLen,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws/rooms/:code", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	code := ctx.Param("code")
	role := model.Role(ctx.Query("role"))
	solo := ctx.Query("mode") == "solo"

	if !role.Valid() {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "role must be host or guest",
		})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("ws upgrade failed", "room", code, "error", err)
		return
	}

	clientCtx, cancel := context.WithCancel(context.Background())
	client := &Client{
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		RoomCode: code,
		Role:     role,
		ctx:      clientCtx,
		cancel:   cancel,
	}

	client.session = usecase_game.NewSession(c.store, code, role, c.roundLen, func(room model.Room) {
		client.Push(Event{Type: EventRoom, Room: &room})
	}, c.logger)

	go func() {
		if err := client.session.Run(clientCtx); err != nil {
			c.logger.Error("session stopped", "room", code, "role", role, "error", err)
		}
	}()

	if role == model.RoleHost {
		engine := usecase_game.NewEngine(c.store, code, solo, c.archiver, c.logger)
		go func() {
			if err := engine.Run(clientCtx); err != nil {
				c.logger.Error("engine stopped", "room", code, "error", err)
			}
		}()
	}

	c.hub.RegisterClient(client)
	go c.hub.StartClientWriting(client)
	go c.hub.StartClientReading(client)
}
