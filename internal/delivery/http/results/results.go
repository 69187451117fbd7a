package http_results

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	http_common "github.com/VICHiNG16/MusicDuel/internal/delivery/http/common"
	"github.com/VICHiNG16/MusicDuel/internal/model"
)

const defaultLimit = 20

type Repository interface {
	Recent(ctx context.Context, limit int) ([]model.MatchResult, error)
}

type Controller struct {
	repo   Repository
	logger *slog.Logger
}

func New(repo Repository) *Controller {
	return &Controller{
		repo:   repo,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/results", c.recent)
}

type ResultsResponse struct {
	Results []model.MatchResult `json:"results"`
}

func (c *Controller) recent(ctx *gin.Context) {
	limit := defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "limit must be between 1 and 100",
			})
			return
		}
		limit = n
	}

	results, err := c.repo.Recent(ctx, limit)
	if err != nil {
		c.logger.Error("failed to load results", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}
	if results == nil {
		results = []model.MatchResult{}
	}

	ctx.JSON(http.StatusOK, ResultsResponse{
		Results: results,
	})
}
