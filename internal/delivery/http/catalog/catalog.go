package http_catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VICHiNG16/MusicDuel/internal/model"
)

type ArtistSearcher interface {
	SearchArtists(ctx context.Context, fragment string) ([]model.Artist, error)
}

type Controller struct {
	catalog ArtistSearcher
	logger  *slog.Logger
}

func New(catalog ArtistSearcher) *Controller {
	return &Controller{
		catalog: catalog,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/artists", c.search)
}

type ArtistsResponse struct {
	Artists []model.Artist `json:"artists"`
}

// search fails open together with the catalog client: the home screen's
// autocomplete never surfaces an error, just an empty list.
func (c *Controller) search(ctx *gin.Context) {
	artists, err := c.catalog.SearchArtists(ctx, ctx.Query("q"))
	if err != nil || artists == nil {
		artists = []model.Artist{}
	}

	ctx.JSON(http.StatusOK, ArtistsResponse{
		Artists: artists,
	})
}
