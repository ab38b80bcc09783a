package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/note"
)

// un-authed endpoints
func registerPublicAPI(g *echo.Group, notes *note.Service) {
	g.GET("/notes/:publicId", func(ctx echo.Context) error {
		n, err := notes.GetPublic(ctx.Request().Context(), ctx.Param("publicId"))
		if err != nil {
			return errors.Wrap(err, "getting public note")
		}
		return ctx.JSON(http.StatusOK, n)
	})
}
