package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/profile"
)

// profileMiddleware records the profile of the token subject before handling the request.
func profileMiddleware(svc *profile.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			p, err := svc.Ensure(ctx.Request().Context(), claims.Subject, claims.Email, claims.Name)
			if err != nil {
				return errors.Wrap(err, "ensuring profile")
			}
			ctx.Set(contextProfileKey, p)
			return next(ctx)
		}
	}
}
