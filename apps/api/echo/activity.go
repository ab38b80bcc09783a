package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/activity"
)

type activityApi struct {
	svc      *activity.Service
	validate *validator.Validate
}

func registerActivityAPI(g *echo.Group, svc *activity.Service, validate *validator.Validate) {
	api := activityApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/activity")
	ag.GET("", api.query)
	ag.GET("/week", api.week)
	ag.PUT("/:date", api.save)
}

// Handlers

func (api *activityApi) query(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var filter activity.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	days, err := api.svc.Query(ctx.Request().Context(), uid, filter)
	if err != nil {
		return errors.Wrap(err, "querying activity")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *activityApi) week(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	week, err := api.svc.Week(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "getting activity week")
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *activityApi) save(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}
	var data activity.UpdateDaily
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDaily")
	}

	day, err := api.svc.Save(ctx.Request().Context(), uid, date, data)
	if err != nil {
		return errors.Wrap(err, "saving activity")
	}
	return ctx.JSON(http.StatusOK, day)
}
