package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/planner"
)

type plannerApi struct {
	svc      *planner.Service
	validate *validator.Validate
}

func registerPlannerAPI(g *echo.Group, svc *planner.Service, validate *validator.Validate) {
	api := plannerApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/subjects/:id")
	sg.GET("/planner", api.overview)
	sg.PUT("/exam-date", api.setExamDate)

	sg.POST("/deadlines", api.addDeadline)
	sg.DELETE("/deadlines/:itemId", api.removeDeadline)

	sg.POST("/reading-items", api.addReadingItems)
	sg.POST("/reading-items/:itemId/toggle", api.toggleReadingItem)
	sg.DELETE("/reading-items/:itemId", api.removeReadingItem)

	sg.POST("/goals", api.addGoal)
	sg.DELETE("/goals/:itemId", api.removeGoal)
}

// Handlers

func (api *plannerApi) overview(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	ov, err := api.svc.Overview(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting planner overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *plannerApi) setExamDate(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data planner.SetExamDate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetExamDate")
	}
	if data.ExamDate != nil && data.ExamDate.IsZero() {
		data.ExamDate = nil
	}

	subj, err := api.svc.SetExamDate(ctx.Request().Context(), uid, ctx.Param("id"), data.ExamDate)
	if err != nil {
		return errors.Wrap(err, "setting exam date")
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *plannerApi) addDeadline(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data planner.NewDeadline
	if err = bindValid(ctx, api.validate, &data, "NewDeadline"); err != nil {
		return err
	}

	dl, err := api.svc.AddDeadline(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding deadline")
	}
	return ctx.JSON(http.StatusCreated, dl)
}

func (api *plannerApi) removeDeadline(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveDeadline(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("itemId")); err != nil {
		return errors.Wrap(err, "removing deadline")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *plannerApi) addReadingItems(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data planner.NewReadingItem
	if err = bindValid(ctx, api.validate, &data, "NewReadingItem"); err != nil {
		return err
	}

	items, err := api.svc.AddReadingItems(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding reading items")
	}
	return ctx.JSON(http.StatusCreated, items)
}

func (api *plannerApi) toggleReadingItem(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	item, err := api.svc.ToggleReadingItem(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		return errors.Wrap(err, "toggling reading item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *plannerApi) removeReadingItem(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveReadingItem(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("itemId")); err != nil {
		return errors.Wrap(err, "removing reading item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *plannerApi) addGoal(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data planner.NewGoal
	if err = bindValid(ctx, api.validate, &data, "NewGoal"); err != nil {
		return err
	}

	goal, err := api.svc.AddGoal(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding goal")
	}
	return ctx.JSON(http.StatusCreated, goal)
}

func (api *plannerApi) removeGoal(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveGoal(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("itemId")); err != nil {
		return errors.Wrap(err, "removing goal")
	}
	return ctx.NoContent(http.StatusNoContent)
}
