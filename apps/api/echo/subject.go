package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/subject"
)

type subjectApi struct {
	svc      *subject.Service
	notes    *note.Service
	validate *validator.Validate
}

func registerSubjectAPI(g *echo.Group, svc *subject.Service, notes *note.Service, validate *validator.Validate) {
	api := subjectApi{
		svc:      svc,
		notes:    notes,
		validate: validate,
	}

	sg := g.Group("/subjects")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PATCH("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data subject.NewSubject
	if err = bindValid(ctx, api.validate, &data, "NewSubject"); err != nil {
		return err
	}

	subj, err := api.svc.Create(ctx.Request().Context(), uid, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subj)
}

func (api *subjectApi) query(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.List(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	subj, err := api.svc.GetByID(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting subject")
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *subjectApi) update(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data subject.UpdateSubject
	if err = bindValid(ctx, api.validate, &data, "UpdateSubject"); err != nil {
		return err
	}

	subj, err := api.svc.Update(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), uid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	api.notes.Forget(uid) // notes went with the subject
	return ctx.NoContent(http.StatusNoContent)
}
