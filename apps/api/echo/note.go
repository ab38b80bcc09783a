package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core/note"
)

type noteApi struct {
	svc      *note.Service
	validate *validator.Validate
}

func registerNoteAPI(g *echo.Group, svc *note.Service, validate *validator.Validate) {
	api := noteApi{
		svc:      svc,
		validate: validate,
	}

	ng := g.Group("/notes")
	ng.GET("", api.query)
	ng.POST("", api.create)

	// detail endpoints
	dg := ng.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/share", api.share)
	dg.GET("/tags", api.queryNoteTags)
	dg.PUT("/tags/:tagId", api.addTag)
	dg.DELETE("/tags/:tagId", api.removeTag)

	tg := g.Group("/tags")
	tg.GET("", api.queryTags)
	tg.POST("", api.createTag)
}

// Handlers

func (api *noteApi) create(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data note.NewNote
	if err = bindValid(ctx, api.validate, &data, "NewNote"); err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), uid, data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noteApi) query(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var filter note.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	notes, err := api.svc.List(ctx.Request().Context(), uid, filter)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) retrieve(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.GetByID(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteApi) update(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data note.UpdateNote
	if err = bindValid(ctx, api.validate, &data, "UpdateNote"); err != nil {
		return err
	}

	n, err := api.svc.Update(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteApi) destroy(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), uid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *noteApi) share(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.ToggleShare(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling share")
	}
	return ctx.JSON(http.StatusOK, n)
}

// Tags

func (api *noteApi) queryTags(ctx echo.Context) error {
	tags, err := api.svc.ListTags(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tags")
	}
	return ctx.JSON(http.StatusOK, tags)
}

func (api *noteApi) createTag(ctx echo.Context) error {
	var data note.NewTag
	if err := bindValid(ctx, api.validate, &data, "NewTag"); err != nil {
		return err
	}
	tag, err := api.svc.CreateTag(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating tag")
	}
	return ctx.JSON(http.StatusCreated, tag)
}

func (api *noteApi) queryNoteTags(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	tags, err := api.svc.NoteTags(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying note tags")
	}
	return ctx.JSON(http.StatusOK, tags)
}

func (api *noteApi) addTag(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.AddTag(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("tagId")); err != nil {
		return errors.Wrap(err, "tagging note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *noteApi) removeTag(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveTag(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("tagId")); err != nil {
		return errors.Wrap(err, "untagging note")
	}
	return ctx.NoContent(http.StatusNoContent)
}
