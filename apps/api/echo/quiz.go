package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core/quiz"
)

type quizApi struct {
	svc      *quiz.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, svc *quiz.Service, validate *validator.Validate) {
	api := quizApi{
		svc:      svc,
		validate: validate,
	}

	qg := g.Group("/quiz/sessions")
	qg.GET("", api.query)
	qg.POST("", api.start)
	qg.GET("/:id", api.retrieve)
	qg.POST("/:id/answers", api.answer)
	qg.POST("/:id/complete", api.complete)

	fg := g.Group("/subjects/:id/flashcards")
	fg.GET("", api.queryFlashcards)
	fg.POST("", api.createFlashcard)
	fg.DELETE("/:itemId", api.destroyFlashcard)
}

// Handlers

func (api *quizApi) start(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewSession
	if err = bindValid(ctx, api.validate, &data, "NewSession"); err != nil {
		return err
	}

	sess, err := api.svc.Start(ctx.Request().Context(), uid, data)
	if err != nil {
		return errors.Wrap(err, "starting quiz")
	}
	return ctx.JSON(http.StatusCreated, sess.Redacted())
}

func (api *quizApi) query(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var filter quiz.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	sessions, err := api.svc.List(ctx.Request().Context(), uid, filter)
	if err != nil {
		return errors.Wrap(err, "querying quiz sessions")
	}
	return ctx.JSON(http.StatusOK, lo.Map(sessions, func(s quiz.Session, _ int) quiz.Session { return s.Redacted() }))
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	sess, err := api.svc.Get(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting quiz session")
	}
	return ctx.JSON(http.StatusOK, sess.Redacted())
}

func (api *quizApi) answer(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data quiz.SubmitAnswer
	if err = bindValid(ctx, api.validate, &data, "SubmitAnswer"); err != nil {
		return err
	}

	res, err := api.svc.Answer(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "answering question")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) complete(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	sess, err := api.svc.Complete(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing quiz session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

// Flashcards

func (api *quizApi) queryFlashcards(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	cards, err := api.svc.ListFlashcards(ctx.Request().Context(), uid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying flashcards")
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *quizApi) createFlashcard(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewFlashcard
	if err = bindValid(ctx, api.validate, &data, "NewFlashcard"); err != nil {
		return err
	}

	fc, err := api.svc.CreateFlashcard(ctx.Request().Context(), uid, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating flashcard")
	}
	return ctx.JSON(http.StatusCreated, fc)
}

func (api *quizApi) destroyFlashcard(ctx echo.Context) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteFlashcard(ctx.Request().Context(), uid, ctx.Param("id"), ctx.Param("itemId")); err != nil {
		return errors.Wrap(err, "deleting flashcard")
	}
	return ctx.NoContent(http.StatusNoContent)
}
