package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
)

type validatable interface {
	Validate(validate *validator.Validate) error
}

// bindValid binds the request into data then validates it.
func bindValid(ctx echo.Context, validate *validator.Validate, data validatable, name string) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrapf(err, "binding to %s", name)
	}
	return data.Validate(validate)
}

// dateParam parses the named path param as an ISO date.
func dateParam(ctx echo.Context, name string) (core.Date, error) {
	d, err := core.ParseDate(ctx.Param(name))
	if err != nil {
		return core.Date{}, core.NewFieldValidationError(name, "invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}
