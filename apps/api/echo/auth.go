package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core/identity"
)

type authApi struct {
	svc      *identity.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *identity.Service, validate *validator.Validate) {
	api := authApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")
	ag.POST("/verify", api.verify)
	ag.GET("/me", api.me, auth)
}

// VerifyRequest carries the identity provider credential obtained by the
// frontend sign-in flow.
type VerifyRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

func (vr *VerifyRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(vr)
}

// Handlers

func (api *authApi) verify(ctx echo.Context) error {
	var data VerifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := api.svc.VerifySignIn(ctx.Request().Context(), data.IDToken)
	if err != nil {
		return errors.Wrap(err, "verifying sign-in")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "user": prin})
}

func (api *authApi) me(ctx echo.Context) error {
	prin, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	profile, err := api.svc.Me(ctx.Request().Context(), prin.UID)
	if err != nil {
		return errors.Wrap(err, "fetching profile")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}
