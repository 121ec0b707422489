package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core/identity"
)

const contextPrincipalKey = "principal"

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// authMiddleware verifies the bearer credential on every request and attaches
// the resulting Principal to the echo.Context.
func authMiddleware(svc *identity.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := identity.BearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			prin, err := svc.Authenticate(ctx.Request().Context(), token)
			if err != nil {
				return errors.Wrap(err, "authenticating")
			}
			ctx.Set(contextPrincipalKey, prin)
			return next(ctx)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			prin, err := getContextPrincipal(ctx)
			if err != nil {
				return err
			}
			if prin.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func getContextPrincipal(ctx echo.Context) (identity.Principal, error) {
	if prin, ok := ctx.Get(contextPrincipalKey).(identity.Principal); ok {
		return prin, nil
	}
	return identity.Principal{}, errUnauthorized
}
