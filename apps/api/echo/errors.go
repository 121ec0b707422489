package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
	"github.com/trezcool/karatasi/core/submission"
	"github.com/trezcool/karatasi/core/template"
)

// httpError is the uniform error envelope: a stable category string plus a
// human-readable message (or a field error map for validation failures).
type httpError struct {
	Error   string      `json:"error"`
	Message interface{} `json:"message,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps our errors
// to the wire envelope. signalShutdown is called in order to gracefully shutdown the
// Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch {
			case origErr == identity.ErrMissingCredential || origErr == identity.ErrInvalidCredential:
				code = http.StatusUnauthorized
				message = origErr.Error()
			case origErr == identity.ErrDomainNotAllowed || origErr == submission.ErrPermissionDenied:
				code = http.StatusForbidden
				message = origErr.Error()
			case origErr == submission.ErrNotFound || origErr == identity.ErrProfileNotFound || template.NotFound(err):
				code = http.StatusNotFound
				message = origErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var prin identity.Principal
				if p, pErr := getContextPrincipal(ctx); pErr == nil {
					prin = p
				}
				logger.Error(msg, errors.Wrap(err, msg), prin)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, httpError{Error: http.StatusText(code), Message: message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
