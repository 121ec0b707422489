package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core/submission"
)

type submissionApi struct {
	svc      *submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *submission.Service, validate *validator.Validate) {
	api := submissionApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/submissions", auth)
	sg.POST("", api.create)
	sg.GET("", api.query, adminMiddleware())
	sg.GET("/:id", api.retrieve)
	sg.PATCH("/:id", api.updateStatus, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	prin, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form expected")
	}

	fields := make(map[string]string, len(form.Value))
	for name, values := range form.Value {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	var upload *submission.Upload
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		src, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer src.Close()
		upload = &submission.Upload{
			FieldName:   name,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     src,
		}
		break // a single attachment per submission
	}

	sub, err := api.svc.Create(ctx.Request().Context(), prin, fields, upload)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "submissionId": sub.ID, "data": sub})
}

func (api *submissionApi) query(ctx echo.Context) error {
	var filter submission.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	subs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "count": len(subs), "data": subs})
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	prin, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	sub, err := api.svc.GetByID(ctx.Request().Context(), prin, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting submission")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": sub})
}

func (api *submissionApi) updateStatus(ctx echo.Context) error {
	prin, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data submission.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.UpdateStatus(ctx.Request().Context(), prin, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating submission status")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": sub})
}

func (api *submissionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting submission")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "submission deleted"})
}
