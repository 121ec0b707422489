package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/template"
)

type templateApi struct {
	resolver *template.Resolver
	logger   core.Logger
}

// Template documents are handed out freely; no credential required.
func registerTemplateAPI(g *echo.Group, resolver *template.Resolver, logger core.Logger) {
	api := templateApi{
		resolver: resolver,
		logger:   logger,
	}

	tg := g.Group("/templates")
	tg.GET("", api.list)
	tg.GET("/download/:id", api.download)
}

type templateEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Handlers

func (api *templateApi) list(ctx echo.Context) error {
	catalog := api.resolver.Catalog()
	entries := make([]templateEntry, 0, len(catalog))
	for _, desc := range catalog {
		entries = append(entries, templateEntry{
			ID:          desc.ID,
			DisplayName: desc.DisplayName,
			Description: desc.Description,
			URL:         "/v1/templates/download/" + desc.ID,
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "count": len(entries), "data": entries})
}

func (api *templateApi) download(ctx echo.Context) error {
	res, err := api.resolver.Resolve(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		// a catalogued template with no artifact on disk is an ops problem,
		// not a client one; log it before returning the 404
		if missErr, ok := errors.Cause(err).(*template.ArtifactMissingError); ok {
			api.logger.Error(missErr.Error(), missErr)
		}
		return errors.Wrap(err, "resolving template")
	}

	rc, err := api.resolver.Open(ctx.Request().Context(), res)
	if err != nil {
		return errors.Wrap(err, "opening template artifact")
	}
	defer rc.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	return ctx.Stream(http.StatusOK, res.ContentType, rc)
}
