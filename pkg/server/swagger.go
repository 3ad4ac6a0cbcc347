package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"hoststatus/pkg/log"

	"github.com/labstack/echo/v4"
)

//go:embed web/swagger-ui.html web/swagger.yml
var webFS embed.FS

const (
	swaggerUITemplate = "web/swagger-ui.html"
	swaggerSpecFile   = "web/swagger.yml"
)

func (hs *HostStatusServer) serveSwaggerUI(ctx echo.Context) error {
	tmpl, err := template.ParseFS(webFS, swaggerUITemplate)
	if err != nil {
		log.Error().Err(err).Str("template_path", swaggerUITemplate).Msg("Failed to load template")
		return ctx.String(http.StatusInternalServerError, fmt.Sprintf("Failed to load template: %v", err))
	}

	data := struct {
		Title       string
		SwaggerPath string
	}{
		Title:       hs.cfg.ServiceName + " API Documentation",
		SwaggerPath: "/swagger.yml",
	}

	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(http.StatusOK)
	return tmpl.Execute(ctx.Response().Writer, data)
}

func (hs *HostStatusServer) serveSwaggerSpec(ctx echo.Context) error {
	data, err := webFS.ReadFile(swaggerSpecFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read embedded swagger spec")
		return ctx.String(http.StatusInternalServerError, "Failed to load API specification")
	}
	return ctx.Blob(http.StatusOK, "application/yaml", data)
}
