package server

import (
	"net/http"

	"hoststatus/pkg/log"

	"github.com/labstack/echo/v4"
)

// getNodeInfo handles the GET /node/info endpoint.
func (hs *HostStatusServer) getNodeInfo(ctx echo.Context) error {
	info, err := hs.node.NodeInfo(hs.cfg.StoragePath)
	if err != nil {
		log.Error().Err(err).Str("storage_path", hs.cfg.StoragePath).Msg("Failed to collect node information")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to collect node information",
		})
	}

	return ctx.JSON(http.StatusOK, info)
}
