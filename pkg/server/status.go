package server

import (
	"errors"
	"net/http"

	"hoststatus/pkg/log"
	"hoststatus/pkg/models"
	"hoststatus/pkg/runner"

	"github.com/labstack/echo/v4"
)

const stopFailedMessage = "Error stopping containers."

// getStatus handles GET /.
func (hs *HostStatusServer) getStatus(ctx echo.Context) error {
	report, err := hs.status.Collect(detached(ctx))
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID(ctx)).Msg("Failed to collect status report")

		// Command failures go back verbatim as the raw error payload.
		var cmdErr *runner.CommandError
		if errors.As(err, &cmdErr) {
			return ctx.JSON(http.StatusInternalServerError, cmdErr)
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, report)
}

// stopContainers handles POST /stop. Failure details stay in the server log,
// written once by the stopper.
func (hs *HostStatusServer) stopContainers(ctx echo.Context) error {
	output, err := hs.stopper.StopAll(detached(ctx))
	if err != nil {
		log.Debug().Str("request_id", requestID(ctx)).Msg("Stop request failed")
		return ctx.String(http.StatusInternalServerError, stopFailedMessage)
	}

	return ctx.String(http.StatusOK, output)
}

// getHealth handles GET /healthz without touching the host.
func (hs *HostStatusServer) getHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, models.Health{
		Status:  "ok",
		Service: hs.cfg.ServiceName,
		Version: hs.version,
	})
}
