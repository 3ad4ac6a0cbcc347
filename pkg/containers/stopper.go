package containers

import (
	"context"
	"errors"

	"hoststatus/pkg/log"
	"hoststatus/pkg/runner"
)

// FallbackMessage is reported when the stop pipeline succeeds without output,
// which is what happens when no container was running.
const FallbackMessage = "All containers stopped successfully."

// Stopper stops every running container through the container runtime CLI.
type Stopper struct {
	command string
	runner  runner.Runner
}

// NewStopper returns a stopper that runs command, typically
// "docker ps -q | xargs -I {} docker stop {}".
func NewStopper(command string, r runner.Runner) *Stopper {
	return &Stopper{
		command: command,
		runner:  r,
	}
}

// StopAll runs the stop pipeline once. Only the pipeline's aggregate exit
// status is known; containers stopped before a failure stay stopped. The
// returned error carries stderr and is meant for server-side logs only.
func (s *Stopper) StopAll(ctx context.Context) (string, error) {
	result, err := s.runner.Run(ctx, s.command)
	if err != nil {
		event := log.Error().Err(err).Str("command", s.command)
		var cmdErr *runner.CommandError
		if errors.As(err, &cmdErr) {
			event = event.Str("stderr", cmdErr.Stderr)
		}
		event.Msg("Error stopping containers")
		return "", err
	}

	if result.Stdout == "" {
		return FallbackMessage, nil
	}

	log.Info().Str("output", result.Stdout).Msg("Containers stopped")
	return result.Stdout, nil
}
