package runner

import (
	"encoding/json"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// CommandError is returned when a command could not be started or exited
// unsuccessfully. Code is nil when the process never ran or was killed by a
// signal; Signal is set only in the latter case.
type CommandError struct {
	Command string
	Code    *int
	Killed  bool
	Signal  *string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the client-facing payload. Stderr stays server-side.
func (e *CommandError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd    string  `json:"cmd"`
		Code   *int    `json:"code"`
		Killed bool    `json:"killed"`
		Signal *string `json:"signal"`
	}{
		Cmd:    e.Command,
		Code:   e.Code,
		Killed: e.Killed,
		Signal: e.Signal,
	})
}

func unixSignalName(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return name
	}
	return sig.String()
}
