package client

import (
	"fmt"
	"net/http"
)

// ResponseError is returned when the service answers with a non-200 status.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return "service returned status " + http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("service returned status %s: %s", http.StatusText(e.StatusCode), e.Body)
}
