package hostinfo

import "errors"

var (
	// ErrNoIPv4Address is returned when no non-loopback interface carries an IPv4 address.
	ErrNoIPv4Address = errors.New("no IPv4 network interface found")

	// ErrMalformedProcFile is returned when a procfs file cannot be parsed.
	ErrMalformedProcFile = errors.New("malformed proc file")
)
