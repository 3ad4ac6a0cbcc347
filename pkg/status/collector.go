package status

import (
	"context"
	"strings"

	"hoststatus/pkg/log"
	"hoststatus/pkg/models"
	"hoststatus/pkg/runner"
)

// HostProbe supplies the non-subprocess parts of a report.
type HostProbe interface {
	IPv4Address() (string, error)
	UptimeSeconds() (float64, error)
}

// Options configures a Collector.
type Options struct {
	ServiceName    string
	ProcessCommand string
	DiskCommand    string
}

// Collector assembles a Status Report. It keeps no state between calls, so a
// single instance serves any number of concurrent requests.
type Collector struct {
	opts   Options
	runner runner.Runner
	host   HostProbe
}

// NewCollector creates a collector running commands through r.
func NewCollector(opts Options, r runner.Runner, host HostProbe) *Collector {
	return &Collector{
		opts:   opts,
		runner: r,
		host:   host,
	}
}

// Collect lists processes, then disk usage, then reads the IPv4 address and
// uptime. The disk command only runs once the process listing succeeded; the
// first failure is returned as is.
func (c *Collector) Collect(ctx context.Context) (*models.StatusReport, error) {
	processes, err := c.runner.Run(ctx, c.opts.ProcessCommand)
	if err != nil {
		log.Error().Err(err).Str("command", c.opts.ProcessCommand).Msg("Failed to list processes")
		return nil, err
	}

	disk, err := c.runner.Run(ctx, c.opts.DiskCommand)
	if err != nil {
		log.Error().Err(err).Str("command", c.opts.DiskCommand).Msg("Failed to read disk usage")
		return nil, err
	}

	ip, err := c.host.IPv4Address()
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve IPv4 address")
		return nil, err
	}

	uptime, err := c.host.UptimeSeconds()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uptime")
		return nil, err
	}

	return &models.StatusReport{
		Service:            c.opts.ServiceName,
		IPAddress:          ip,
		RunningProcesses:   SplitLines(processes.Stdout),
		AvailableDiskSpace: disk.Stdout,
		UptimeSeconds:      uptime,
	}, nil
}

// SplitLines splits command output on newlines and drops empty lines.
// The result is never nil.
func SplitLines(output string) []string {
	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
