package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"hoststatus/pkg/client"
	"hoststatus/pkg/log"
	"hoststatus/pkg/models"

	"github.com/dustin/go-humanize"
)

const usage = `Usage: hoststatusctl [flags] <command>

Commands:
  status   print the host status report
  node     print uptime, load, memory and storage
  stop     stop every running container on the host

Flags:
`

func main() {
	_ = log.Logger

	defaults := client.DefaultOptions()
	addr := flag.String("addr", "http://127.0.0.1:3000", "Host status service URL")
	retryMax := flag.Int("retry-max", defaults.RetryMax, "Maximum number of retries on connection errors")
	retryWaitMin := flag.Duration("retry-wait-min", defaults.RetryWaitMin, "Minimum wait time between retries")
	retryWaitMax := flag.Duration("retry-wait-max", defaults.RetryWaitMax, "Maximum wait time between retries")
	timeout := flag.Duration("timeout", defaults.RequestTimeout, "Request timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	retries := max(*retryMax, 0)
	c := client.New(*addr, client.Options{
		RetryMax:       retries,
		RetryWaitMin:   *retryWaitMin,
		RetryWaitMax:   *retryWaitMax,
		RequestTimeout: *timeout,
	})

	ctx, cancel := commandContext(*timeout, retries)
	defer cancel()

	if err := run(ctx, c, flag.Arg(0), os.Stdout); err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Str("addr", *addr).Msg("Request failed")
	}
}

// commandContext bounds the whole command by one timeout per attempt.
// A zero timeout means no deadline, as it does for http.Client.
func commandContext(timeout time.Duration, retries int) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout*time.Duration(max(retries, 0)+1))
}

func run(ctx context.Context, c *client.Client, command string, out io.Writer) error {
	switch command {
	case "status":
		report, err := c.Status(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "node":
		info, err := c.NodeInfo(ctx)
		if err != nil {
			return err
		}
		printNodeInfo(out, info)
		return nil
	case "stop":
		text, err := c.StopContainers(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printNodeInfo(out io.Writer, info *models.NodeInfo) {
	fmt.Fprintf(out, "Hostname:  %s\n", info.Hostname)
	fmt.Fprintf(out, "Uptime:    %s (%d s)\n", info.Uptime, info.UptimeSeconds)
	fmt.Fprintf(out, "Load:      %.2f %.2f %.2f\n",
		info.LoadAverages.Load1, info.LoadAverages.Load5, info.LoadAverages.Load15)
	fmt.Fprintf(out, "Memory:    %s used / %s total, %s available\n",
		humanize.IBytes(info.Memory.Used), humanize.IBytes(info.Memory.Total), humanize.IBytes(info.Memory.Available))
	fmt.Fprintf(out, "Storage:   %s used / %s total, %s available (%s)\n",
		humanize.IBytes(info.Storage.Used), humanize.IBytes(info.Storage.Total), humanize.IBytes(info.Storage.Available),
		info.Storage.Path)
}
