package main

import (
	_ "embed"
	"flag"
	"os"
	"strings"

	"hoststatus/pkg/config"
	"hoststatus/pkg/containers"
	"hoststatus/pkg/hostinfo"
	"hoststatus/pkg/log"
	"hoststatus/pkg/runner"
	"hoststatus/pkg/server"
	"hoststatus/pkg/status"
)

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	defaults := config.Default()
	configPath := flag.String("config", "", "Optional YAML configuration file")
	host := flag.String("host", defaults.Host, "Listen host (empty for all interfaces)")
	port := flag.Int("port", defaults.Port, "Listen port")
	serviceName := flag.String("service", defaults.ServiceName, "Service name reported in the status report")
	commandTimeout := flag.Duration("command-timeout", defaults.CommandTimeout, "Per-command timeout (0 disables)")
	storagePath := flag.String("storage", defaults.StoragePath, "Path measured by /node/info")
	debug := flag.Bool("debug", false, "Enable debug logging and the pprof server")
	debugAddr := flag.String("debug-addr", defaults.DebugAddr, "Debug server address (pprof)")
	flag.Parse()

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
		}
		cfg = loaded
	}

	// Explicitly set flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "service":
			cfg.ServiceName = *serviceName
		case "command-timeout":
			cfg.CommandTimeout = *commandTimeout
		case "storage":
			cfg.StoragePath = *storagePath
		case "debug":
			cfg.Debug = *debug
		case "debug-addr":
			cfg.DebugAddr = *debugAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.Debug {
		log.SetDebugMode()
		log.Debug().Msg("Debug mode enabled")
	}

	shell := runner.NewShellRunner(cfg.Shell, cfg.CommandTimeout)
	probe := hostinfo.New()
	collector := status.NewCollector(status.Options{
		ServiceName:    cfg.ServiceName,
		ProcessCommand: cfg.ProcessCommand,
		DiskCommand:    cfg.DiskCommand,
	}, shell, probe)
	stopper := containers.NewStopper(cfg.StopCommand, shell)

	srv := server.NewHostStatusServer(cfg, strings.TrimSpace(Version), collector, stopper, probe)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	os.Exit(0)
}
