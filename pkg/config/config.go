package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = 3000
	DefaultServiceName     = "Service2"
	DefaultShell           = "/bin/sh"
	DefaultProcessCommand  = "ps ax"
	DefaultDiskCommand     = "df -h"
	DefaultStopCommand     = "docker ps -q | xargs -I {} docker stop {}"
	DefaultStoragePath     = "/"
	DefaultDebugAddr       = "localhost:6060"
	DefaultShutdownTimeout = 10 * time.Second
	maxPort                = 65535
)

// Config holds everything the daemon needs at startup. It is built once in
// main and handed to the server; nothing reads process globals afterwards.
type Config struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ServiceName     string        `yaml:"service_name"`
	Shell           string        `yaml:"shell"`
	ProcessCommand  string        `yaml:"process_command"`
	DiskCommand     string        `yaml:"disk_command"`
	StopCommand     string        `yaml:"stop_command"`
	CommandTimeout  time.Duration `yaml:"command_timeout"` // 0 disables the timeout
	StoragePath     string        `yaml:"storage_path"`
	Debug           bool          `yaml:"debug"`
	DebugAddr       string        `yaml:"debug_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration the service runs with when nothing is overridden.
func Default() Config {
	return Config{
		Port:            DefaultPort,
		ServiceName:     DefaultServiceName,
		Shell:           DefaultShell,
		ProcessCommand:  DefaultProcessCommand,
		DiskCommand:     DefaultDiskCommand,
		StopCommand:     DefaultStopCommand,
		StoragePath:     DefaultStoragePath,
		DebugAddr:       DefaultDebugAddr,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration without modifying it.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	commands := []struct {
		name  string
		value string
	}{
		{"shell", c.Shell},
		{"process_command", c.ProcessCommand},
		{"disk_command", c.DiskCommand},
		{"stop_command", c.StopCommand},
	}
	for _, cmd := range commands {
		if strings.TrimSpace(cmd.value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptyCommand, cmd.name)
		}
	}

	if c.CommandTimeout < 0 {
		return fmt.Errorf("%w: command_timeout", ErrNegativeDuration)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout", ErrNegativeDuration)
	}

	return nil
}

// Addr is the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
