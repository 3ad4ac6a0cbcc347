package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
}

func (s *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(s.tempDir, "hoststatus.yml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefault() {
	cfg := Default()

	s.Equal(3000, cfg.Port)
	s.Equal("Service2", cfg.ServiceName)
	s.Equal("ps ax", cfg.ProcessCommand)
	s.Equal("df -h", cfg.DiskCommand)
	s.Equal("docker ps -q | xargs -I {} docker stop {}", cfg.StopCommand)
	s.Zero(cfg.CommandTimeout)
	s.Equal(":3000", cfg.Addr())
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestLoadOverridesDefaults() {
	path := s.writeConfig(`
port: 8199
service_name: Service1
host: 127.0.0.1
command_timeout: 15s
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(8199, cfg.Port)
	s.Equal("Service1", cfg.ServiceName)
	s.Equal(15*time.Second, cfg.CommandTimeout)
	s.Equal("127.0.0.1:8199", cfg.Addr())
	// untouched keys keep defaults
	s.Equal(DefaultDiskCommand, cfg.DiskCommand)
	s.Equal(DefaultShutdownTimeout, cfg.ShutdownTimeout)
}

func (s *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(s.tempDir, "missing.yml"))
	s.Error(err)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *ConfigTestSuite) TestLoadInvalidYAML() {
	path := s.writeConfig("port: [not, a, number")

	_, err := Load(path)
	s.Error(err)
	s.Contains(err.Error(), "failed to parse config")
}

func (s *ConfigTestSuite) TestValidate() {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero port", func(c *Config) { c.Port = 0 }, ErrInvalidPort},
		{"port too large", func(c *Config) { c.Port = 70000 }, ErrInvalidPort},
		{"blank shell", func(c *Config) { c.Shell = " " }, ErrEmptyCommand},
		{"blank process command", func(c *Config) { c.ProcessCommand = "" }, ErrEmptyCommand},
		{"blank disk command", func(c *Config) { c.DiskCommand = "" }, ErrEmptyCommand},
		{"blank stop command", func(c *Config) { c.StopCommand = "" }, ErrEmptyCommand},
		{"negative timeout", func(c *Config) { c.CommandTimeout = -time.Second }, ErrNegativeDuration},
		{"negative shutdown", func(c *Config) { c.ShutdownTimeout = -time.Second }, ErrNegativeDuration},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := Default()
			tt.mutate(&cfg)
			s.ErrorIs(cfg.Validate(), tt.target)
		})
	}
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
