package status

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"hoststatus/pkg/hostinfo"
	"hoststatus/pkg/runner"
)

// MockRunner returns canned results per command and counts invocations.
type MockRunner struct {
	mu      sync.Mutex
	results map[string]*runner.Result
	errors  map[string]error
	calls   map[string]int
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		results: make(map[string]*runner.Result),
		errors:  make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (m *MockRunner) Run(_ context.Context, command string) (*runner.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[command]++
	if err, ok := m.errors[command]; ok {
		return &runner.Result{Stderr: "mock failure"}, err
	}
	if result, ok := m.results[command]; ok {
		return result, nil
	}
	return &runner.Result{}, nil
}

func (m *MockRunner) Calls(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[command]
}

// MockHost is a HostProbe with fixed answers.
type MockHost struct {
	ip        string
	ipErr     error
	uptime    float64
	uptimeErr error
}

func (h *MockHost) IPv4Address() (string, error) {
	return h.ip, h.ipErr
}

func (h *MockHost) UptimeSeconds() (float64, error) {
	return h.uptime, h.uptimeErr
}

type CollectorTestSuite struct {
	suite.Suite
	runner    *MockRunner
	host      *MockHost
	collector *Collector
}

func (s *CollectorTestSuite) SetupTest() {
	s.runner = NewMockRunner()
	s.runner.results["ps ax"] = &runner.Result{Stdout: "  PID TTY STAT TIME COMMAND\n    1 ?   Ss   0:01 /sbin/init\n\n   42 ?   S    0:00 sshd\n"}
	s.runner.results["df -h"] = &runner.Result{Stdout: "Filesystem Size Used Avail Use% Mounted on\n/dev/sda1 50G 20G 30G 40% /\n"}
	s.host = &MockHost{ip: "10.1.2.3", uptime: 3600.5}
	s.collector = NewCollector(Options{
		ServiceName:    "Service2",
		ProcessCommand: "ps ax",
		DiskCommand:    "df -h",
	}, s.runner, s.host)
}

func (s *CollectorTestSuite) TestCollect() {
	report, err := s.collector.Collect(context.Background())
	s.Require().NoError(err)

	s.Equal("Service2", report.Service)
	s.Equal("10.1.2.3", report.IPAddress)
	s.Equal([]string{
		"  PID TTY STAT TIME COMMAND",
		"    1 ?   Ss   0:01 /sbin/init",
		"   42 ?   S    0:00 sshd",
	}, report.RunningProcesses)
	s.Equal(s.runner.results["df -h"].Stdout, report.AvailableDiskSpace)
	s.InDelta(3600.5, report.UptimeSeconds, 0.0001)
	s.Equal(1, s.runner.Calls("ps ax"))
	s.Equal(1, s.runner.Calls("df -h"))
}

func (s *CollectorTestSuite) TestProcessFailureSkipsDiskCommand() {
	code := 1
	failure := &runner.CommandError{Command: "ps ax", Code: &code, Err: errors.New("exit status 1")}
	s.runner.errors["ps ax"] = failure

	report, err := s.collector.Collect(context.Background())
	s.Nil(report)
	s.ErrorIs(err, failure)
	s.Equal(1, s.runner.Calls("ps ax"))
	s.Equal(0, s.runner.Calls("df -h"), "disk command must not run after a failed process listing")
}

func (s *CollectorTestSuite) TestDiskFailure() {
	failure := &runner.CommandError{Command: "df -h", Err: errors.New("exec: not found")}
	s.runner.errors["df -h"] = failure

	report, err := s.collector.Collect(context.Background())
	s.Nil(report)

	var cmdErr *runner.CommandError
	s.Require().ErrorAs(err, &cmdErr)
	s.Equal("df -h", cmdErr.Command)
	s.Equal(1, s.runner.Calls("ps ax"))
}

func (s *CollectorTestSuite) TestMissingIPv4Address() {
	s.host.ipErr = hostinfo.ErrNoIPv4Address

	_, err := s.collector.Collect(context.Background())
	s.ErrorIs(err, hostinfo.ErrNoIPv4Address)
}

func (s *CollectorTestSuite) TestUptimeFailure() {
	s.host.uptimeErr = hostinfo.ErrMalformedProcFile

	_, err := s.collector.Collect(context.Background())
	s.ErrorIs(err, hostinfo.ErrMalformedProcFile)
}

func (s *CollectorTestSuite) TestEmptyProcessListing() {
	s.runner.results["ps ax"] = &runner.Result{Stdout: "\n\n"}

	report, err := s.collector.Collect(context.Background())
	s.Require().NoError(err)
	s.NotNil(report.RunningProcesses)
	s.Empty(report.RunningProcesses)
}

func (s *CollectorTestSuite) TestSplitLines() {
	s.Equal([]string{"a", " ", "b"}, SplitLines("a\n\n \nb\n"))
	s.Equal([]string{}, SplitLines(""))
	s.Equal([]string{"single"}, SplitLines("single"))
}

func TestCollectorSuite(t *testing.T) {
	suite.Run(t, new(CollectorTestSuite))
}
