package hostinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hoststatus/pkg/log"
	"hoststatus/pkg/models"

	"golang.org/x/sys/unix"
)

const (
	minLoadFields = 3
	minMemFields  = 2
	kbToBytes     = 1024
)

// NodeInfo gathers numeric host information, with storage measured at storagePath.
func (p *Probe) NodeInfo(storagePath string) (*models.NodeInfo, error) {
	uptime, err := p.UptimeSeconds()
	if err != nil {
		return nil, err
	}

	loadAvg, err := p.LoadAverages()
	if err != nil {
		return nil, err
	}

	memory, err := p.Memory()
	if err != nil {
		return nil, err
	}

	storage, err := Storage(storagePath)
	if err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to resolve hostname")
	}

	seconds := int64(uptime)
	return &models.NodeInfo{
		Hostname:      hostname,
		Uptime:        FormatUptime(seconds),
		UptimeSeconds: seconds,
		LoadAverages:  *loadAvg,
		Memory:        *memory,
		Storage:       *storage,
	}, nil
}

// LoadAverages reads /proc/loadavg.
func (p *Probe) LoadAverages() (*models.LoadAverages, error) {
	data, err := os.ReadFile(filepath.Join(p.procDir, "loadavg"))
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(string(data))
	if len(fields) < minLoadFields {
		return nil, fmt.Errorf("%w: loadavg has %d fields", ErrMalformedProcFile, len(fields))
	}

	var loads [minLoadFields]float64
	for i := range loads {
		loads[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedProcFile, err)
		}
	}

	return &models.LoadAverages{
		Load1:  loads[0],
		Load5:  loads[1],
		Load15: loads[2],
	}, nil
}

// Memory reads /proc/meminfo.
func (p *Probe) Memory() (*models.MemoryInfo, error) {
	file, err := os.Open(filepath.Join(p.procDir, "meminfo"))
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close meminfo file")
		}
	}()

	stats, err := parseMemInfo(file)
	if err != nil {
		return nil, err
	}

	// Kernels before 3.14 have no MemAvailable
	available := stats.available
	if available == 0 {
		available = stats.free + stats.buffers + stats.cached
	}

	var used uint64
	if stats.total > available {
		used = stats.total - available
	}

	return &models.MemoryInfo{
		Total:     stats.total,
		Used:      used,
		Available: available,
	}, nil
}

type memStats struct {
	total     uint64
	free      uint64
	available uint64
	buffers   uint64
	cached    uint64
}

func parseMemInfo(r io.Reader) (*memStats, error) {
	var stats memStats

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < minMemFields {
			continue
		}

		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		value *= kbToBytes

		switch strings.TrimSuffix(fields[0], ":") {
		case "MemTotal":
			stats.total = value
		case "MemFree":
			stats.free = value
		case "MemAvailable":
			stats.available = value
		case "Buffers":
			stats.buffers = value
		case "Cached":
			stats.cached = value
		}
	}

	return &stats, scanner.Err()
}

// Storage reports filesystem usage for the filesystem containing path.
func Storage(path string) (*models.StorageInfo, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, fmt.Errorf("failed to stat filesystem %s: %w", path, err)
	}

	blockSize := uint64(stat.Bsize) //nolint:gosec // block size is never negative

	total := stat.Blocks * blockSize
	available := stat.Bavail * blockSize
	used := total - stat.Bfree*blockSize

	return &models.StorageInfo{
		Path:      path,
		Total:     total,
		Used:      used,
		Available: available,
	}, nil
}

// FormatUptime renders seconds as "Xd Yh Zm", dropping leading zero units.
func FormatUptime(seconds int64) string {
	const hoursInDay = 24
	const minutesInHour = 60

	duration := time.Duration(seconds) * time.Second
	days := int(duration.Hours()) / hoursInDay
	hours := int(duration.Hours()) % hoursInDay
	minutes := int(duration.Minutes()) % minutesInHour

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
