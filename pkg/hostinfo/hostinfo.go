package hostinfo

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const defaultProcDir = "/proc"

// Interface is the part of a network interface the probe cares about.
type Interface struct {
	Name     string
	Loopback bool
	Addrs    []net.Addr
}

// Probe reads host facts from the kernel. Every call reads fresh values.
type Probe struct {
	procDir    string
	interfaces func() ([]Interface, error)
}

// New returns a probe backed by /proc and the host network stack.
func New() *Probe {
	return &Probe{
		procDir:    defaultProcDir,
		interfaces: systemInterfaces,
	}
}

func systemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	result := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("failed to read addresses of %s: %w", iface.Name, err)
		}
		result = append(result, Interface{
			Name:     iface.Name,
			Loopback: iface.Flags&net.FlagLoopback != 0,
			Addrs:    addrs,
		})
	}
	return result, nil
}

// IPv4Address returns the first IPv4 address found on a non-loopback
// interface, in the order the kernel lists interfaces.
func (p *Probe) IPv4Address() (string, error) {
	ifaces, err := p.interfaces()
	if err != nil {
		return "", err
	}

	for _, iface := range ifaces {
		if iface.Loopback {
			continue
		}
		for _, addr := range iface.Addrs {
			if ip := ipv4Of(addr); ip != nil && !ip.IsLoopback() {
				return ip.String(), nil
			}
		}
	}

	return "", ErrNoIPv4Address
}

func ipv4Of(addr net.Addr) net.IP {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return nil
	}
	return ip.To4()
}

// UptimeSeconds reads the seconds since boot from /proc/uptime, falling back
// to sysinfo(2) when procfs is unavailable.
func (p *Probe) UptimeSeconds() (float64, error) {
	data, err := os.ReadFile(filepath.Join(p.procDir, "uptime"))
	if err != nil {
		return sysinfoUptime()
	}

	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return 0, fmt.Errorf("%w: empty uptime file", ErrMalformedProcFile)
	}

	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedProcFile, err)
	}
	if uptime < 0 {
		return 0, nil
	}

	return uptime, nil
}

func sysinfoUptime() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("failed to read uptime: %w", err)
	}
	if info.Uptime < 0 {
		return 0, nil
	}
	return float64(info.Uptime), nil
}
