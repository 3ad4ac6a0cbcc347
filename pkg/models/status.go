package models

// StatusReport is the body of GET /. Field names are part of the public
// contract and must not change.
type StatusReport struct {
	Service            string   `json:"Service"`
	IPAddress          string   `json:"IP Address"`
	RunningProcesses   []string `json:"Running Processes"`
	AvailableDiskSpace string   `json:"Available Disk Space"`
	UptimeSeconds      float64  `json:"Uptime (seconds)"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
