package models

// NodeInfo represents numeric system information for the host.
type NodeInfo struct {
	Hostname      string       `json:"hostname"`
	Uptime        string       `json:"uptime"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	LoadAverages  LoadAverages `json:"load_averages"`
	Memory        MemoryInfo   `json:"memory"`
	Storage       StorageInfo  `json:"storage"`
}

// LoadAverages represents system load information.
type LoadAverages struct {
	Load1  float64 `json:"load_1"`
	Load5  float64 `json:"load_5"`
	Load15 float64 `json:"load_15"`
}

// MemoryInfo represents memory usage in bytes.
type MemoryInfo struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Available uint64 `json:"available"`
}

// StorageInfo represents disk usage in bytes for one mount path.
type StorageInfo struct {
	Path      string `json:"path"`
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Available uint64 `json:"available"`
}
