// AngelaMos | 2026
// dto.go

package admin

import "github.com/borka-sandviken/borka-api/internal/notify"

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Content  ContentStats   `json:"content"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Driver  string       `json:"driver"`
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
	Memory  *RedisMemory    `json:"memory,omitempty"`
}

type ContentStats struct {
	Events         *int64 `json:"events,omitempty"`
	News           *int64 `json:"news,omitempty"`
	ActiveSessions *int64 `json:"active_sessions,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RedisMemory struct {
	UsedMemory      string `json:"used_memory"`
	UsedMemoryHuman string `json:"used_memory_human"`
	UsedMemoryPeak  string `json:"used_memory_peak_human"`
	MaxMemory       string `json:"maxmemory_human"`
}

type NotificationStats struct {
	QueueLength int64               `json:"queue_length"`
	Worker      *notify.WorkerStats `json:"worker,omitempty"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
