// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/notify"
)

type SessionCounter interface {
	ActiveSessions(ctx context.Context) (int64, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type QueueInspector interface {
	QueueLength(ctx context.Context) (int64, error)
}

type WorkerInspector interface {
	Stats() notify.WorkerStats
}

type Handler struct {
	dbDriver   string
	dbStats    func() sql.DBStats
	dbPing     func(ctx context.Context) error
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	redisInfo  func(ctx context.Context, section string) (map[string]string, error)
	sessions   SessionCounter
	events     Counter
	news       Counter
	queue      QueueInspector
	worker     WorkerInspector
}

// HandlerConfig wires the stats sources. Any of them may be nil; the
// matching section is then left out of the response.
type HandlerConfig struct {
	DBDriver   string
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	RedisInfo  func(ctx context.Context, section string) (map[string]string, error)
	Sessions   SessionCounter
	Events     Counter
	News       Counter
	Queue      QueueInspector
	Worker     WorkerInspector
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbDriver:   cfg.DBDriver,
		dbStats:    cfg.DBStats,
		dbPing:     cfg.DBPing,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		redisInfo:  cfg.RedisInfo,
		sessions:   cfg.Sessions,
		events:     cfg.Events,
		news:       cfg.News,
		queue:      cfg.Queue,
		worker:     cfg.Worker,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetSystemStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
		r.Get("/notifications", h.GetNotificationStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Driver:  h.dbDriver,
			Healthy: ping(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Content: ContentStats{
			Events:         count(ctx, "events", h.events),
			News:           count(ctx, "news", h.news),
			ActiveSessions: h.activeSessions(ctx),
		},
		Runtime: readRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, DatabaseStatus{
		Driver:  h.dbDriver,
		Healthy: ping(r.Context(), h.dbPing),
		Stats:   h.getDBStats(),
	})
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	status := RedisStatus{
		Healthy: ping(r.Context(), h.redisPing),
		Stats:   h.getRedisStats(),
	}

	if h.redisInfo != nil {
		info, err := h.redisInfo(r.Context(), "memory")
		if err != nil {
			slog.WarnContext(r.Context(), "redis info failed", "error", err)
		} else {
			status.Memory = &RedisMemory{
				UsedMemory:      info["used_memory"],
				UsedMemoryHuman: info["used_memory_human"],
				UsedMemoryPeak:  info["used_memory_peak_human"],
				MaxMemory:       info["maxmemory_human"],
			}
		}
	}

	core.OK(w, status)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func (h *Handler) GetNotificationStats(w http.ResponseWriter, r *http.Request) {
	var response NotificationStats

	if h.queue != nil {
		n, err := h.queue.QueueLength(r.Context())
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		response.QueueLength = n
	}

	if h.worker != nil {
		stats := h.worker.Stats()
		response.Worker = &stats
	}

	core.OK(w, response)
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func (h *Handler) activeSessions(ctx context.Context) *int64 {
	if h.sessions == nil {
		return nil
	}

	n, err := h.sessions.ActiveSessions(ctx)
	if err != nil {
		slog.WarnContext(ctx, "count active sessions failed", "error", err)
		return nil
	}
	return &n
}

func ping(ctx context.Context, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}
	return fn(ctx) == nil
}

func count(ctx context.Context, name string, c Counter) *int64 {
	if c == nil {
		return nil
	}

	n, err := c.Count(ctx)
	if err != nil {
		slog.WarnContext(ctx, "count failed", "collection", name, "error", err)
		return nil
	}
	return &n
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}
