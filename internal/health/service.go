package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"sync"
	"time"

	"fenix-certificates/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Dependency states reported in Dependencies.
const (
	StatusConnected     = "connected"
	StatusDisconnected  = "disconnected"
	StatusError         = "error"
	StatusNotConfigured = "not_configured"
)

// DBPinger is the certificate store's database, when it has one.
type DBPinger interface {
	Ping() error
}

// CRMPinger checks that KeyCRM accepts our key.
type CRMPinger interface {
	Ping(ctx context.Context) error
}

// Checker gathers health data. Every field is optional; a nil dependency
// is reported as not configured and does not degrade the overall status.
type Checker struct {
	Rdb         *redis.Client
	DB          DBPinger
	CRM         CRMPinger
	StoreDriver string
	CRMTimeout  time.Duration
	CRMCacheTTL time.Duration    // how long a KeyCRM ping result is reused; defaults to DefaultCRMCacheTTL
	Now         func() time.Time // defaults to time.Now

	mu       sync.Mutex
	crmDep   DepStatus
	crmUntil time.Time
}

// DefaultCRMCacheTTL bounds how often /health/json reaches KeyCRM.
const DefaultCRMCacheTTL = 30 * time.Second

type Result struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapAllocMB   int    `json:"heapAllocMb"`
	HeapInuseMB   int    `json:"heapInuseMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
	Detail string      `json:"detail,omitempty"`
}

var processStart = time.Now()

// Collect pings each configured dependency and reads request stats.
func (h *Checker) Collect(ctx context.Context) Result {
	result := Result{
		Status:       "ok",
		Dependencies: make(map[string]DepStatus),
		Traffic:      TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"},
	}
	degrade := func(name string, dep DepStatus) {
		result.Dependencies[name] = dep
		if dep.Status == StatusError {
			result.Status = "issue"
		}
	}

	if h.DB != nil {
		degrade("database", timed(func() error { return h.DB.Ping() }))
	} else {
		result.Dependencies["database"] = DepStatus{Status: StatusNotConfigured}
	}

	startMs := processStart.UnixMilli()
	if h.Rdb != nil {
		dep := timed(func() error { return h.Rdb.Ping(ctx).Err() })
		degrade("redis", dep)
		if dep.Status == StatusConnected {
			result.Traffic, startMs = readTraffic(ctx, h.Rdb, startMs)
		}
	} else {
		result.Dependencies["redis"] = DepStatus{Status: StatusNotConfigured}
	}

	if h.CRM != nil {
		degrade("keycrm", h.crmStatus(ctx))
	} else {
		result.Dependencies["keycrm"] = DepStatus{Status: StatusNotConfigured}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapAllocMB:   int(m.HeapAlloc / 1024 / 1024),
		HeapInuseMB:   int(m.HeapInuse / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}
	return result
}

// crmStatus pings KeyCRM at most once per CRMCacheTTL.
func (h *Checker) crmStatus(ctx context.Context) DepStatus {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	ttl := h.CRMCacheTTL
	if ttl <= 0 {
		ttl = DefaultCRMCacheTTL
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if now().Before(h.crmUntil) {
		return h.crmDep
	}
	timeout := h.CRMTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	h.crmDep = timed(func() error { return h.CRM.Ping(cctx) })
	h.crmUntil = now().Add(ttl)
	return h.crmDep
}

func timed(ping func() error) DepStatus {
	start := time.Now()
	if err := ping(); err != nil {
		return DepStatus{Status: StatusError, Detail: err.Error()}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: StatusConnected, PingMs: ms}
}

func readTraffic(ctx context.Context, rdb *redis.Client, startMs int64) (TrafficInfo, int64) {
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}

	totalReq, _ := rdb.Get(ctx, middleware.KeyReqTotal).Result()
	totalErr, _ := rdb.Get(ctx, middleware.KeyReqErrors).Result()
	totalTime, _ := rdb.Get(ctx, middleware.KeyResTime).Result()
	resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Result()
	startStr, _ := rdb.Get(ctx, middleware.KeyStartTime).Result()
	lastReqStr, _ := rdb.Get(ctx, middleware.KeyLastReq).Result()

	if startStr != "" {
		if t, err := strconv.ParseInt(startStr, 10, 64); err == nil {
			startMs = t
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, startMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(totalReq)
	stats.FailedCount, _ = strconv.Atoi(totalErr)
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(totalTime, 64)
	countSum, _ := strconv.Atoi(resCount)
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if lastReqStr != "" {
		var lastReq map[string]interface{}
		_ = json.Unmarshal([]byte(lastReqStr), &lastReq)
		stats.LastRequest = lastReq
	}
	return stats, startMs
}
