package health

import (
	"runtime"
	"time"

	"gorm.io/gorm"
)

// Status is the report returned by a full check.
type Status struct {
	Status    string                 `json:"status"` // "healthy" or "degraded"
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Duration  int64                  `json:"duration_ms"`
}

// Checker probes the database and the process itself.
type Checker struct {
	db        *gorm.DB
	version   string
	startTime time.Time
}

func NewChecker(db *gorm.DB, version string) *Checker {
	return &Checker{db: db, version: version, startTime: time.Now()}
}

// Check runs every probe and aggregates the result.
func (hc *Checker) Check() Status {
	start := time.Now()
	status := Status{
		Timestamp: start,
		Version:   hc.version,
		Checks:    make(map[string]interface{}),
	}

	dbHealthy, dbDetail := hc.checkDatabase()
	status.Checks["database"] = dbDetail

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	status.Checks["memory"] = map[string]interface{}{
		"allocated_mb": m.Alloc / 1024 / 1024,
		"sys_mb":       m.Sys / 1024 / 1024,
		"num_gc":       m.NumGC,
	}

	goroutines := runtime.NumGoroutine()
	status.Checks["goroutines"] = goroutines
	status.Checks["uptime_seconds"] = int64(time.Since(hc.startTime).Seconds())

	if dbHealthy && goroutines < 10000 {
		status.Status = "healthy"
	} else {
		status.Status = "degraded"
	}
	status.Duration = time.Since(start).Milliseconds()
	return status
}

func (hc *Checker) checkDatabase() (bool, map[string]interface{}) {
	if hc.db == nil {
		return false, map[string]interface{}{"healthy": false, "error": "database not initialized"}
	}

	start := time.Now()
	sqlDB, err := hc.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return false, map[string]interface{}{"healthy": false, "error": err.Error()}
	}
	return true, map[string]interface{}{
		"healthy":    true,
		"latency_ms": time.Since(start).Milliseconds(),
	}
}

// IsReady reports whether the service can take traffic.
func (hc *Checker) IsReady() bool {
	ok, _ := hc.checkDatabase()
	return ok
}

// IsAlive reports process liveness.
func (hc *Checker) IsAlive() bool {
	return true
}
