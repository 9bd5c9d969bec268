package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// RuntimeMonitor samples Go runtime statistics into Metrics
type RuntimeMonitor struct {
	metrics  *Metrics
	logger   *Logger
	interval time.Duration
	logEvery int
}

// NewRuntimeMonitor creates a monitor sampling every interval. A summary
// is logged every logEvery samples; 0 disables logging.
func NewRuntimeMonitor(metrics *Metrics, logger *Logger, interval time.Duration, logEvery int) *RuntimeMonitor {
	return &RuntimeMonitor{
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		logEvery: logEvery,
	}
}

// Run samples until ctx is cancelled
func (rm *RuntimeMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(rm.interval)
	defer ticker.Stop()

	rm.Sample()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms := rm.Sample()
			if rm.logEvery > 0 && n%rm.logEvery == 0 && rm.logger != nil {
				rm.logger.SystemLogger("runtime_stats", fmt.Sprintf(
					"heap:%dMB/%dMB gc:%d goroutines:%d",
					ms.HeapAlloc/(1024*1024),
					ms.HeapSys/(1024*1024),
					ms.NumGC,
					runtime.NumGoroutine(),
				))
			}
		}
	}
}

// Sample reads the runtime statistics once and records them
func (rm *RuntimeMonitor) Sample() runtime.MemStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	rm.metrics.RecordRuntime(
		int64(ms.NumGC),
		int64(ms.PauseTotalNs),
		int64(ms.HeapAlloc),
		int64(ms.HeapSys),
		int64(runtime.NumGoroutine()),
	)
	return ms
}
