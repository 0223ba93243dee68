package airspace

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/atc-sim/atc-sim/logging"
)

// warnMutex is adapted from util.LoggingMutex: an ordinary sync.Mutex
// that samples CPU/goroutine counts and logs a
// warning if acquiring it takes longer than warnAfter. The snapshot
// lock is the one O(N) critical section in the Store — every other
// critical section is O(1) in fleet size except the fleet-snapshot
// copy — so it is the one worth instrumenting this way.
type warnMutex struct {
	sync.Mutex
	warnAfter time.Duration
	lg        *logging.Logger
}

func newWarnMutex(lg *logging.Logger, warnAfter time.Duration) *warnMutex {
	return &warnMutex{warnAfter: warnAfter, lg: lg}
}

func (m *warnMutex) lockLogged(op string) {
	start := time.Now()
	m.Lock()
	if wait := time.Since(start); wait > m.warnAfter && m.lg != nil {
		usage, _ := cpu.Percent(0, false)
		var cpuPct float64
		if len(usage) > 0 {
			cpuPct = usage[0]
		}
		m.lg.Warn("long wait to acquire snapshot lock",
			slog.String("op", op),
			slog.Duration("wait", wait),
			slog.Float64("cpu_percent", cpuPct),
			slog.Int("goroutines", runtime.NumGoroutine()))
	}
}
