// Package registry is the Subsystem Discovery & Liveness registry:
// every subsystem publishes a channel/process identity pair here, and
// Supervise periodically checks that every required subsystem is
// still registered.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/atc-sim/atc-sim/internal/retry"
	"github.com/atc-sim/atc-sim/logging"
)

// Identity names one of the four subsystems that register themselves
// in the registry's fixed four-entry layout.
type Identity int

const (
	Operator Identity = iota
	Display
	Logger
	Analyzer
)

func (id Identity) String() string {
	switch id {
	case Operator:
		return "operator"
	case Display:
		return "display"
	case Logger:
		return "logger"
	case Analyzer:
		return "analyzer"
	default:
		return "unknown"
	}
}

// Entry is one subsystem's identity: a channel identifier (stable for
// the lifetime of the channel it names) and a process identifier
// (stable for the lifetime of the owning goroutine/process).
// google/uuid stands in for a session/process identifier pair.
type Entry struct {
	ChannelID uuid.UUID
	ProcessID uuid.UUID
}

// Registry is a mutex-protected map from Identity to its registered
// Entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[Identity]Entry

	retryAttempts int
	retryInterval time.Duration

	lg *logging.Logger
}

func New(retryAttempts int, retryInterval time.Duration, lg *logging.Logger) *Registry {
	return &Registry{
		entries:       make(map[Identity]Entry),
		retryAttempts: retryAttempts,
		retryInterval: retryInterval,
		lg:            lg,
	}
}

// Register publishes id's entry, generating fresh channel/process
// UUIDs.
func (r *Registry) Register(id Identity) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := Entry{ChannelID: uuid.New(), ProcessID: uuid.New()}
	r.entries[id] = e
	return e
}

// Lookup returns id's entry, retrying up to retryAttempts times at
// retryInterval if it isn't registered yet — the subsystems start
// concurrently and have no fixed ordering guarantee, so a lookup
// racing a slow Register is expected, not exceptional.
func (r *Registry) Lookup(ctx context.Context, id Identity) (Entry, error) {
	var entry Entry
	err := retry.Do(ctx, r.retryAttempts, r.retryInterval, func() error {
		r.mu.RLock()
		e, ok := r.entries[id]
		r.mu.RUnlock()
		if !ok {
			return fmt.Errorf("registry: %s not yet registered", id)
		}
		entry = e
		return nil
	})
	return entry, err
}

// Supervise periodically checks that every subsystem in required is
// registered, logging a warning (with a CPU/goroutine sample, the way
// util.MonitorCPUUsage/util.MonitorMemoryUsage annotate their own
// periodic health logs) for each one missing.
func (r *Registry) Supervise(ctx context.Context, period time.Duration, required ...Identity) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkOnce(required)
		}
	}
}

func (r *Registry) checkOnce(required []Identity) {
	r.mu.RLock()
	var missing []Identity
	for _, id := range required {
		if _, ok := r.entries[id]; !ok {
			missing = append(missing, id)
		}
	}
	r.mu.RUnlock()

	if len(missing) == 0 || r.lg == nil {
		return
	}

	usage, _ := cpu.Percent(0, false)
	var cpuPct float64
	if len(usage) > 0 {
		cpuPct = usage[0]
	}
	for _, id := range missing {
		r.lg.Warn("subsystem not registered",
			slog.String("subsystem", id.String()),
			slog.Float64("cpu_percent", cpuPct),
			slog.Int("goroutines", runtime.NumGoroutine()))
	}
}
