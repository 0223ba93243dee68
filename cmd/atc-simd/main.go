// Command atc-simd is the Air Traffic Control simulator daemon: it
// wires together the Airspace Store, Radar, Relay, Separation
// Analyzer, Operator Channel, Periodic Scheduler, Subsystem Registry,
// and Airspace Logger, and runs them until SIGINT/SIGTERM.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/airspacelog"
	"github.com/atc-sim/atc-sim/analyzer"
	"github.com/atc-sim/atc-sim/config"
	"github.com/atc-sim/atc-sim/kinematics"
	"github.com/atc-sim/atc-sim/logging"
	"github.com/atc-sim/atc-sim/operator"
	"github.com/atc-sim/atc-sim/radar"
	"github.com/atc-sim/atc-sim/registry"
	"github.com/atc-sim/atc-sim/relay"
	"github.com/atc-sim/atc-sim/scheduler"
	"github.com/atc-sim/atc-sim/wire"
)

// registrySupervisePeriod is how often the registry checks that every
// subsystem has published its identity; not operator-tunable since
// it's a startup-liveness concern, not a simulation parameter.
const registrySupervisePeriod = 5 * time.Second

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML/JSON config file")
		fleetFile  = flag.String("fleet", "", "path to a fleet-seeding input file (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atc-simd: %v\n", err)
		os.Exit(1)
	}
	if *fleetFile != "" {
		cfg.FleetFile = *fleetFile
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "atc-simd: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeLog := logging.New("store", cfg.LogLevel, cfg.LogDir)
	store := airspace.NewStore(storeLog)

	box := airspace.Box{
		MinX: cfg.AirspaceMinX, MaxX: cfg.AirspaceMaxX,
		MinY: cfg.AirspaceMinY, MaxY: cfg.AirspaceMaxY,
		MinZ: cfg.AirspaceMinZ, MaxZ: cfg.AirspaceMaxZ,
	}

	reg := registry.New(cfg.RegistryRetryAttempts, cfg.RegistryRetryInterval, logging.New("registry", cfg.LogLevel, cfg.LogDir))
	reg.Register(registry.Operator)
	reg.Register(registry.Display)
	reg.Register(registry.Logger)
	reg.Register(registry.Analyzer)

	radarLog := logging.New("radar", cfg.LogLevel, cfg.LogDir)
	publisher := radar.NewPublisher(store, radarLog)

	if cfg.FleetFile != "" {
		if err := seedFleet(publisher, box, cfg.FleetFile, radarLog); err != nil {
			radarLog.Errorf("fleet seeding failed: %v", err)
		}
	}

	opChannel := operator.New(cfg.MaxCommands)
	displayCh := make(chan wire.DisplayRecord, 16)
	loggerCh := make(chan wire.LogRecord, 16)

	logWriter, err := airspacelog.New(filepath.Join(cfg.LogDir, "airspace.log"), 32, 5, 14)
	if err != nil {
		return fmt.Errorf("opening airspace log: %w", err)
	}
	defer logWriter.Close()

	az := analyzer.New(store, publisher, opChannel, displayCh, loggerCh,
		logging.New("analyzer", cfg.LogLevel, cfg.LogDir),
		cfg.CongestionHorizonSec, cfg.MinHorizontalSeparation, cfg.MinVerticalSeparation, box)

	rl := relay.New(store, publisher, logging.New("relay", cfg.LogLevel, cfg.LogDir))

	sched := scheduler.Default(cfg.ViolationPeriod, cfg.OperatorPeriod, cfg.GridPeriod, cfg.FileLogPeriod, cfg.AirspaceLogPeriod)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		rl.Run(ctx)
		return nil
	})
	eg.Go(func() error {
		reg.Supervise(ctx, registrySupervisePeriod, registry.Operator, registry.Display, registry.Logger, registry.Analyzer)
		return nil
	})
	eg.Go(func() error {
		az.HandleEmergency(ctx)
		return nil
	})
	eg.Go(func() error {
		runRadarTicks(ctx, publisher)
		return nil
	})
	eg.Go(func() error {
		return drainDisplay(ctx, displayCh)
	})
	eg.Go(func() error {
		return drainLogger(ctx, loggerCh, logWriter)
	})
	eg.Go(func() error {
		readOperatorStdin(ctx, opChannel)
		return nil
	})
	eg.Go(func() error {
		runScheduler(ctx, sched, az)
		return nil
	})

	err = eg.Wait()
	logWriter.WriteExit(time.Now().Unix())
	loggerCh <- wire.LogRecord{Kind: wire.LogExit}
	displayCh <- wire.DisplayRecord{Kind: wire.DisplayExit}
	return err
}

func runRadarTicks(ctx context.Context, p *radar.Publisher) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	var tick int64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tick++
			p.Tick(tick, float64(now.Unix()))
		}
	}
}

func runScheduler(ctx context.Context, sched *scheduler.Scheduler, az *analyzer.Analyzer) {
	pulses := sched.Run(ctx)
	for p := range pulses {
		switch p.Tag {
		case scheduler.TagViolationCheck:
			az.CheckViolations(ctx)
		case scheduler.TagOperatorPoll:
			az.PollOperator(ctx)
		case scheduler.TagConsoleGrid:
			az.EmitGrid(ctx)
		case scheduler.TagFileLog:
			az.EmitFileLog(ctx)
		case scheduler.TagAirspaceLog:
			az.EmitAirspaceLog(ctx, p.At.Unix())
		}
	}
}

func drainDisplay(ctx context.Context, ch <-chan wire.DisplayRecord) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec, ok := <-ch:
			if !ok {
				return nil
			}
			_ = rec // rendering is external; this process only forwards records
		}
	}
}

func drainLogger(ctx context.Context, ch <-chan wire.LogRecord, w *airspacelog.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec, ok := <-ch:
			if !ok {
				return nil
			}
			if rec.Kind != wire.LogAirspace {
				continue
			}
			var snap airspace.FleetSnapshot
			snap.NumPlanes = rec.NumPlanes
			for i, p := range rec.Positions {
				snap.Positions[i] = airspace.Position{ID: p.PlaneID, X: p.X, Y: p.Y, Z: p.Z}
			}
			for i, v := range rec.Velocities {
				snap.Velocities[i] = airspace.Velocity{ID: v.PlaneID, VX: v.VX, VY: v.VY, VZ: v.VZ}
			}
			if err := w.WriteSnapshot(snap, rec.Timestamp); err != nil {
				return err
			}
		}
	}
}

func readOperatorStdin(ctx context.Context, ch *operator.Channel) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		req, err := operator.ParseCommandLine(line)
		if err != nil {
			continue // malformed input: log at warning in a real console, skip here
		}
		_ = ch.PushCommand(ctx, req)
	}
}

func seedFleet(p *radar.Publisher, box airspace.Box, path string, lg *logging.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, warnings := airspace.ParseSeedFile(f)
	for _, w := range warnings {
		lg.Warnf("fleet seed: %s", w)
	}
	// The radar and integrator clocks below run on Unix seconds, so each
	// entry's enterTimeSec is offset from the moment the file is seeded.
	now := float64(time.Now().Unix())
	for _, e := range entries {
		admitAt := now + e.EnterTimeSec
		ac := kinematics.New(e.ID, e.Position, e.Velocity, box, admitAt)
		p.Track(ac, admitAt, now)
		go ac.Run(context.Background(), func() float64 { return float64(time.Now().Unix()) })
	}
	return nil
}
