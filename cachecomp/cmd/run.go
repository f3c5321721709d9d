package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/cachecomp/datarecording"
	"github.com/sarchlab/cachecomp/mem/cache"
	"github.com/sarchlab/cachecomp/mem/cache/competition"
	"github.com/sarchlab/cachecomp/monitoring"
	"github.com/sarchlab/cachecomp/workload"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cache competition simulation",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		return runSimulation(cfg)
	},
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "",
		"path to a TOML configuration file")

	rootCmd.AddCommand(runCmd)
}

// runSimulation runs the configured number of independent cache instances.
// Instances share nothing, so they can run in parallel while each one keeps
// its own single mutation timeline.
func runSimulation(cfg Config) error {
	var g errgroup.Group

	for i := 0; i < cfg.Instances; i++ {
		g.Go(func() error {
			return runInstance(cfg, i)
		})
	}

	return g.Wait()
}

func runInstance(cfg Config, instance int) error {
	name := "LLC"
	if cfg.Instances > 1 {
		name = fmt.Sprintf("LLC%d", instance)
	}

	c := cache.MakeBuilder().
		WithNumSets(cfg.NumSets).
		WithWayAssociativity(cfg.NumWays).
		WithNumCPUs(cfg.NumCPUs).
		WithLog2BlockSize(cfg.Log2BlockSize).
		WithReplaceStrategy(cfg.Policy).
		WithRandomSeed(cfg.RandomSeed).
		Build(name)

	logger := buildLogger(cfg, instance, name)

	if cfg.Monitor {
		monitor := monitoring.NewMonitor()
		if cfg.MonitorPort > 0 {
			monitor = monitor.WithPortNumber(cfg.MonitorPort + instance)
		}

		monitor.RegisterCache(c)
		monitor.StartServer()
	}

	agents := make([]*workload.Agent, cfg.NumCPUs)
	for cpu := range agents {
		seed := cfg.RandomSeed +
			int64(instance*competition.MaxCPUs+cpu)
		agents[cpu] = workload.NewAgent(
			cpu, seed, cfg.FootprintLines, cfg.WriteRatio,
			cfg.Log2BlockSize)
	}

	total := cfg.AccessesPerCPU * uint64(cfg.NumCPUs)
	for i := uint64(0); i < total; i++ {
		cpu := int(i % uint64(cfg.NumCPUs))
		addr, accessType := agents[cpu].Next()
		c.Access(cpu, addr, accessType)

		cycle := c.CurrentCycle()
		if cycle%cfg.OccupancyPeriod == 0 {
			c.SampleOccupancy()
		}

		if cycle%cfg.HeartbeatPeriod == 0 {
			heartbeat(c, logger, cfg.HeartbeatPeriod)
		}
	}

	if c.CurrentCycle()%cfg.HeartbeatPeriod != 0 {
		heartbeat(c, logger, cfg.HeartbeatPeriod)
	}

	logger.flush()
	reportFinal(c)

	return nil
}

func heartbeat(
	c *cache.Comp,
	logger instanceLogger,
	periodCycles uint64,
) {
	delta := c.Heartbeat()
	logger.logHeartbeat(c.CurrentCycle(), periodCycles, delta)
}

func reportFinal(c *cache.Comp) {
	snap := c.Snapshot()

	for cpu := 0; cpu < c.NumCPUs(); cpu++ {
		missRate := 0.0
		if snap.Accesses[cpu] > 0 {
			missRate = float64(snap.Misses[cpu]) /
				float64(snap.Accesses[cpu])
		}

		log.Printf(
			"%s CPU %d: %d accesses, miss rate %.4f, "+
				"caused %d cross-CPU evictions, lost %d lines to others",
			c.Name(), cpu,
			snap.Accesses[cpu], missRate,
			snap.EvictionsCaused[cpu], snap.EvictedByOthers[cpu])
	}
}

// instanceLogger optionally forwards heartbeat windows to a recorder.
type instanceLogger struct {
	recorder datarecording.DataRecorder
	logger   *datarecording.CompetitionLogger
}

func buildLogger(cfg Config, instance int, name string) instanceLogger {
	if cfg.RecordingPath == "" {
		return instanceLogger{}
	}

	path := cfg.RecordingPath
	if cfg.Instances > 1 {
		path = fmt.Sprintf("%s_%d", cfg.RecordingPath, instance)
	}

	recorder := datarecording.New(path)

	return instanceLogger{
		recorder: recorder,
		logger: datarecording.NewCompetitionLogger(
			recorder, name+"_competition", cfg.NumCPUs),
	}
}

func (l instanceLogger) logHeartbeat(
	cycle, periodCycles uint64,
	delta competition.Snapshot,
) {
	if l.logger == nil {
		return
	}

	l.logger.LogHeartbeat(cycle, periodCycles, delta)
}

func (l instanceLogger) flush() {
	if l.recorder == nil {
		return
	}

	l.recorder.Flush()
}
