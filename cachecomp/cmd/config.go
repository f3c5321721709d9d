package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/cachecomp/mem/cache/competition"
)

// Config describes one simulation run.
type Config struct {
	NumSets       int    `toml:"num_sets"`
	NumWays       int    `toml:"num_ways"`
	NumCPUs       int    `toml:"num_cpus"`
	Log2BlockSize int    `toml:"log2_block_size"`
	Policy        string `toml:"policy"`
	RandomSeed    int64  `toml:"random_seed"`

	AccessesPerCPU uint64  `toml:"accesses_per_cpu"`
	FootprintLines uint64  `toml:"footprint_lines"`
	WriteRatio     float64 `toml:"write_ratio"`

	HeartbeatPeriod uint64 `toml:"heartbeat_period"`
	OccupancyPeriod uint64 `toml:"occupancy_period"`

	// Instances runs several independent cache instances in parallel. Each
	// instance owns its cache, stats, and recorder; there is no sharing.
	Instances int `toml:"instances"`

	RecordingPath string `toml:"recording_path"`
	Monitor       bool   `toml:"monitor"`
	MonitorPort   int    `toml:"monitor_port"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		NumSets:       2048,
		NumWays:       16,
		NumCPUs:       4,
		Log2BlockSize: 6,
		Policy:        "partition",
		RandomSeed:    1,

		AccessesPerCPU: 1000000,
		FootprintLines: 65536,
		WriteRatio:     0.25,

		HeartbeatPeriod: 100000,
		OccupancyPeriod: 1000,

		Instances: 1,
	}
}

// LoadConfig reads a TOML configuration file on top of the defaults. An
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.NumSets <= 0 || c.NumWays <= 0 {
		return fmt.Errorf(
			"geometry %d sets x %d ways must be positive",
			c.NumSets, c.NumWays)
	}

	if c.NumCPUs <= 0 || c.NumCPUs > competition.MaxCPUs {
		return fmt.Errorf(
			"num_cpus %d out of range [1, %d]",
			c.NumCPUs, competition.MaxCPUs)
	}

	if c.Log2BlockSize <= 0 || c.Log2BlockSize >= 40 {
		return fmt.Errorf(
			"log2_block_size %d out of range (0, 40)", c.Log2BlockSize)
	}

	if c.NumWays < c.NumCPUs {
		return fmt.Errorf(
			"%d ways cannot give every one of %d CPUs a partition",
			c.NumWays, c.NumCPUs)
	}

	if c.Policy != "partition" && c.Policy != "random" {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}

	if c.FootprintLines == 0 {
		return fmt.Errorf("footprint_lines must be positive")
	}

	if c.WriteRatio < 0 || c.WriteRatio > 1 {
		return fmt.Errorf("write_ratio %f out of range [0, 1]", c.WriteRatio)
	}

	if c.HeartbeatPeriod == 0 || c.OccupancyPeriod == 0 {
		return fmt.Errorf("heartbeat and occupancy periods must be positive")
	}

	if c.Instances <= 0 {
		return fmt.Errorf("instances %d must be positive", c.Instances)
	}

	return nil
}
