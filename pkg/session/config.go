package session

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/semgraph/pkg/simulation"
	"github.com/dd0wney/semgraph/pkg/validation"
)

// PageRankConfig holds the rank engine tunables.
type PageRankConfig struct {
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
}

// Config collects every tunable of the explorer session plus the serving
// address used by the headless server.
type Config struct {
	Physics      simulation.Config `yaml:"physics"`
	PageRank     PageRankConfig    `yaml:"pagerank"`
	TickInterval time.Duration     `yaml:"tick_interval"`
	Listen       string            `yaml:"listen"`
}

// DefaultConfig returns the configuration matching the classic visualizer
// constants.
func DefaultConfig() Config {
	return Config{
		Physics: simulation.DefaultConfig(),
		PageRank: PageRankConfig{
			Damping:    0.85,
			Iterations: 20,
		},
		TickInterval: 50 * time.Millisecond,
		Listen:       ":8080",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every tunable, collecting all violations.
func (c Config) Validate() error {
	return validation.NewConfigValidator("session").
		PositiveFloat("physics.repulsion", c.Physics.Repulsion).
		PositiveFloat("physics.rest_length", c.Physics.RestLength).
		PositiveFloat("physics.stiffness", c.Physics.Stiffness).
		PositiveFloat("physics.time_step", c.Physics.TimeStep).
		RangeFloat("physics.damping", c.Physics.Damping, 0, 1).
		RangeFloat("pagerank.damping", c.PageRank.Damping, 0, 1).
		PositiveInt("pagerank.iterations", c.PageRank.Iterations).
		MinDuration("tick_interval", c.TickInterval, time.Millisecond).
		Required("listen", c.Listen).
		Validate()
}
