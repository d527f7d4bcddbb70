package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
	"github.com/san-kum/phasekit/internal/sim"
)

const (
	DefaultMethod   = "symplectic_euler"
	DefaultDt       = 0.2
	DefaultDuration = 12.0
	DefaultQ        = 2.0
	DefaultDataDir  = "./runs"
	DefaultLogLevel = "info"
)

type Config struct {
	Method    string          `yaml:"method"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	StepCount int             `yaml:"steps,omitempty"`
	KOverM    float64         `yaml:"k_over_m"`
	InitState InitStateConfig `yaml:"init_state"`
	DataDir   string          `yaml:"data_dir,omitempty"`
	LogLevel  string          `yaml:"log_level,omitempty"`
}

type InitStateConfig struct {
	Q float64 `yaml:"q"`
	V float64 `yaml:"v"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:    DefaultMethod,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		KOverM:    physics.DefaultKOverM,
		InitState: InitStateConfig{Q: DefaultQ},
		DataDir:   DefaultDataDir,
		LogLevel:  DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys absent from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Steps returns the explicit step count, or the number of whole steps of
// size Dt that fit in Duration.
func (c *Config) Steps() int {
	if c.StepCount > 0 || c.Dt <= 0 {
		return c.StepCount
	}
	return int(math.Floor(c.Duration/c.Dt + 1e-9))
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{KOverM: c.KOverM, Dt: c.Dt}
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{Q: c.InitState.Q, V: c.InitState.V}
}

func (c *Config) ParseMethod() (integrators.Method, error) {
	return integrators.ParseMethod(c.Method)
}

// Validate applies the same checks the sampler does, so a bad file fails
// before any run starts.
func (c *Config) Validate() error {
	if _, err := c.ParseMethod(); err != nil {
		return err
	}
	if c.Duration < 0 || math.IsNaN(c.Duration) {
		return &dynamo.ParameterError{Name: "duration", Value: c.Duration, Reason: "must be non-negative"}
	}
	if c.StepCount < 0 {
		return &dynamo.ParameterError{Name: "steps", Value: float64(c.StepCount), Reason: "must be non-negative"}
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	return dynamo.ValidateInitial(c.InitialState())
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Params:        c.Params(),
		Steps:         c.Steps(),
		ValidateState: true,
	}
}
