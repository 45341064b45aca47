package main

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/trajsim/sim"
)

// ScenarioConfig describes one simulation run: the resources, the
// trajectories, the generators that feed them, and the resource managers.
type ScenarioConfig struct {
	Name         string             `yaml:"name"`
	Resources    []ResourceConfig   `yaml:"resources"`
	Trajectories []TrajectoryConfig `yaml:"trajectories"`
	Generators   []GeneratorConfig  `yaml:"generators"`
	Managers     []ManagerConfig    `yaml:"managers"`
}

// ResourceConfig describes one resource. A capacity or queue size of -1
// means infinity.
type ResourceConfig struct {
	Name         string `yaml:"name"`
	Capacity     int    `yaml:"capacity"`
	QueueSize    int    `yaml:"queue_size"`
	Monitored    bool   `yaml:"monitored"`
	Preemptive   bool   `yaml:"preemptive"`
	PreemptOrder string `yaml:"preempt_order"`
}

// TrajectoryConfig names a chain of activities.
type TrajectoryConfig struct {
	Name       string           `yaml:"name"`
	Activities []ActivityConfig `yaml:"activities"`
}

// ActivityConfig describes one activity. Kind selects the variant; the
// other fields apply to the kinds that use them.
type ActivityConfig struct {
	Kind string `yaml:"kind"`

	// timeout
	Delay float64 `yaml:"delay"`

	// set_attribute
	Key   string  `yaml:"key"`
	Value float64 `yaml:"value"`

	// seize, release
	Resource    string `yaml:"resource"`
	Amount      int    `yaml:"amount"`
	Priority    int    `yaml:"priority"`
	Preemptible bool   `yaml:"preemptible"`
	Restart     bool   `yaml:"restart"`

	// rollback (amount doubles as the step count)
	Times int `yaml:"times"`

	// branch
	Prob  []float64          `yaml:"prob"`
	Paths [][]ActivityConfig `yaml:"paths"`
	Merge []bool             `yaml:"merge"`
}

// GeneratorConfig binds a trajectory to an inter-arrival distribution.
type GeneratorConfig struct {
	Name         string             `yaml:"name"`
	Trajectory   string             `yaml:"trajectory"`
	Distribution DistributionConfig `yaml:"distribution"`
	Monitoring   int                `yaml:"monitoring"`
}

// DistributionConfig describes an inter-arrival distribution. Count, when
// positive, stops the generator after that many arrivals.
type DistributionConfig struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
	Rate  float64 `yaml:"rate"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Seed  int64   `yaml:"seed"`
	Count int     `yaml:"count"`
}

// ManagerConfig schedules changes of one resource parameter.
type ManagerConfig struct {
	Resource  string    `yaml:"resource"`
	Param     string    `yaml:"param"`
	Durations []float64 `yaml:"durations"`
	Values    []int     `yaml:"values"`
}

// LoadScenario reads a scenario configuration from a YAML file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read scenario: %w", err)
	}

	cfg := &ScenarioConfig{}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot parse scenario: %w", err)
	}

	return cfg, nil
}

// A Scenario is a scenario configuration applied to a simulator.
type Scenario struct {
	trajectories map[string][]sim.Activity
}

// Trajectory returns the activities of a built trajectory, in order.
func (sc *Scenario) Trajectory(name string) []sim.Activity {
	return sc.trajectories[name]
}

// Apply registers everything the configuration describes on the simulator.
func (cfg *ScenarioConfig) Apply(s *sim.Simulator) (*Scenario, error) {
	for _, r := range cfg.Resources {
		order := sim.PreemptOrder(r.PreemptOrder)
		if r.Preemptive && order == "" {
			order = sim.PreemptFIFO
		}
		s.AddResource(r.Name, r.Capacity, r.QueueSize,
			r.Monitored, r.Preemptive, order)
	}

	scenario := &Scenario{trajectories: make(map[string][]sim.Activity)}
	for _, t := range cfg.Trajectories {
		acts, err := buildActivities(t.Activities)
		if err != nil {
			return nil, fmt.Errorf("trajectory %s: %w", t.Name, err)
		}
		sim.Chain(acts...)
		scenario.trajectories[t.Name] = acts
	}

	for _, g := range cfg.Generators {
		acts, ok := scenario.trajectories[g.Trajectory]
		if !ok {
			return nil, fmt.Errorf("generator %s: unknown trajectory %q",
				g.Name, g.Trajectory)
		}

		dist, err := buildDistribution(g.Distribution)
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", g.Name, err)
		}

		s.AddGenerator(g.Name, acts[0], dist, g.Monitoring)
	}

	for _, m := range cfg.Managers {
		durations := make([]sim.VTimeInSec, len(m.Durations))
		for i, d := range m.Durations {
			durations[i] = sim.VTimeInSec(d)
		}
		s.AddResourceManager(m.Resource, m.Param, durations, m.Values)
	}

	return scenario, nil
}

func buildActivities(cfgs []ActivityConfig) ([]sim.Activity, error) {
	acts := make([]sim.Activity, 0, len(cfgs))
	for i, c := range cfgs {
		act, err := buildActivity(c)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		acts = append(acts, act)
	}

	if len(acts) == 0 {
		return nil, fmt.Errorf("empty activity list")
	}

	return acts, nil
}

func buildActivity(c ActivityConfig) (sim.Activity, error) {
	switch c.Kind {
	case "timeout":
		return sim.NewTimeout(c.Delay), nil
	case "set_attribute":
		return sim.NewSetAttribute(c.Key, c.Value), nil
	case "seize":
		return sim.NewSeize(c.Resource, c.Amount, c.Priority,
			c.Preemptible, c.Restart), nil
	case "release":
		return sim.NewRelease(c.Resource, c.Amount), nil
	case "rollback":
		return sim.NewRollback(c.Amount, c.Times), nil
	case "branch":
		return buildBranch(c)
	default:
		return nil, fmt.Errorf("unknown activity kind %q", c.Kind)
	}
}

func buildBranch(c ActivityConfig) (sim.Activity, error) {
	if len(c.Paths) == 0 {
		return nil, fmt.Errorf("branch needs at least one path")
	}
	if len(c.Merge) != len(c.Paths) {
		return nil, fmt.Errorf("branch needs one merge flag per path")
	}
	if len(c.Prob) > 0 && len(c.Prob) != len(c.Paths) {
		return nil, fmt.Errorf("branch needs one probability per path")
	}

	paths := make([]sim.Activity, len(c.Paths))
	tails := make([]sim.Activity, len(c.Paths))
	for i, pathCfg := range c.Paths {
		acts, err := buildActivities(pathCfg)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i+1, err)
		}
		sim.Chain(acts...)
		paths[i] = acts[0]
		tails[i] = acts[len(acts)-1]
	}

	option := buildOption(c.Prob, len(c.Paths))
	branch := sim.NewBranch(option, false, paths, c.Merge)

	for i, merge := range c.Merge {
		if merge {
			tails[i].SetNext(branch)
		}
	}

	return branch, nil
}

// buildOption picks a path at random, weighted by prob when given.
func buildOption(prob []float64, n int) sim.OptionFunc {
	rng := rand.New(rand.NewSource(1))

	if len(prob) == 0 {
		return func(sim.Attributes) int {
			return rng.Intn(n) + 1
		}
	}

	total := 0.0
	for _, p := range prob {
		total += p
	}

	return func(sim.Attributes) int {
		x := rng.Float64() * total
		for i, p := range prob {
			x -= p
			if x < 0 {
				return i + 1
			}
		}
		return n
	}
}

func buildDistribution(c DistributionConfig) (sim.DistFunc, error) {
	rng := rand.New(rand.NewSource(c.Seed))
	remaining := c.Count

	bounded := func(next func() float64) sim.DistFunc {
		return func() float64 {
			if c.Count > 0 {
				remaining--
				if remaining < 0 {
					return -1
				}
			}
			return next()
		}
	}

	switch c.Kind {
	case "constant":
		return bounded(func() float64 { return c.Value }), nil
	case "exponential":
		if c.Rate <= 0 {
			return nil, fmt.Errorf("exponential distribution needs rate > 0")
		}
		return bounded(func() float64 {
			return rng.ExpFloat64() / c.Rate
		}), nil
	case "uniform":
		if c.Max < c.Min {
			return nil, fmt.Errorf("uniform distribution needs max >= min")
		}
		return bounded(func() float64 {
			return c.Min + rng.Float64()*(c.Max-c.Min)
		}), nil
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", c.Kind)
	}
}
