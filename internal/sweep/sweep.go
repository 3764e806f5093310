// Package sweep runs a simulation over a grid of parameter values, one
// goroutine per case with a bounded number running at once.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/metrics"
)

// Params lists the parameter names an Axis may vary.
var Params = []string{"diffusivity", "length", "duration", "nodes", "interior", "boundary", "safety_factor"}

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis parses "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return Axis{}, fmt.Errorf("axis %q: expected name=v1,v2,...", s)
	}
	name = strings.TrimSpace(name)
	if !validParam(name) {
		return Axis{}, fmt.Errorf("axis %q: unknown parameter %q (available: %v)", s, name, Params)
	}
	var values []float64
	for _, part := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		if name == "nodes" && (v != math.Trunc(v) || math.IsInf(v, 0)) {
			return Axis{}, fmt.Errorf("axis %q: nodes must be an integer, got %g", s, v)
		}
		values = append(values, v)
	}
	return Axis{Name: name, Values: values}, nil
}

func validParam(name string) bool {
	for _, p := range Params {
		if p == name {
			return true
		}
	}
	return false
}

func apply(cfg *heat.Config, name string, v float64) {
	switch name {
	case "diffusivity":
		cfg.Diffusivity = v
	case "length":
		cfg.Length = v
	case "duration":
		cfg.Duration = v
	case "nodes":
		cfg.Nodes = int(v)
	case "interior":
		cfg.Interior = v
	case "boundary":
		cfg.Boundary = v
	case "safety_factor":
		cfg.SafetyFactor = v
	}
}

// Case is one point of the grid.
type Case struct {
	Params map[string]float64
	Config heat.Config
}

// Grid returns the cartesian product of axes applied to base. The last
// axis varies fastest.
func Grid(base heat.Config, axes []Axis) []Case {
	cases := []Case{{Params: map[string]float64{}, Config: base}}
	for _, axis := range axes {
		next := make([]Case, 0, len(cases)*len(axis.Values))
		for _, c := range cases {
			for _, v := range axis.Values {
				params := make(map[string]float64, len(c.Params)+1)
				for k, pv := range c.Params {
					params[k] = pv
				}
				params[axis.Name] = v
				cfg := c.Config
				apply(&cfg, axis.Name, v)
				next = append(next, Case{Params: params, Config: cfg})
			}
		}
		cases = next
	}
	return cases
}

// Result summarises one finished case. Err is set when the case's
// configuration was rejected.
type Result struct {
	Case
	Steps   int
	Ratio   float64
	Stable  bool
	Metrics map[string]float64
	Err     error
}

// Run executes every case with at most workers running at a time
// (workers <= 0 uses runtime.NumCPU). Results keep the order of cases.
func Run(ctx context.Context, cases []Case, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(cases))
	errs := make([]error, len(cases))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range cases {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-sem }()
			results[idx], errs[idx] = runCase(ctx, cases[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runCase(ctx context.Context, c Case) (Result, error) {
	r := Result{Case: c}
	sim, err := heat.New(c.Config)
	if err != nil {
		r.Err = err
		return r, nil
	}
	r.Steps = sim.Steps()
	r.Ratio = sim.StabilityRatio()
	r.Stable = sim.Stable()

	set := metrics.NewSet(metrics.Default(sim)...)
	set.Add(metrics.NewCentreProbe(c.Config.Nodes))
	err = sim.RunContext(ctx, func(step int, t float64, f *heat.Field) bool {
		set.OnStep(step, t, f)
		return true
	})
	if err != nil {
		return Result{}, err
	}
	r.Metrics = set.Values()
	return r, nil
}

// Best returns the index of the valid result with the smallest value of
// metric, or -1 if no result has it.
func Best(results []Result, metric string) int {
	best, idx := math.Inf(1), -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		v, ok := r.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best, idx = v, i
		}
	}
	return idx
}

// Names returns the swept parameter names of cases in sorted order.
func Names(cases []Case) []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range cases {
		for k := range c.Params {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}
