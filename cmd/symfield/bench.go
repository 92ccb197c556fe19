package main

import (
	"fmt"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/physics"
	"github.com/san-kum/symfield/internal/registry"
)

var benchCounts = []int{35, 100, 300, 1000}

type benchResult struct {
	builder     string
	count       int
	ticks       int
	elapsed     time.Duration
	connections int
}

func (r benchResult) ticksPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.ticks) / r.elapsed.Seconds()
}

// benchBuilder times n ticks of a fixed-seed population with one builder.
func benchBuilder(base *config.Config, reg *registry.Registry, name string, count, n int) (benchResult, error) {
	b, err := reg.Builder(name)
	if err != nil {
		return benchResult{}, err
	}
	cfg := base.Clone()
	cfg.Particles.Count = count
	cfg.Physics.Builder = name

	vp := dynamo.Viewport{Width: 1920, Height: 1080}
	rng := rand.New(rand.NewSource(42)) // #nosec G404 -- benchmark input
	ps := physics.NewPopulation(cfg.Particles, cfg.Energy.Max, vp, rng)
	in := physics.NewIntegrator(cfg, b, rng)

	var adj dynamo.Adjacency
	start := time.Now()
	for i := 0; i < n; i++ {
		adj = in.Tick(ps, vp)
	}
	return benchResult{
		builder:     name,
		count:       count,
		ticks:       n,
		elapsed:     time.Since(start),
		connections: adj.Edges(),
	}, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, _, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	reg := registry.New()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %d ticks per run\n\n", ticks)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUILDER\tPARTICLES\tLINKS\tTIME\tTICKS/SEC")

	for _, count := range benchCounts {
		for _, name := range reg.ListBuilders() {
			r, err := benchBuilder(cfg, reg, name, count, ticks)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
				r.builder, r.count, r.connections, r.elapsed.Round(time.Microsecond), r.ticksPerSec())
		}
	}
	return w.Flush()
}
