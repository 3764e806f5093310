package heat_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatsim/internal/heat"
)

func coarseConfig() heat.Config {
	cfg := heat.DefaultConfig()
	cfg.Nodes = 5
	cfg.Diffusivity = 100
	cfg.Length = 50
	cfg.Duration = 1.5
	return cfg
}

func collect(sim *heat.Simulation) []*heat.Field {
	var frames []*heat.Field
	sim.Run(func(_ int, _ float64, f *heat.Field) {
		frames = append(frames, f)
	})
	return frames
}

var _ = Describe("Simulation", func() {
	Describe("derived quantities", func() {
		It("matches the reference parameters", func() {
			sim, err := heat.New(heat.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Dx()).To(Equal(1.25))
			Expect(sim.Dy()).To(Equal(sim.Dx()))
			Expect(sim.Dt()).To(BeNumerically("~", 0.0046875, 1e-15))
			Expect(sim.Steps()).To(Equal(853))
		})

		DescribeTable("dt is positive and steps is floor(T/dt)",
			func(a, l, t float64, n int) {
				cfg := heat.DefaultConfig()
				cfg.Diffusivity, cfg.Length, cfg.Duration, cfg.Nodes = a, l, t, n
				sim, err := heat.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(sim.Dt()).To(BeNumerically(">", 0))
				Expect(sim.Steps()).To(BeNumerically(">=", 0))
				Expect(sim.Steps()).To(Equal(int(math.Floor(t / sim.Dt()))))
			},
			Entry("coarse", 100.0, 50.0, 1.5, 5),
			Entry("reference", 100.0, 50.0, 4.0, 40),
			Entry("duration shorter than one step", 1.0, 1.0, 1e-9, 10),
			Entry("slow diffusion", 0.01, 2.0, 10.0, 8),
		)

		It("reports the stability ratio", func() {
			cfg := heat.DefaultConfig()
			sim, err := heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.StabilityRatio()).To(BeNumerically("~", 2*cfg.SafetyFactor, 1e-12))
			Expect(sim.Stable()).To(BeFalse())

			cfg.SafetyFactor = 0.2
			sim, err = heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Stable()).To(BeTrue())
		})
	})

	Describe("validation", func() {
		DescribeTable("rejects invalid parameters before stepping",
			func(mutate func(*heat.Config), target error) {
				cfg := heat.DefaultConfig()
				mutate(&cfg)
				sim, err := heat.New(cfg)
				Expect(sim).To(BeNil())
				Expect(err).To(MatchError(target))
			},
			Entry("zero diffusivity", func(c *heat.Config) { c.Diffusivity = 0 }, heat.ErrInvalidParameter),
			Entry("negative length", func(c *heat.Config) { c.Length = -1 }, heat.ErrInvalidParameter),
			Entry("zero duration", func(c *heat.Config) { c.Duration = 0 }, heat.ErrInvalidParameter),
			Entry("NaN duration", func(c *heat.Config) { c.Duration = math.NaN() }, heat.ErrInvalidParameter),
			Entry("infinite length", func(c *heat.Config) { c.Length = math.Inf(1) }, heat.ErrInvalidParameter),
			Entry("zero safety factor", func(c *heat.Config) { c.SafetyFactor = 0 }, heat.ErrInvalidParameter),
			Entry("two nodes", func(c *heat.Config) { c.Nodes = 2 }, heat.ErrInvalidSize),
			Entry("step count beyond int range", func(c *heat.Config) { c.Duration = 1e30 }, heat.ErrInvalidParameter),
			Entry("vanishing time step", func(c *heat.Config) {
				c.SafetyFactor = 1e-300
				c.Duration = 1e10
			}, heat.ErrInvalidParameter),
		)

		It("names duration when the step count overflows", func() {
			cfg := heat.DefaultConfig()
			cfg.Duration = 1e30
			_, err := heat.New(cfg)
			var perr *heat.InvalidParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Name).To(Equal("duration"))
			Expect(perr.Value).To(Equal(1e30))
		})

		It("never calls the callback for an invalid config", func() {
			cfg := heat.DefaultConfig()
			cfg.Nodes = 1
			calls := 0
			err := heat.Run(cfg, func(int, float64, *heat.Field) { calls++ })
			Expect(err).To(MatchError(heat.ErrInvalidSize))
			Expect(calls).To(BeZero())
		})

		It("exposes the offending parameter", func() {
			cfg := heat.DefaultConfig()
			cfg.Length = -2
			_, err := heat.New(cfg)
			var perr *heat.InvalidParameterError
			Expect(err).To(BeAssignableToTypeOf(perr))
			perr = err.(*heat.InvalidParameterError)
			Expect(perr.Name).To(Equal("length"))
			Expect(perr.Value).To(Equal(-2.0))
		})
	})

	Describe("Step", func() {
		var (
			cfg heat.Config
			sim *heat.Simulation
		)

		BeforeEach(func() {
			cfg = coarseConfig()
			var err error
			sim, err = heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Dx()).To(Equal(10.0))
			Expect(sim.Dt()).To(BeNumerically("~", 0.3, 1e-15))
		})

		It("matches direct evaluation of the stencil on the first step", func() {
			next := sim.Step(sim.Initial())
			dt, a := sim.Dt(), cfg.Diffusivity
			dx2 := sim.Dx() * sim.Dx()

			corner := 20 + dt*a*((100-2*20+20)/dx2+(100-2*20+20)/dx2)
			edge := 20 + dt*a*((100-2*20+20)/dx2+(20-2*20+20)/dx2)

			Expect(next.At(1, 1)).To(Equal(corner))
			Expect(next.At(1, 1)).To(BeNumerically("~", 68, 1e-12))
			Expect(next.At(1, 2)).To(Equal(edge))
			Expect(next.At(1, 2)).To(BeNumerically("~", 44, 1e-12))
			Expect(next.At(2, 2)).To(Equal(20.0))
		})

		It("uses only the previous time level", func() {
			frames := collect(sim)
			Expect(frames).To(HaveLen(sim.Steps()))
			f0 := frames[0]
			dt, a := sim.Dt(), cfg.Diffusivity
			dx2 := sim.Dx() * sim.Dx()
			c := f0.At(2, 2)
			want := c + dt*a*((f0.At(1, 2)+f0.At(3, 2)-2*c)/dx2+(f0.At(2, 1)+f0.At(2, 3)-2*c)/dx2)
			Expect(frames[1].At(2, 2)).To(Equal(want))
			Expect(frames[1].At(2, 2)).To(BeNumerically("~", 48.8, 1e-9))
		})

		It("does not modify its input", func() {
			cur := sim.Initial()
			before := cur.Clone()
			_ = sim.Step(cur)
			Expect(cur.Equal(before)).To(BeTrue())
		})
	})

	Describe("Run", func() {
		It("calls back exactly Steps times with step*dt", func() {
			sim, err := heat.New(coarseConfig())
			Expect(err).NotTo(HaveOccurred())
			var steps []int
			var times []float64
			sim.Run(func(step int, elapsed float64, f *heat.Field) {
				steps = append(steps, step)
				times = append(times, elapsed)
				Expect(f.N()).To(Equal(5))
			})
			Expect(steps).To(Equal([]int{0, 1, 2, 3, 4}))
			for i, t := range times {
				Expect(t).To(Equal(float64(i) * sim.Dt()))
			}
		})

		It("accepts a nil callback", func() {
			Expect(heat.Run(coarseConfig(), nil)).To(Succeed())
		})

		It("keeps every border node at the boundary value", func() {
			cfg := heat.DefaultConfig()
			cfg.Nodes = 12
			cfg.Duration = 1
			sim, err := heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			frames := append([]*heat.Field{sim.Initial()}, collect(sim)...)
			for _, f := range frames {
				for i := 0; i < f.N(); i++ {
					for j := 0; j < f.N(); j++ {
						if f.IsBorder(i, j) {
							Expect(f.At(i, j)).To(Equal(cfg.Boundary))
						}
					}
				}
			}
		})

		It("leaves an isothermal plate unchanged", func() {
			cfg := coarseConfig()
			cfg.Nodes = 9
			cfg.Interior, cfg.Boundary = 37.5, 37.5
			sim, err := heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			sim.Run(func(_ int, _ float64, f *heat.Field) {
				for _, v := range f.Values() {
					Expect(v).To(Equal(37.5))
				}
			})
		})

		It("stays symmetric under transpose and rotation", func() {
			cfg := heat.DefaultConfig()
			cfg.Nodes = 11
			cfg.Duration = 2
			sim, err := heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			sim.Run(func(step int, _ float64, f *heat.Field) {
				n := f.N()
				for i := 0; i < n; i++ {
					for j := 0; j < n; j++ {
						Expect(f.At(i, j)).To(Equal(f.At(j, i)), "transpose at step %d", step)
						Expect(f.At(i, j)).To(Equal(f.At(n-1-j, i)), "rotation at step %d", step)
					}
				}
			})
		})

		It("heats monotonically when the scheme is stable", func() {
			cfg := heat.Config{
				Diffusivity: 1, Length: 1, Duration: 0.5, Nodes: 10,
				Interior: 20, Boundary: 100, SafetyFactor: 0.25,
			}
			sim, err := heat.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			prev := sim.Initial()
			sim.Run(func(_ int, _ float64, f *heat.Field) {
				for i := 1; i < f.N()-1; i++ {
					for j := 1; j < f.N()-1; j++ {
						Expect(f.At(i, j)).To(BeNumerically(">=", prev.At(i, j)-1e-9))
						Expect(f.At(i, j)).To(BeNumerically("<=", cfg.Boundary+1e-9))
					}
				}
				prev = f
			})
			Expect(prev.At(5, 5)).To(BeNumerically(">", 99))
		})

		It("is deterministic", func() {
			sim, err := heat.New(heat.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			first, second := collect(sim), collect(sim)
			Expect(first).To(HaveLen(len(second)))
			for i := range first {
				Expect(first[i].Equal(second[i])).To(BeTrue(), "frame %d", i)
			}
		})
	})

	Describe("RunContext", func() {
		It("stops when the callback returns false", func() {
			sim, err := heat.New(heat.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			calls := 0
			err = sim.RunContext(context.Background(), func(step int, _ float64, _ *heat.Field) bool {
				calls++
				return step < 9
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(10))
		})

		It("returns the context error when canceled", func() {
			sim, err := heat.New(heat.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			calls := 0
			err = sim.RunContext(ctx, func(step int, _ float64, _ *heat.Field) bool {
				calls++
				if step == 2 {
					cancel()
				}
				return true
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(calls).To(Equal(3))
		})

		It("produces the same frames as Run", func() {
			sim, err := heat.New(coarseConfig())
			Expect(err).NotTo(HaveOccurred())
			want := collect(sim)
			var got []*heat.Field
			Expect(sim.RunContext(context.Background(), func(_ int, _ float64, f *heat.Field) bool {
				got = append(got, f)
				return true
			})).To(Succeed())
			Expect(got).To(HaveLen(len(want)))
			for i := range got {
				Expect(got[i].Equal(want[i])).To(BeTrue())
			}
		})
	})

	It("RunContext accepts a nil callback", func() {
		sim, err := heat.New(coarseConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.RunContext(context.Background(), nil)).To(Succeed())
	})

	Describe("Chain", func() {
		It("fans out in order and skips nil", func() {
			var order []string
			fn := heat.Chain(
				func(int, float64, *heat.Field) { order = append(order, "a") },
				nil,
				func(int, float64, *heat.Field) { order = append(order, "b") },
			)
			Expect(heat.Run(coarseConfig(), fn)).To(Succeed())
			Expect(order).To(HaveLen(10))
			Expect(order[:2]).To(Equal([]string{"a", "b"}))
		})
	})
})
