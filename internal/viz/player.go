package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/metrics"
)

// PlayerOptions controls playback. FPS <= 0 shows frames as fast as the
// simulation produces them.
type PlayerOptions struct {
	FPS     int
	Lo, Hi  float64
	Metrics *metrics.Set
}

type frameMsg struct {
	step    int
	elapsed float64
	field   *heat.Field
}

type doneMsg struct{ err error }

type tickMsg time.Time

// Player is a Bubble Tea model that plays a simulation run back in the
// terminal, one frame per tick.
type Player struct {
	sim    *heat.Simulation
	opts   PlayerOptions
	frames chan frameMsg
	ctx    context.Context
	cancel context.CancelFunc
	errc   chan error

	current frameMsg
	shown   int
	paused  bool
	pending bool
	done    bool
	err     error
}

// NewPlayer prepares playback of sim. The run starts with Init.
func NewPlayer(sim *heat.Simulation, opts PlayerOptions) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		sim:     sim,
		opts:    opts,
		frames:  make(chan frameMsg),
		ctx:     ctx,
		cancel:  cancel,
		errc:    make(chan error, 1),
		current: frameMsg{step: -1, field: sim.Initial()},
	}
}

func (p *Player) Init() tea.Cmd {
	go p.produce()
	p.pending = true
	return p.next
}

func (p *Player) produce() {
	defer close(p.frames)
	err := p.sim.RunContext(p.ctx, func(step int, elapsed float64, f *heat.Field) bool {
		select {
		case p.frames <- frameMsg{step: step, elapsed: elapsed, field: f}:
			return true
		case <-p.ctx.Done():
			return false
		}
	})
	p.errc <- err
}

func (p *Player) next() tea.Msg {
	f, ok := <-p.frames
	if !ok {
		err := <-p.errc
		if err == context.Canceled {
			err = nil
		}
		return doneMsg{err: err}
	}
	return f
}

func (p *Player) tick() tea.Cmd {
	p.pending = true
	if p.opts.FPS <= 0 {
		return p.next
	}
	return tea.Tick(time.Second/time.Duration(p.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			p.cancel()
			return p, tea.Quit
		case " ":
			p.paused = !p.paused
			if !p.paused && !p.done && !p.pending {
				return p, p.tick()
			}
		}

	case frameMsg:
		p.pending = false
		p.current = msg
		p.shown++
		if p.opts.Metrics != nil {
			p.opts.Metrics.OnStep(msg.step, msg.elapsed, msg.field)
		}
		if p.paused {
			return p, nil
		}
		return p, p.tick()

	case tickMsg:
		if p.paused || p.done {
			p.pending = false
			return p, nil
		}
		return p, p.next

	case doneMsg:
		p.pending = false
		p.done = true
		p.err = msg.err
	}

	return p, nil
}

// Shown returns the number of frames displayed so far.
func (p *Player) Shown() int { return p.shown }

// Err returns the error the run ended with, if any.
func (p *Player) Err() error { return p.err }

func (p *Player) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(Title(p.current.elapsed)))
	sb.WriteString("\n\n")
	sb.WriteString(Heatmap(p.current.field, p.opts.Lo, p.opts.Hi))
	sb.WriteString("\n\n")
	sb.WriteString(Colorbar(p.opts.Lo, p.opts.Hi, p.current.field.N()))
	sb.WriteString("\n\n")

	status := StatusRunning.Render("● RUNNING")
	switch {
	case p.done:
		status = Subtle.Render("■ DONE")
	case p.paused:
		status = StatusPaused.Render("⏸ PAUSED")
	}
	sb.WriteString(fmt.Sprintf("%s  step %s/%d\n",
		status,
		MetricValue.Render(fmt.Sprintf("%d", p.current.step+1)),
		p.sim.Steps()))

	if p.opts.Metrics != nil {
		for _, m := range p.opts.Metrics.Metrics() {
			sb.WriteString(fmt.Sprintf("%s %s  ", Subtle.Render(m.Name()+":"), MetricValue.Render(fmt.Sprintf("%.4f", m.Value()))))
		}
		sb.WriteString("\n")
	}
	if p.err != nil {
		sb.WriteString(StatusPaused.Render("error: "+p.err.Error()) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("[space] pause  [q] quit"))
	return sb.String()
}
