package dvsim

// driver.go advances the simulation one step at a time. A step is a send
// phase, in which every router either counts down or advertises, followed by
// a receive phase, in which every router relaxes its table. No receive of a
// step starts before every send of that step has finished.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DriverState is the stage a Driver has reached
type DriverState int

const (
	Configuring DriverState = iota
	Running
	Converged
)

var dsToStr map[DriverState]string = map[DriverState]string{
	Configuring: "configuring", Running: "running", Converged: "converged"}

func (ds DriverState) String() string {
	str, present := dsToStr[ds]
	if !present {
		return fmt.Sprintf("DriverState(%d)", int(ds))
	}
	return str
}

// StepReport describes the state of the simulation after a step
type StepReport struct {
	Step int

	// virtual time of the step, equal to Step unless the step was scheduled
	Time float64

	// table entries improved during the step
	Delta int

	// advertisements dropped during the step, and since the start of the run
	StepDrops int
	Drops     int64

	Converged bool

	// copy of every router's table, indexed by router id
	Tables []Table
}

// Observer is called after every step
type Observer func(StepReport)

// Result is the termination report of a run
type Result struct {
	// step at which convergence was declared
	Steps int

	// last step in which any table changed
	LastStepWithChange int

	// Steps less the convergence threshold, the count reported once the run is over
	StableAfter int

	Drops     int64
	Offered   int64
	Converged bool
	Tables    []Table
}

// StepClock separates consecutive steps of Run. Wait returns when the next
// step may start, or with an error if ctx ends first.
type StepClock interface {
	Wait(ctx context.Context, step int) error
}

// InstantClock lets steps follow each other without delay
type InstantClock struct{}

func (InstantClock) Wait(ctx context.Context, step int) error {
	return ctx.Err()
}

// PacedClock pauses for Delay between steps, so that a person can follow the run
type PacedClock struct {
	Delay time.Duration
}

func (pc PacedClock) Wait(ctx context.Context, step int) error {
	if pc.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(pc.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Driver owns the routers of a simulation and moves them through its steps
type Driver struct {
	topo     *Topology
	cfg      Config
	net      *network
	detector *ConvergenceDetector

	state DriverState
	step  int

	// virtual time of the current step
	now func() float64

	// seed the countdown streams were derived from
	seed int64

	clock     StepClock
	sources   SourceFactory
	observers []Observer
	logger    *slog.Logger
}

// DriverOption customizes a Driver when it is built
type DriverOption func(*Driver)

// WithLogger directs the driver's and routers' log messages to logger
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithObserver adds obs to the functions called after every step
func WithObserver(obs Observer) DriverOption {
	return func(d *Driver) {
		d.observers = append(d.observers, obs)
	}
}

// WithStepClock replaces the clock Run waits on between steps
func WithStepClock(clock StepClock) DriverOption {
	return func(d *Driver) {
		d.clock = clock
	}
}

// WithCountdownSources replaces the way each router's CountdownSource is created
func WithCountdownSources(factory SourceFactory) DriverOption {
	return func(d *Driver) {
		d.sources = factory
	}
}

// NewDriver validates cfg and creates one router per node of topo.
// The driver starts out Configuring.
func NewDriver(topo *Topology, cfg *Config, opts ...DriverOption) (*Driver, error) {
	if topo == nil {
		return nil, fmt.Errorf("%w: no topology", ErrBadParameter)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := new(Driver)
	d.topo = topo
	d.cfg = *cfg
	d.state = Configuring
	d.detector = NewConvergenceDetector(cfg.StaticThreshold)
	d.now = func() float64 { return float64(d.step) }

	// defaults, which the options may replace
	d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	d.clock = PacedClock{Delay: cfg.StepDelay}
	d.seed = cfg.Seed
	if d.seed == 0 {
		d.seed = time.Now().UnixNano()
	}
	d.sources = seededSources(d.seed)
	for _, opt := range opts {
		opt(d)
	}

	d.net = createNetwork(topo, &d.cfg, d.sources, d.logger)
	d.logger.Info("simulation configured", "topology", topo.Name(), "nodes", topo.NumNodes(),
		"mailbox", cfg.MailboxCapacity, "infinity", cfg.InfinityHops, "concurrent", cfg.Concurrent,
		"seed", d.seed)
	return d, nil
}

// AddObserver adds obs to the functions called after every step
func (d *Driver) AddObserver(obs Observer) {
	d.observers = append(d.observers, obs)
}

// State returns the stage the driver has reached
func (d *Driver) State() DriverState {
	return d.state
}

// CurrentStep returns the number of steps taken
func (d *Driver) CurrentStep() int {
	return d.step
}

// Topology returns the topology being simulated
func (d *Driver) Topology() *Topology {
	return d.topo
}

// Seed returns the seed the routers' countdown streams were derived from. It is
// Config.Seed, or a seed taken from the clock when Config.Seed is zero.
func (d *Driver) Seed() int64 {
	return d.seed
}

// Config returns a copy of the parameters of the run
func (d *Driver) Config() Config {
	return d.cfg
}

// Router returns the router of node id
func (d *Driver) Router(id NodeID) *Router {
	return d.net.routers[id]
}

// Drops returns the number of advertisements dropped so far
func (d *Driver) Drops() int64 {
	return d.net.Drops()
}

// Tables returns a copy of every router's table
func (d *Driver) Tables() []Table {
	return d.net.tables()
}

// Step runs one send phase and one receive phase, then lets the convergence
// detector look at the number of entries that changed
func (d *Driver) Step() (StepReport, error) {
	if d.state == Converged {
		return StepReport{}, ErrNotRunnable
	}
	if d.state == Configuring {
		d.state = Running
		d.logger.Info("simulation running")
	}
	d.step += 1

	var stepDrops, delta int
	if d.cfg.Concurrent {
		stepDrops = d.net.sendPhaseConcurrent(d.step)
		delta = d.net.receivePhaseConcurrent()
	} else {
		stepDrops = d.net.sendPhase(d.step)
		delta = d.net.receivePhase()
	}

	rep := StepReport{
		Step:      d.step,
		Time:      d.now(),
		Delta:     delta,
		StepDrops: stepDrops,
		Drops:     d.net.Drops(),
		Tables:    d.net.tables(),
	}
	if d.detector.Observe(d.step, delta) {
		d.state = Converged
		rep.Converged = true
		d.logger.Info("simulation converged", "step", d.step, "drops", rep.Drops,
			"stableafter", d.step-d.cfg.StaticThreshold)
	}
	d.logger.Debug("step", "step", d.step, "delta", delta, "drops", stepDrops)

	for _, obs := range d.observers {
		obs(rep)
	}
	return rep, nil
}

// Run steps the simulation until it converges, waiting on the step clock between steps.
// It stops early if ctx ends or if the configured step limit is reached, in which
// case the Result describes the state reached and the error says why.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return d.Result(), err
		}
		rep, err := d.Step()
		if err != nil {
			return d.Result(), err
		}
		if rep.Converged {
			return d.Result(), nil
		}
		if d.cfg.MaxSteps > 0 && d.step >= d.cfg.MaxSteps {
			d.logger.Warn("step limit reached", "steps", d.step)
			return d.Result(), fmt.Errorf("%w: %d steps", ErrStepLimit, d.step)
		}
		if err := d.clock.Wait(ctx, d.step); err != nil {
			return d.Result(), err
		}
	}
}

// Result summarizes the run as it stands
func (d *Driver) Result() *Result {
	return &Result{
		Steps:              d.step,
		LastStepWithChange: d.detector.LastStepWithChange(),
		StableAfter:        d.step - d.cfg.StaticThreshold,
		Drops:              d.net.Drops(),
		Offered:            d.net.Offered(),
		Converged:          d.state == Converged,
		Tables:             d.net.tables(),
	}
}
