package progress

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Ceiling is the highest value the simulated curve may publish
	Ceiling = 90.0

	// Complete is published once the real operation has finished
	Complete = 100.0

	// DefaultInterval is the refresh cadence of the simulated display
	DefaultInterval = 500 * time.Millisecond
)

// Simulated returns the displayed value after elapsed time.
// It is non-decreasing in elapsed and stays below Ceiling.
func Simulated(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Min(Ceiling, 50*(1-math.Exp(-0.2*elapsed.Seconds())))
}

// Coordinator produces a "still working" signal for one operation
type Coordinator interface {
	// Start records the start time and begins refreshing the surface.
	Start()

	// Stop halts refreshing. A nil err marks the operation complete and
	// publishes Complete. Stop before Start is valid.
	Stop(err error)

	// Value returns the last published value.
	Value() float64
}

// Ticker is implemented by coordinators that are driven by their caller
type Ticker interface {
	Tick()
	Interval() time.Duration
}

// Options configures a coordinator
type Options struct {
	// Interval between refreshes.
	// Default: 500ms
	Interval time.Duration

	// Curve maps elapsed time to the displayed value.
	// Default: Simulated
	Curve func(time.Duration) float64

	// Now returns the current time.
	// Default: time.Now
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Curve == nil {
		o.Curve = Simulated
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// gauge holds the published value. Published values never decrease.
type gauge struct {
	bits atomic.Uint64
}

func (g *gauge) load() float64 {
	return math.Float64frombits(g.bits.Load())
}

// raise stores v if it exceeds the current value and returns the value in effect.
func (g *gauge) raise(v float64) float64 {
	for {
		old := g.bits.Load()
		cur := math.Float64frombits(old)
		if v <= cur {
			return cur
		}
		if g.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}

// Background refreshes the surface from its own goroutine
type Background struct {
	opts    Options
	surface Surface
	value   gauge

	mu      sync.Mutex
	start   time.Time
	started bool
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewBackground creates a coordinator that owns a refresh goroutine
func NewBackground(surface Surface, opts Options) *Background {
	if surface == nil {
		surface = Discard
	}
	return &Background{
		opts:    opts.withDefaults(),
		surface: surface,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the refresh goroutine. Calls after Start or Stop are ignored.
func (b *Background) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.stopped {
		return
	}
	b.started = true
	b.start = b.opts.Now()
	go b.loop()
}

func (b *Background) loop() {
	defer close(b.done)

	ticker := time.NewTicker(b.opts.Interval)
	defer ticker.Stop()

	b.tick()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.tick()
		}
	}
}

func (b *Background) tick() {
	v := b.value.raise(b.opts.Curve(b.opts.Now().Sub(b.start)))
	b.surface.Publish(v)
}

// Stop signals the goroutine, waits for it to exit and finalizes the surface.
func (b *Background) Stop(err error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	started := b.started
	b.mu.Unlock()

	close(b.stopCh)
	if started {
		<-b.done
	}
	finish(b.surface, &b.value, err)
}

// Value returns the last published value
func (b *Background) Value() float64 {
	return b.value.load()
}

// Cooperative is ticked by its caller instead of running its own goroutine.
// All methods must be called from the same goroutine.
type Cooperative struct {
	opts    Options
	surface Surface
	value   gauge

	start   time.Time
	started bool
	stopped bool
}

// NewCooperative creates a caller-driven coordinator
func NewCooperative(surface Surface, opts Options) *Cooperative {
	if surface == nil {
		surface = Discard
	}
	return &Cooperative{
		opts:    opts.withDefaults(),
		surface: surface,
	}
}

// Start records the start time and publishes the first value
func (c *Cooperative) Start() {
	if c.started || c.stopped {
		return
	}
	c.started = true
	c.start = c.opts.Now()
	c.Tick()
}

// Tick publishes the curve value for the current elapsed time.
// It does nothing before Start or after Stop.
func (c *Cooperative) Tick() {
	if !c.started || c.stopped {
		return
	}
	v := c.value.raise(c.opts.Curve(c.opts.Now().Sub(c.start)))
	c.surface.Publish(v)
}

// Interval returns the refresh cadence the caller should tick at
func (c *Cooperative) Interval() time.Duration {
	return c.opts.Interval
}

// Stop prevents further ticks and finalizes the surface
func (c *Cooperative) Stop(err error) {
	if c.stopped {
		return
	}
	c.stopped = true
	finish(c.surface, &c.value, err)
}

// Value returns the last published value
func (c *Cooperative) Value() float64 {
	return c.value.load()
}

func finish(s Surface, g *gauge, err error) {
	if err == nil {
		s.Publish(g.raise(Complete))
	}
	s.Done()
}

// Guard starts c, runs fn and stops c with fn's result.
// Stop runs even when fn panics; the panic is re-raised afterwards.
func Guard(c Coordinator, fn func() error) (err error) {
	c.Start()
	defer func() {
		if r := recover(); r != nil {
			c.Stop(fmt.Errorf("panic: %v", r))
			panic(r)
		}
		c.Stop(err)
	}()
	return fn()
}

// Await runs fn and returns its error. When c is a Ticker, fn runs on its
// own goroutine while the calling goroutine ticks c at c.Interval(); Await
// still returns only after fn has returned. A panic in fn is returned as an
// error.
func Await(ctx context.Context, c Coordinator, fn func(context.Context) error) error {
	t, ok := c.(Ticker)
	if !ok {
		return fn(ctx)
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- fn(ctx)
	}()

	ticker := time.NewTicker(t.Interval())
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			t.Tick()
		}
	}
}
