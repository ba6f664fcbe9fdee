package directory

import (
	"sync"
	"time"
)

// DefaultDebounce is the input silence required before a search is emitted.
const DefaultDebounce = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer coalesces rapid input into one emission per quiet period.
// A value superseded before the delay elapses is never emitted, and emissions never overlap.
type Debouncer struct {
	delay time.Duration
	emit  func(string)
	clock Clock

	mu         sync.Mutex
	timer      Timer
	generation uint64
	pending    string
	hasPending bool
	stopped    bool

	emitMu sync.Mutex
}

// DebouncerOption customises a debouncer.
type DebouncerOption func(*Debouncer)

// WithClock injects the scheduler, mainly for tests.
func WithClock(clock Clock) DebouncerOption {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDebouncer returns a debouncer calling emit after delay of silence. delay <= 0 uses DefaultDebounce.
func NewDebouncer(delay time.Duration, emit func(string), opts ...DebouncerOption) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	d := &Debouncer{delay: delay, emit: emit, clock: realClock{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Input records a keystroke, discarding any pending emission and restarting the timer.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.pending = value
	d.hasPending = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(generation) })
}

// Flush emits the pending value now, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || !d.hasPending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.mu.Unlock()
	d.fire(generation)
}

// Stop cancels the pending emission. Later input is ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.hasPending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(generation uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.stopped || !d.hasPending || generation != d.generation {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.hasPending = false
	d.timer = nil
	d.mu.Unlock()

	d.emit(value)
}
