package sim

import (
	"sync"
	"time"
)

// Default timer periods. The countdown is display pacing; the evolution
// period is the real market cadence.
const (
	DefaultEvolveEvery = 30 * time.Second
	DefaultTickEvery   = time.Second
)

// Scheduler runs two independent timers: a countdown that decrements
// once per tick period for display, and an evolution timer that fires
// the price walk once per evolution period. They are mechanically
// separate; the countdown is pulled back in phase by resetting it to a
// full window after every evolution fire. The countdown goes terminal
// at zero and waits for that reset.
type Scheduler struct {
	mu          sync.Mutex
	evolve      func()
	onTick      func(secondsLeft int)
	evolveEvery time.Duration
	tickEvery   time.Duration
	secondsLeft int
	stop        chan struct{}
	done        chan struct{}
}

// NewScheduler builds a stopped scheduler around an evolve callback.
// Zero durations fall back to the defaults.
func NewScheduler(evolve func(), evolveEvery, tickEvery time.Duration) *Scheduler {
	if evolveEvery <= 0 {
		evolveEvery = DefaultEvolveEvery
	}
	if tickEvery <= 0 {
		tickEvery = DefaultTickEvery
	}
	return &Scheduler{
		evolve:      evolve,
		evolveEvery: evolveEvery,
		tickEvery:   tickEvery,
	}
}

// SetTickListener registers a callback invoked with the remaining
// seconds after every countdown change. Set before Start.
func (s *Scheduler) SetTickListener(fn func(secondsLeft int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// Start arms both timers: the countdown begins at a full window and
// decrements immediately, the evolution timer fires one period later.
// Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}

	s.secondsLeft = s.window()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop tears down both timers. Safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// Restart tears down and re-arms both timers with a fresh window. Used
// by reset.
func (s *Scheduler) Restart() {
	s.Stop()
	s.Start()
}

// SecondsLeft reports the countdown's current value.
func (s *Scheduler) SecondsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondsLeft
}

func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)

	countdown := time.NewTicker(s.tickEvery)
	defer countdown.Stop()
	evolution := time.NewTicker(s.evolveEvery)
	defer evolution.Stop()

	for {
		select {
		case <-stop:
			return
		case <-evolution.C:
			s.evolve()
			s.resetCountdown()
		case <-countdown.C:
			s.tickDown()
		}
	}
}

func (s *Scheduler) tickDown() {
	s.mu.Lock()
	if s.secondsLeft <= 0 {
		// Terminal until the next evolution fire restarts the window.
		s.mu.Unlock()
		return
	}
	s.secondsLeft--
	left, fn := s.secondsLeft, s.onTick
	s.mu.Unlock()

	if fn != nil {
		fn(left)
	}
}

func (s *Scheduler) resetCountdown() {
	s.mu.Lock()
	s.secondsLeft = s.window()
	left, fn := s.secondsLeft, s.onTick
	s.mu.Unlock()

	if fn != nil {
		fn(left)
	}
}

func (s *Scheduler) window() int {
	return int(s.evolveEvery / s.tickEvery)
}
