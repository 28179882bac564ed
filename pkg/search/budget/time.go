package budget

import (
	"time"

	"k8s.io/utils/clock"
)

// timer measures the wall time between a start and a stop hook.
type timer struct {
	clock   clock.PassiveClock
	limit   time.Duration
	started time.Time
	elapsed time.Duration
	running bool
}

func (t *timer) start() {
	if t.running || !t.started.IsZero() {
		return
	}
	t.started = t.clock.Now()
	t.running = true
}

func (t *timer) stop() {
	if !t.running {
		return
	}
	t.elapsed = t.clock.Since(t.started)
	t.running = false
}

func (t *timer) usedTime() time.Duration {
	if t.running {
		return t.clock.Since(t.started)
	}
	return t.elapsed
}

func (t *timer) Total() float64 {
	return t.limit.Seconds()
}

func (t *timer) Used() float64 {
	return min(t.usedTime(), t.limit).Seconds()
}

func (t *timer) Remaining() float64 {
	used := t.usedTime()
	if used >= t.limit {
		return 0
	}
	return (t.limit - used).Seconds()
}

// SearchTimeBudget limits the time spent iterating, after initialization.
type SearchTimeBudget struct {
	lifecycle
	timer
}

var _ Budget = &SearchTimeBudget{}

func NewSearchTimeBudget(limit time.Duration, c clock.PassiveClock) *SearchTimeBudget {
	if c == nil {
		c = clock.RealClock{}
	}
	return &SearchTimeBudget{timer: timer{clock: c, limit: limit}}
}

func (b *SearchTimeBudget) Name() string   { return SearchTimeBudgetName }
func (b *SearchTimeBudget) SearchStarted() { b.start() }
func (b *SearchTimeBudget) SearchStopped() { b.stop() }

// TotalTimeBudget limits the time of the whole run, initialization included.
type TotalTimeBudget struct {
	lifecycle
	timer
}

var _ Budget = &TotalTimeBudget{}

func NewTotalTimeBudget(limit time.Duration, c clock.PassiveClock) *TotalTimeBudget {
	if c == nil {
		c = clock.RealClock{}
	}
	return &TotalTimeBudget{timer: timer{clock: c, limit: limit}}
}

func (b *TotalTimeBudget) Name() string           { return TotalTimeBudgetName }
func (b *TotalTimeBudget) InitializationStarted() { b.start() }
func (b *TotalTimeBudget) SearchStopped()         { b.stop() }
