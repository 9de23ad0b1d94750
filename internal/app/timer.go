package app

import "time"

// Timer measures one attempt. Readings taken from time.Now carry a monotonic
// component, so wall-clock adjustments do not affect elapsed values.
type Timer struct {
	now       func() time.Time
	startedAt time.Time
	running   bool
	frozen    int
}

func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start captures the start instant and clears any frozen reading.
func (t *Timer) Start() time.Time {
	t.startedAt = t.now()
	t.running = true
	t.frozen = 0
	return t.startedAt
}

// Elapsed returns whole seconds since Start while running, or the frozen value.
func (t *Timer) Elapsed() int {
	if !t.running {
		return t.frozen
	}
	return elapsedSeconds(t.startedAt, t.now())
}

// Stop freezes the elapsed value and returns it.
func (t *Timer) Stop() int {
	if t.running {
		t.frozen = elapsedSeconds(t.startedAt, t.now())
		t.running = false
	}
	return t.frozen
}

func (t *Timer) Reset() {
	t.startedAt = time.Time{}
	t.running = false
	t.frozen = 0
}

func (t *Timer) Running() bool { return t.running }

func (t *Timer) StartedAt() time.Time { return t.startedAt }

func (t *Timer) resume(startedAt time.Time) {
	t.startedAt = startedAt
	t.running = true
	t.frozen = 0
}

func (t *Timer) freezeAt(seconds int) {
	t.running = false
	t.frozen = seconds
}

func elapsedSeconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Tick is a live elapsed-time reading published while an attempt is active.
// The limit fields are informational; nothing is submitted when they run out.
type Tick struct {
	SessionID        string `json:"sessionId"`
	ElapsedSeconds   int    `json:"elapsedSeconds"`
	TimeLimitSeconds int    `json:"timeLimitSeconds,omitempty"`
	RemainingSeconds int    `json:"remainingSeconds,omitempty"`
	OverTime         bool   `json:"overTime,omitempty"`
}

func newTick(sessionID string, elapsed, limitSeconds int) Tick {
	tick := Tick{SessionID: sessionID, ElapsedSeconds: elapsed, TimeLimitSeconds: limitSeconds}
	if limitSeconds > 0 {
		if remaining := limitSeconds - elapsed; remaining > 0 {
			tick.RemainingSeconds = remaining
		} else {
			tick.OverTime = true
		}
	}
	return tick
}

// ticker runs emit on a fixed interval until stopped.
type ticker struct {
	stop chan struct{}
	done chan struct{}
}

func startTicker(interval time.Duration, emit func()) *ticker {
	t := &ticker{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				emit()
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Stop blocks until the ticker goroutine has exited. Safe on a nil ticker.
func (t *ticker) Stop() {
	if t == nil {
		return
	}
	close(t.stop)
	<-t.done
}
