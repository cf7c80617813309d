package resttimer

import (
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultSeconds      = 60
	DefaultWakeInterval = 250 * time.Millisecond
)

type state struct {
	duration   int
	remaining  int
	running    bool
	lastTickAt time.Time

	// started is false until the first start after creation or reset (IDLE)
	started bool
	// expiredFired guards the expired signal, one per countdown
	expiredFired bool

	// gen invalidates wake-ups armed before the last cancel
	gen    uint64
	wakeup Wakeup
}

func (st *state) status() Status {
	switch {
	case st.running:
		return StatusRunning
	case !st.started:
		return StatusIdle
	case st.remaining == 0:
		return StatusExpired
	default:
		return StatusPaused
	}
}

type Option func(r *Registry)

func WithClock(clock Clock) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithWakeInterval sets how often a running countdown is woken up. Decrements still
// only happen on whole elapsed seconds.
func WithWakeInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.wakeInterval = d
		}
	}
}

func WithDefaultSeconds(seconds int) Option {
	return func(r *Registry) {
		r.defaultSeconds = clamp(seconds)
	}
}

// WithExpiredHandler registers a callback invoked once per countdown reaching zero.
// Handlers run outside the registry lock and may call back into the registry.
func WithExpiredHandler(handler func(Key)) Option {
	return func(r *Registry) {
		if handler != nil {
			r.expiredHandlers = append(r.expiredHandlers, handler)
		}
	}
}

// Registry holds every rest countdown of one editing session, keyed by exercise and set.
// All mutation goes through its methods and the wake-ups it schedules itself.
type Registry struct {
	mu sync.Mutex

	clock           Clock
	wakeInterval    time.Duration
	defaultSeconds  int
	expiredHandlers []func(Key)

	states     map[Key]*state
	configured map[Key]int
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:          systemClock{},
		wakeInterval:   DefaultWakeInterval,
		defaultSeconds: DefaultSeconds,
		states:         make(map[Key]*state),
		configured:     make(map[Key]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configure records the rest duration configured for key. An idle countdown picks it up
// immediately, a started one keeps its remaining time until the next reset.
func (r *Registry) Configure(key Key, seconds int) {
	seconds = clamp(seconds)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.configured[key] = seconds
	if st, ok := r.states[key]; ok && st.status() == StatusIdle {
		st.duration = seconds
		st.remaining = seconds
	}
}

// Start starts or resumes the countdown for key. initialSeconds is only used when the
// key has no state yet. Starting a running or expired countdown does nothing.
func (r *Registry) Start(key Key, initialSeconds int) {
	initialSeconds = clamp(initialSeconds)

	r.mu.Lock()
	st, ok := r.states[key]
	if !ok {
		st = &state{
			duration:  initialSeconds,
			remaining: initialSeconds,
		}
		r.states[key] = st
	}

	if st.running || st.status() == StatusExpired {
		r.mu.Unlock()
		return
	}

	st.started = true
	if st.remaining == 0 {
		fire := r.expireLocked(st)
		r.mu.Unlock()
		if fire {
			r.fireExpired(key, st)
		}
		return
	}

	st.running = true
	st.lastTickAt = r.clock.Now()
	r.armLocked(key, st)
	log.Tracef("rest timer [%s] started, remaining %ds", key, st.remaining)
	r.mu.Unlock()
}

// Pause stops the countdown for key, keeping the remaining time. Unknown or
// non-running keys are ignored.
func (r *Registry) Pause(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[key]
	if !ok || !st.running {
		return
	}
	st.running = false
	r.cancelLocked(st)
}

// Reset cancels the countdown for key and makes newSeconds its duration and remaining time.
func (r *Registry) Reset(key Key, newSeconds int) {
	newSeconds = clamp(newSeconds)

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[key]
	if !ok {
		st = &state{}
		r.states[key] = st
	}
	r.cancelLocked(st)
	st.running = false
	st.started = false
	st.expiredFired = false
	st.duration = newSeconds
	st.remaining = newSeconds
	r.configured[key] = newSeconds
}

// Query returns the countdown for key. Keys never touched report the configured
// duration, not running.
func (r *Registry) Query(key Key) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[key]; ok {
		return snapshotOf(key, st)
	}

	seconds := r.configuredLocked(key)
	return Snapshot{
		Key:              key,
		RemainingSeconds: seconds,
		DurationSeconds:  seconds,
		Running:          false,
		Status:           StatusIdle,
	}
}

// Snapshot returns every countdown that has state, ordered by key.
func (r *Registry) Snapshot() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make([]Snapshot, 0, len(r.states))
	for key, st := range r.states {
		snapshots = append(snapshots, snapshotOf(key, st))
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Key.less(snapshots[j].Key)
	})
	return snapshots
}

// Running returns the number of countdowns currently running.
func (r *Registry) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	running := 0
	for _, st := range r.states {
		if st.running {
			running++
		}
	}
	return running
}

// Dispose drops the state and configuration of key, e.g. when its row is removed.
func (r *Registry) Dispose(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[key]; ok {
		r.cancelLocked(st)
		delete(r.states, key)
	}
	delete(r.configured, key)
}

// DisposeAll cancels every countdown. No wake-up touches any state afterwards.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.states {
		r.cancelLocked(st)
	}
	r.states = make(map[Key]*state)
}

func (r *Registry) configuredLocked(key Key) int {
	if seconds, ok := r.configured[key]; ok {
		return seconds
	}
	return r.defaultSeconds
}

func (r *Registry) armLocked(key Key, st *state) {
	gen := st.gen
	st.wakeup = r.clock.AfterFunc(r.wakeInterval, func() {
		r.wake(key, st, gen)
	})
}

func (r *Registry) cancelLocked(st *state) {
	st.gen++
	if st.wakeup != nil {
		st.wakeup.Stop()
		st.wakeup = nil
	}
}

func (r *Registry) wake(key Key, st *state, gen uint64) {
	r.mu.Lock()
	if r.states[key] != st || st.gen != gen || !st.running {
		// cancelled after this wake-up was queued
		r.mu.Unlock()
		return
	}

	fire := r.tickLocked(st)
	if st.running {
		r.armLocked(key, st)
	}
	r.mu.Unlock()

	if fire {
		r.fireExpired(key, st)
	}
}

// tick applies the whole seconds elapsed since the last decrement of key.
func (r *Registry) tick(key Key) {
	r.mu.Lock()
	st, ok := r.states[key]
	if !ok || !st.running {
		r.mu.Unlock()
		return
	}
	fire := r.tickLocked(st)
	r.mu.Unlock()

	if fire {
		r.fireExpired(key, st)
	}
}

// tickLocked reports whether the expired signal has to be emitted.
func (r *Registry) tickLocked(st *state) bool {
	elapsed := int(r.clock.Now().Sub(st.lastTickAt) / time.Second)
	if elapsed < 1 {
		return false
	}

	st.remaining -= min(elapsed, st.remaining)
	// advance by whole seconds only, keeping the fractional part for the next tick
	st.lastTickAt = st.lastTickAt.Add(time.Duration(elapsed) * time.Second)

	if st.remaining > 0 {
		return false
	}
	return r.expireLocked(st)
}

func (r *Registry) expireLocked(st *state) bool {
	st.running = false
	r.cancelLocked(st)
	if st.expiredFired {
		return false
	}
	st.expiredFired = true
	return true
}

// fireExpired runs the expired handlers of key while st is still its countdown. A Dispose or
// DisposeAll between expiry and delivery drops the remaining handlers.
func (r *Registry) fireExpired(key Key, st *state) {
	log.Tracef("rest timer [%s] expired", key)
	for _, handler := range r.expiredHandlers {
		if !r.holds(key, st) {
			log.Tracef("rest timer [%s] disposed before expired signal", key)
			return
		}
		handler(key)
	}
}

func (r *Registry) holds(key Key, st *state) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[key] == st
}

func snapshotOf(key Key, st *state) Snapshot {
	return Snapshot{
		Key:              key,
		RemainingSeconds: st.remaining,
		DurationSeconds:  st.duration,
		Running:          st.running,
		Status:           st.status(),
	}
}

func clamp(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}
