package training

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymroutine/internal/events"
	"github.com/2beens/gymroutine/internal/resttimer"
	"github.com/2beens/gymroutine/internal/routines"
	"github.com/2beens/gymroutine/internal/telemetry/metrics"
	"github.com/2beens/gymroutine/internal/telemetry/tracing"
	"github.com/2beens/gymroutine/internal/training/notify"
	"github.com/2beens/gymroutine/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=manager_mocks_test.go -package=training_test

type routineStore interface {
	Get(ctx context.Context, userID string, day routines.Day) (*routines.Routine, error)
	UpdateSetRest(ctx context.Context, userID string, day routines.Day, exIdx, setIdx, restSeconds int) error
}

type notifier interface {
	RestExpired(msg notify.RestExpired)
	RestStarted(rs events.RestStarted)
	TrainingStarted(ts events.TrainingStart)
	TrainingFinished(tf events.TrainingFinish)
}

var (
	ErrSessionNotFound = errors.New("training session not found")
	ErrSetRemoved      = errors.New("set removed from training session")
	ErrInvalidIndex    = errors.New("invalid exercise or set index")
)

const (
	DefaultIdleTTL   = 3 * time.Hour
	sessionIDBytes   = 18
	actionStart      = "start"
	actionPause      = "pause"
	actionReset      = "reset"
	actionExpired    = "expired"
	actionUpdateRest = "update_rest"
	actionRemove     = "remove"
)

type NewManagerParams struct {
	Store              routineStore
	Notifier           notifier
	MetricsManager     *metrics.Manager
	DefaultRestSeconds int
	WakeInterval       time.Duration
	IdleTTL            time.Duration
	// Clock drives the countdowns, the system clock when nil
	Clock resttimer.Clock
}

// Manager owns the open training sessions and their rest countdowns.
type Manager struct {
	store              routineStore
	notifier           notifier
	metricsManager     *metrics.Manager
	defaultRestSeconds int
	wakeInterval       time.Duration
	idleTTL            time.Duration
	clock              resttimer.Clock
	newSessionID       func() (string, error)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(params NewManagerParams) *Manager {
	defaultRest := params.DefaultRestSeconds
	if defaultRest <= 0 {
		defaultRest = routines.DefaultRestSeconds
	}
	wakeInterval := params.WakeInterval
	if wakeInterval <= 0 {
		wakeInterval = resttimer.DefaultWakeInterval
	}
	idleTTL := params.IdleTTL
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	return &Manager{
		store:              params.Store,
		notifier:           params.Notifier,
		metricsManager:     params.MetricsManager,
		defaultRestSeconds: defaultRest,
		wakeInterval:       wakeInterval,
		idleTTL:            idleTTL,
		clock:              params.Clock,
		newSessionID: func() (string, error) {
			return pkg.GenerateRandomString(sessionIDBytes)
		},
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) now() time.Time {
	if m.clock != nil {
		return m.clock.Now()
	}
	return time.Now()
}

// Open loads the routine of the user for the day and opens a session with a countdown
// configured for each of its sets. A missing routine opens an empty session.
func (m *Manager) Open(ctx context.Context, userID string, day routines.Day) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "training.manager.open")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("day", string(day)))

	routine, err := m.store.Get(ctx, userID, day)
	if errors.Is(err, routines.ErrRoutineNotFound) {
		routine = routines.NewEmptyRoutine(userID, day)
	} else if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}

	id, err := m.newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := m.now()
	session := &Session{
		ID:           id,
		UserID:       userID,
		RoutineID:    routine.ID,
		Day:          day,
		OpenedAt:     now,
		lastActivity: now,
		removed:      make(map[resttimer.Key]bool),
	}

	opts := []resttimer.Option{
		resttimer.WithDefaultSeconds(m.defaultRestSeconds),
		resttimer.WithWakeInterval(m.wakeInterval),
		resttimer.WithExpiredHandler(func(key resttimer.Key) {
			m.onExpired(session, key)
		}),
	}
	if m.clock != nil {
		opts = append(opts, resttimer.WithClock(m.clock))
	}
	session.Timers = resttimer.NewRegistry(opts...)

	session.layout = make([]int, len(routine.Exercises))
	for exIdx, ex := range routine.Exercises {
		session.layout[exIdx] = len(ex.Sets)
		for setIdx, set := range ex.Sets {
			rest := set.RestSeconds
			if rest <= 0 {
				rest = m.defaultRestSeconds
			}
			session.Timers.Configure(resttimer.NewKey(exIdx, setIdx), rest)
		}
	}

	m.mu.Lock()
	m.sessions[id] = session
	active := len(m.sessions)
	m.mu.Unlock()

	m.setActiveSessions(active)
	span.SetAttributes(attribute.String("session-id", id))
	log.Debugf("training session [%s] opened for user [%s] day [%s], exercises: %d", id, userID, day, len(routine.Exercises))

	if m.notifier != nil {
		m.notifier.TrainingStarted(events.TrainingStart{
			SessionID: id,
			UserID:    userID,
			Day:       string(day),
			Timestamp: now,
		})
	}

	return session, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close disposes every countdown of the session and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	m.setActiveSessions(active)
	m.closeSession(session, "closed")
	return nil
}

// CloseAll closes every open session, on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.setActiveSessions(0)
	for _, session := range sessions {
		m.closeSession(session, "shutdown")
	}
	log.Debugf("closed %d training sessions", len(sessions))
}

func (m *Manager) closeSession(session *Session, reason string) {
	if !session.markClosed() {
		return
	}
	completed := 0
	for _, snap := range session.Timers.Snapshot() {
		if snap.Status == resttimer.StatusExpired {
			completed++
		}
	}
	session.Timers.DisposeAll()
	log.Debugf("training session [%s] %s, completed rests: %d", session.ID, reason, completed)

	if m.notifier != nil {
		m.notifier.TrainingFinished(events.TrainingFinish{
			SessionID:     session.ID,
			UserID:        session.UserID,
			Day:           string(session.Day),
			SetsCompleted: completed,
			Timestamp:     m.now(),
		})
	}
}

// activeSession returns the session for a timer action on key, refreshing its activity.
func (m *Manager) activeSession(id string, key resttimer.Key) (*Session, error) {
	if key.Exercise < 0 || key.Set < 0 {
		return nil, ErrInvalidIndex
	}
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if session.isRemoved(key) {
		return nil, ErrSetRemoved
	}
	session.touch(m.now())
	return session, nil
}

// StartTimer starts or resumes the countdown of key. When the key has no state yet the
// countdown starts from seconds, or from the configured rest when seconds is nil.
func (m *Manager) StartTimer(id string, key resttimer.Key, seconds *int) (resttimer.Snapshot, error) {
	session, err := m.activeSession(id, key)
	if err != nil {
		return resttimer.Snapshot{}, err
	}

	var before, after resttimer.Snapshot
	err = session.withTimer(key, func() {
		before = session.Timers.Query(key)
		initial := before.DurationSeconds
		if seconds != nil {
			initial = *seconds
		}
		session.Timers.Start(key, initial)
		after = session.Timers.Query(key)
	})
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	m.countAction(actionStart)

	if !before.Running && after.Running {
		if m.metricsManager != nil {
			m.metricsManager.HistRestDuration.Observe(float64(after.DurationSeconds))
		}
		if m.notifier != nil {
			m.notifier.RestStarted(events.RestStarted{
				SessionID:       session.ID,
				UserID:          session.UserID,
				Exercise:        key.Exercise,
				Set:             key.Set,
				DurationSeconds: after.DurationSeconds,
				Timestamp:       m.now(),
			})
		}
	}

	return after, nil
}

func (m *Manager) PauseTimer(id string, key resttimer.Key) (resttimer.Snapshot, error) {
	session, err := m.activeSession(id, key)
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	var snap resttimer.Snapshot
	err = session.withTimer(key, func() {
		session.Timers.Pause(key)
		snap = session.Timers.Query(key)
	})
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	m.countAction(actionPause)
	return snap, nil
}

func (m *Manager) ResetTimer(id string, key resttimer.Key, seconds int) (resttimer.Snapshot, error) {
	session, err := m.activeSession(id, key)
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	var snap resttimer.Snapshot
	err = session.withTimer(key, func() {
		session.Timers.Reset(key, seconds)
		snap = session.Timers.Query(key)
	})
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	m.countAction(actionReset)
	return snap, nil
}

func (m *Manager) QueryTimer(id string, key resttimer.Key) (resttimer.Snapshot, error) {
	if key.Exercise < 0 || key.Set < 0 {
		return resttimer.Snapshot{}, ErrInvalidIndex
	}
	session, err := m.Get(id)
	if err != nil {
		return resttimer.Snapshot{}, err
	}
	if session.isRemoved(key) {
		return resttimer.Snapshot{}, ErrSetRemoved
	}
	return session.Timers.Query(key), nil
}

// UpdateRest resets the countdown of key to seconds, as editing the rest field does, and
// stores the new rest of the set in the routine. persisted is false when the set is not part
// of the stored routine.
func (m *Manager) UpdateRest(ctx context.Context, id string, key resttimer.Key, seconds int) (_ resttimer.Snapshot, persisted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "training.manager.updaterest")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if seconds < 0 {
		return resttimer.Snapshot{}, false, fmt.Errorf("%w: negative rest seconds", ErrInvalidIndex)
	}

	session, err := m.activeSession(id, key)
	if err != nil {
		return resttimer.Snapshot{}, false, err
	}

	var snap resttimer.Snapshot
	err = session.withTimer(key, func() {
		session.Timers.Reset(key, seconds)
		snap = session.Timers.Query(key)
	})
	if err != nil {
		return resttimer.Snapshot{}, false, err
	}
	m.countAction(actionUpdateRest)

	err = m.store.UpdateSetRest(ctx, session.UserID, session.Day, key.Exercise, key.Set, seconds)
	switch {
	case errors.Is(err, routines.ErrRoutineNotFound), errors.Is(err, routines.ErrIndexOutOfRange):
		log.Debugf("training session [%s]: rest of %s not stored: %s", id, key, err)
		return snap, false, nil
	case err != nil:
		return snap, false, fmt.Errorf("store rest seconds: %w", err)
	}

	return snap, true, nil
}

// RemoveSet drops the countdown of the set. The keys of the remaining sets do not change.
func (m *Manager) RemoveSet(id string, key resttimer.Key) error {
	session, err := m.activeSession(id, key)
	if err != nil {
		return err
	}
	session.timersMu.Lock()
	removed := session.removeSet(key)
	if removed {
		session.Timers.Dispose(key)
	}
	session.timersMu.Unlock()

	if removed {
		m.countAction(actionRemove)
	}
	return nil
}

// RemoveExercise drops the countdowns of every set of the exercise.
func (m *Manager) RemoveExercise(id string, exIdx int) error {
	if exIdx < 0 {
		return ErrInvalidIndex
	}
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.touch(m.now())

	session.timersMu.Lock()
	keys, removed := session.removeExercise(exIdx)
	for _, key := range keys {
		session.Timers.Dispose(key)
	}
	session.timersMu.Unlock()

	if removed {
		m.countAction(actionRemove)
	}
	return nil
}

// ReapIdle closes the sessions without timer activity for longer than the idle TTL.
// Sessions with a running countdown are kept.
func (m *Manager) ReapIdle(now time.Time) int {
	m.mu.Lock()
	var reaped []*Session
	for id, session := range m.sessions {
		if now.Sub(session.LastActivity()) <= m.idleTTL || session.Timers.Running() > 0 {
			continue
		}
		reaped = append(reaped, session)
		delete(m.sessions, id)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if len(reaped) == 0 {
		return 0
	}

	m.setActiveSessions(active)
	for _, session := range reaped {
		m.closeSession(session, "reaped")
	}
	log.Debugf("reaped %d idle training sessions", len(reaped))
	return len(reaped)
}

// RunReaper calls ReapIdle every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("training sessions reaper stopped")
			return
		case <-ticker.C:
			m.ReapIdle(m.now())
		}
	}
}

func (m *Manager) onExpired(session *Session, key resttimer.Key) {
	m.countAction(actionExpired)
	if m.metricsManager != nil {
		m.metricsManager.CounterRestExpired.Inc()
	}
	log.Tracef("training session [%s]: rest %s expired", session.ID, key)

	// under mu, RestExpired is queued before TrainingFinished or not at all
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		log.Tracef("training session [%s] closed, rest %s expired cue dropped", session.ID, key)
		return
	}
	if m.notifier != nil {
		m.notifier.RestExpired(notify.RestExpired{
			SessionID: session.ID,
			UserID:    session.UserID,
			Exercise:  key.Exercise,
			Set:       key.Set,
			ExpiredAt: m.now(),
		})
	}
}

func (m *Manager) countAction(action string) {
	if m.metricsManager != nil {
		m.metricsManager.CounterTimerActions.WithLabelValues(action).Inc()
	}
}

func (m *Manager) setActiveSessions(active int) {
	if m.metricsManager != nil {
		m.metricsManager.GaugeActiveSessions.Set(float64(active))
	}
}
