package training

import (
	"sort"
	"sync"
	"time"

	"github.com/2beens/gymroutine/internal/resttimer"
	"github.com/2beens/gymroutine/internal/routines"
)

// Session is one open training view: the routine of a user for a day and the rest
// countdowns of its sets.
type Session struct {
	ID        string
	UserID    string
	RoutineID int
	Day       routines.Day
	OpenedAt  time.Time
	Timers    *resttimer.Registry

	// timersMu orders timer actions against row removals
	timersMu sync.Mutex

	mu           sync.Mutex
	lastActivity time.Time
	closed       bool
	// sets per exercise as loaded, keys stay stable after removals
	layout  []int
	removed map[resttimer.Key]bool
}

// withTimer runs fn on the countdowns unless key was removed.
func (s *Session) withTimer(key resttimer.Key, fn func()) error {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.isRemoved(key) {
		return ErrSetRemoved
	}
	fn()
	return nil
}

// markClosed reports whether the session was still open.
func (s *Session) markClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastActivity) {
		s.lastActivity = now
	}
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) isRemoved(key resttimer.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed[key] || s.removed[exerciseKey(key.Exercise)]
}

// removeSet marks the key removed and reports whether it was not removed before.
func (s *Session) removeSet(key resttimer.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed[key] || s.removed[exerciseKey(key.Exercise)] {
		return false
	}
	s.removed[key] = true
	return true
}

// removeExercise marks the whole exercise removed and returns the keys to dispose.
func (s *Session) removeExercise(exIdx int) ([]resttimer.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed[exerciseKey(exIdx)] {
		return nil, false
	}
	s.removed[exerciseKey(exIdx)] = true

	var keys []resttimer.Key
	if exIdx < len(s.layout) {
		for setIdx := range s.layout[exIdx] {
			keys = append(keys, resttimer.NewKey(exIdx, setIdx))
		}
	}
	for _, snap := range s.Timers.Snapshot() {
		if snap.Key.Exercise == exIdx && (exIdx >= len(s.layout) || snap.Key.Set >= s.layout[exIdx]) {
			keys = append(keys, snap.Key)
		}
	}
	return keys, true
}

// exerciseKey marks a removed exercise in the removed set.
func exerciseKey(exIdx int) resttimer.Key {
	return resttimer.NewKey(exIdx, -1)
}

type TimerView struct {
	Exercise         int              `json:"exercise"`
	Set              int              `json:"set"`
	RemainingSeconds int              `json:"remainingSeconds"`
	DurationSeconds  int              `json:"durationSeconds"`
	Running          bool             `json:"running"`
	Status           resttimer.Status `json:"status"`
	Display          string           `json:"display"`
}

func NewTimerView(snap resttimer.Snapshot) TimerView {
	return TimerView{
		Exercise:         snap.Key.Exercise,
		Set:              snap.Key.Set,
		RemainingSeconds: snap.RemainingSeconds,
		DurationSeconds:  snap.DurationSeconds,
		Running:          snap.Running,
		Status:           snap.Status,
		Display:          snap.Display(),
	}
}

type SessionView struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	RoutineID    int          `json:"routineId"`
	Day          routines.Day `json:"day"`
	OpenedAt     time.Time    `json:"openedAt"`
	LastActivity time.Time    `json:"lastActivity"`
	Timers       []TimerView  `json:"timers"`
}

// View returns the session with a countdown for every set of the routine, plus any
// countdown started for a set outside it. Removed sets are left out.
func (s *Session) View() SessionView {
	s.mu.Lock()
	layout := s.layout
	removed := make(map[resttimer.Key]bool, len(s.removed))
	for k, v := range s.removed {
		removed[k] = v
	}
	lastActivity := s.lastActivity
	s.mu.Unlock()

	isRemoved := func(key resttimer.Key) bool {
		return removed[key] || removed[exerciseKey(key.Exercise)]
	}

	timers := make([]TimerView, 0)
	seen := make(map[resttimer.Key]bool)
	for exIdx, sets := range layout {
		for setIdx := range sets {
			key := resttimer.NewKey(exIdx, setIdx)
			seen[key] = true
			if isRemoved(key) {
				continue
			}
			timers = append(timers, NewTimerView(s.Timers.Query(key)))
		}
	}
	for _, snap := range s.Timers.Snapshot() {
		if seen[snap.Key] || isRemoved(snap.Key) {
			continue
		}
		timers = append(timers, NewTimerView(snap))
	}

	sort.Slice(timers, func(i, j int) bool {
		if timers[i].Exercise != timers[j].Exercise {
			return timers[i].Exercise < timers[j].Exercise
		}
		return timers[i].Set < timers[j].Set
	})

	return SessionView{
		ID:           s.ID,
		UserID:       s.UserID,
		RoutineID:    s.RoutineID,
		Day:          s.Day,
		OpenedAt:     s.OpenedAt,
		LastActivity: lastActivity,
		Timers:       timers,
	}
}
