package resttimer

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies one countdown: a set of an exercise within a single editing session.
type Key struct {
	Exercise int `json:"exercise"`
	Set      int `json:"set"`
}

func NewKey(exercise, set int) Key {
	return Key{Exercise: exercise, Set: set}
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d", k.Exercise, k.Set)
}

func (k Key) less(other Key) bool {
	if k.Exercise != other.Exercise {
		return k.Exercise < other.Exercise
	}
	return k.Set < other.Set
}

// ParseKey parses the "exercise-set" form produced by Key.String.
func ParseKey(s string) (Key, error) {
	exStr, setStr, found := strings.Cut(s, "-")
	if !found {
		return Key{}, fmt.Errorf("invalid timer key [%s]", s)
	}
	exercise, err := strconv.Atoi(exStr)
	if err != nil {
		return Key{}, fmt.Errorf("invalid timer key exercise [%s]: %w", s, err)
	}
	set, err := strconv.Atoi(setStr)
	if err != nil {
		return Key{}, fmt.Errorf("invalid timer key set [%s]: %w", s, err)
	}
	return Key{Exercise: exercise, Set: set}, nil
}

// Status is the countdown state machine position of a single key.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// Snapshot is a read-only copy of one countdown.
type Snapshot struct {
	Key              Key    `json:"key"`
	RemainingSeconds int    `json:"remainingSeconds"`
	DurationSeconds  int    `json:"durationSeconds"`
	Running          bool   `json:"running"`
	Status           Status `json:"status"`
}

// Display formats the remaining time as mm:ss.
func (s Snapshot) Display() string {
	return FormatSeconds(s.RemainingSeconds)
}

func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
