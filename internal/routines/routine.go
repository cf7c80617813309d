package routines

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DefaultRestSeconds = 60

var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrInvalidDay      = errors.New("invalid day")
	ErrIndexOutOfRange = errors.New("exercise or set index out of range")
)

type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"lunes":     Monday,
	"martes":    Tuesday,
	"miércoles": Wednesday,
	"miercoles": Wednesday,
	"jueves":    Thursday,
	"viernes":   Friday,
	"sábado":    Saturday,
	"sabado":    Saturday,
	"domingo":   Sunday,
}

// ParseDay accepts english day names and the spanish ones the mobile app sends, in any case.
func ParseDay(s string) (Day, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		if string(d) == lower {
			return d, nil
		}
	}
	if d, ok := dayAliases[lower]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// DayOf maps a date to its routine day, weeks starting on monday.
func DayOf(t time.Time) Day {
	idx := (int(t.Weekday()) + 6) % 7
	return Days[idx]
}

type Set struct {
	Weight      float64 `json:"weight"`
	Reps        int     `json:"reps"`
	RestSeconds int     `json:"restSeconds"`
	Completed   bool    `json:"completed"`
}

// Rest returns the rest duration of the set, DefaultRestSeconds when not configured.
func (s Set) Rest() int {
	if s.RestSeconds <= 0 {
		return DefaultRestSeconds
	}
	return s.RestSeconds
}

type Exercise struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Sets       []Set  `json:"sets"`
}

type Routine struct {
	ID        int        `json:"id"`
	UserID    string     `json:"userId"`
	Day       Day        `json:"day"`
	Exercises []Exercise `json:"exercises"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewEmptyRoutine(userID string, day Day) *Routine {
	return &Routine{
		UserID:    userID,
		Day:       day,
		Exercises: []Exercise{},
	}
}

func (r *Routine) Set(exIdx, setIdx int) (*Set, error) {
	if exIdx < 0 || exIdx >= len(r.Exercises) {
		return nil, fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, exIdx)
	}
	sets := r.Exercises[exIdx].Sets
	if setIdx < 0 || setIdx >= len(sets) {
		return nil, fmt.Errorf("%w: set %d-%d", ErrIndexOutOfRange, exIdx, setIdx)
	}
	return &sets[setIdx], nil
}

// SetLog is what a trainee reports after performing a set.
type SetLog struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}
