package events

import (
	"strconv"
	"time"
)

type TrainingStart struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Day       string    `json:"day"`
	Timestamp time.Time `json:"timestamp"`
}

type TrainingFinish struct {
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId"`
	Day           string    `json:"day"`
	SetsCompleted int       `json:"setsCompleted"`
	Timestamp     time.Time `json:"timestamp"`
}

type RestStarted struct {
	SessionID       string    `json:"sessionId"`
	UserID          string    `json:"userId"`
	Exercise        int       `json:"exercise"`
	Set             int       `json:"set"`
	DurationSeconds int       `json:"durationSeconds"`
	Timestamp       time.Time `json:"timestamp"`
}

type RestFinished struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Exercise  int       `json:"exercise"`
	Set       int       `json:"set"`
	Timestamp time.Time `json:"timestamp"`
}

// Event (DB level type) records what happened during a training session:
//   - training started / finished
//   - rest countdown started / finished (reached zero)
type Event struct {
	ID        int               `json:"id"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

func NewTrainingStartEvent(ts TrainingStart) Event {
	return Event{
		Type:      EventTypeTrainingStarted,
		Timestamp: ts.Timestamp,
		Data: map[string]string{
			"sessionId": ts.SessionID,
			"userId":    ts.UserID,
			"day":       ts.Day,
		},
	}
}

func NewTrainingFinishEvent(tf TrainingFinish) Event {
	return Event{
		Type:      EventTypeTrainingFinished,
		Timestamp: tf.Timestamp,
		Data: map[string]string{
			"sessionId":     tf.SessionID,
			"userId":        tf.UserID,
			"day":           tf.Day,
			"setsCompleted": strconv.Itoa(tf.SetsCompleted),
		},
	}
}

func NewRestStartedEvent(rs RestStarted) Event {
	return Event{
		Type:      EventTypeRestStarted,
		Timestamp: rs.Timestamp,
		Data: map[string]string{
			"sessionId":       rs.SessionID,
			"userId":          rs.UserID,
			"exercise":        strconv.Itoa(rs.Exercise),
			"set":             strconv.Itoa(rs.Set),
			"durationSeconds": strconv.Itoa(rs.DurationSeconds),
		},
	}
}

func NewRestFinishedEvent(rf RestFinished) Event {
	return Event{
		Type:      EventTypeRestFinished,
		Timestamp: rf.Timestamp,
		Data: map[string]string{
			"sessionId": rf.SessionID,
			"userId":    rf.UserID,
			"exercise":  strconv.Itoa(rf.Exercise),
			"set":       strconv.Itoa(rf.Set),
		},
	}
}

type EventType string

const (
	EventTypeTrainingStarted  EventType = "training_started"
	EventTypeTrainingFinished EventType = "training_finished"
	EventTypeRestStarted      EventType = "rest_started"
	EventTypeRestFinished     EventType = "rest_finished"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeTrainingStarted,
		EventTypeTrainingFinished,
		EventTypeRestStarted,
		EventTypeRestFinished:
		return true
	default:
		return false
	}
}
