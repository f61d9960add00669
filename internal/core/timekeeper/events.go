package timekeeper

import "time"

// State represents the current countdown mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventConfigChange EventType = "config_change"
	EventStarted      EventType = "started"
	EventCompleted    EventType = "completed"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}

// Snapshot is a consistent view of the timer for rendering.
type Snapshot struct {
	State            State
	RemainingSeconds int
	DurationMinutes  int
	StepMinutes      int
	SelectedPlayer   string
	LeaseHeld        bool
}

// Running reports whether a countdown episode is active, paused or not.
func (snapshot Snapshot) Running() bool {
	return snapshot.State != StateIdle
}

// Paused reports whether the countdown is suspended.
func (snapshot Snapshot) Paused() bool {
	return snapshot.State == StatePaused
}
