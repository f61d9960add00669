package model

// Timer limits and defaults.
const (
	MinTimerMinutes     = 1
	MaxTimerMinutes     = 60 * 48
	DefaultTimerMinutes = 30
	DefaultStepIndex    = 2
)

// TimerSteps lists the duration adjustment steps in minutes, in cycle order.
var TimerSteps = []int{1, 5, 10, 30}

// Special player selections. Anything else names a discovered player.
const (
	PlayerNone = "none"
	PlayerAll  = "all"
)

// TimerConfig is the pre-start configuration of the countdown.
type TimerConfig struct {
	DurationMinutes int
	StepIndex       int
}

// DefaultTimerConfig returns the configuration used at startup.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		DurationMinutes: DefaultTimerMinutes,
		StepIndex:       DefaultStepIndex,
	}
}

// StepMinutes returns the step currently selected by StepIndex.
func (config TimerConfig) StepMinutes() int {
	return TimerSteps[normalizeStepIndex(config.StepIndex)]
}

// Adjust moves the duration by one step in the given direction and clamps it.
func (config TimerConfig) Adjust(direction int) TimerConfig {
	switch {
	case direction > 0:
		direction = 1
	case direction < 0:
		direction = -1
	default:
		return config
	}
	config.DurationMinutes = ClampMinutes(config.DurationMinutes + direction*config.StepMinutes())
	return config
}

// NextStep advances StepIndex circularly through TimerSteps.
func (config TimerConfig) NextStep() TimerConfig {
	config.StepIndex = normalizeStepIndex(config.StepIndex + 1)
	return config
}

// Normalize clamps the duration and wraps the step index into range.
func (config TimerConfig) Normalize() TimerConfig {
	config.DurationMinutes = ClampMinutes(config.DurationMinutes)
	config.StepIndex = normalizeStepIndex(config.StepIndex)
	return config
}

// ClampMinutes bounds a duration to [MinTimerMinutes, MaxTimerMinutes].
func ClampMinutes(minutes int) int {
	if minutes < MinTimerMinutes {
		return MinTimerMinutes
	}
	if minutes > MaxTimerMinutes {
		return MaxTimerMinutes
	}
	return minutes
}

func normalizeStepIndex(index int) int {
	count := len(TimerSteps)
	index %= count
	if index < 0 {
		index += count
	}
	return index
}

// Options are the user settings the core consumes at runtime.
type Options struct {
	ShowNotifications bool
	KeepAwake         bool
	DefaultMediaIsAll bool
	EndCommands       []string
}

// DefaultPlayer returns the initial player selection implied by the options.
func (options Options) DefaultPlayer() string {
	if options.DefaultMediaIsAll {
		return PlayerAll
	}
	return PlayerNone
}
