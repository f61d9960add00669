// Package commands holds the ordered list of optional actions run when the
// countdown reaches zero.
package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Labels of the built-in end-of-timer commands, in execution order.
const (
	PauseMedia       = "Pause Media"
	LockScreen       = "Lock Screen"
	DisableBluetooth = "Disable Bluetooth"
)

// Labels returns the built-in labels in execution order.
func Labels() []string {
	return []string{PauseMedia, LockScreen, DisableBluetooth}
}

// Env carries the timer state an action may need when it fires.
type Env struct {
	SelectedPlayer string
}

// Action performs one end-of-timer side effect.
type Action func(ctx context.Context, env Env) error

// Command binds a label to its action.
type Command struct {
	Label   string
	Action  Action
	Enabled bool
}

// Registry is an ordered set of end-of-timer commands.
type Registry struct {
	mu       sync.Mutex
	commands []Command
	logger   zerolog.Logger
}

// NewRegistry creates a registry with the commands in the given order.
// Duplicate labels keep the first occurrence.
func NewRegistry(logger zerolog.Logger, commands ...Command) *Registry {
	registry := &Registry{logger: logger}
	seen := make(map[string]bool, len(commands))
	for _, command := range commands {
		if seen[command.Label] {
			continue
		}
		seen[command.Label] = true
		registry.commands = append(registry.commands, command)
	}
	return registry
}

// SetEnabled updates the flag of the command with the given label.
// Unknown labels are ignored.
func (registry *Registry) SetEnabled(label string, enabled bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for index := range registry.commands {
		if registry.commands[index].Label == label {
			registry.commands[index].Enabled = enabled
			return
		}
	}
}

// ApplySelection enables exactly the commands whose labels are listed.
func (registry *Registry) ApplySelection(labels []string) {
	selected := make(map[string]bool, len(labels))
	for _, label := range labels {
		selected[label] = true
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	for index := range registry.commands {
		registry.commands[index].Enabled = selected[registry.commands[index].Label]
	}
}

func (registry *Registry) isEnabled(label string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, command := range registry.commands {
		if command.Label == label {
			return command.Enabled
		}
	}
	return false
}

// Commands returns a copy of the registry contents in order.
func (registry *Registry) Commands() []Command {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return append([]Command(nil), registry.commands...)
}

// ExecuteAll runs every enabled command once, in order, and returns how many
// were attempted. A failing or panicking command does not stop the others.
func (registry *Registry) ExecuteAll(ctx context.Context, env Env) int {
	attempted := 0
	for _, command := range registry.Commands() {
		if !command.Enabled || command.Action == nil {
			continue
		}
		attempted++
		if err := runIsolated(ctx, command, env); err != nil {
			registry.logger.Debug().
				Err(err).
				Str("command", command.Label).
				Msg("end command failed")
		}
	}
	return attempted
}

func runIsolated(ctx context.Context, command Command, env Env) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("command %q panicked: %v", command.Label, recovered)
		}
	}()
	return command.Action(ctx, env)
}
