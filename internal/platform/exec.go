package platform

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"
)

// Runner runs external helper programs.
type Runner interface {
	// Output runs the program to completion and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Spawn starts the program without waiting for it.
	Spawn(name string, args ...string) error
}

type execRunner struct {
	logger zerolog.Logger
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(logger zerolog.Logger) Runner {
	return &execRunner{logger: logger}
}

func (runner *execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (runner *execRunner) Spawn(name string, args ...string) error {
	command := exec.Command(name, args...)
	if err := command.Start(); err != nil {
		return err
	}
	go func() {
		if err := command.Wait(); err != nil {
			runner.logger.Debug().
				Err(err).
				Str("program", name).
				Strs("args", args).
				Msg("spawned program exited with error")
		}
	}()
	return nil
}

// Notifier shows a short desktop notification.
type Notifier interface {
	Notify(title, body string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

func notifierOrNop(notifier Notifier) Notifier {
	if notifier == nil {
		return nopNotifier{}
	}
	return notifier
}
