package platform

import "fmt"

// Bluetooth switches the Bluetooth radio off with rfkill.
type Bluetooth struct {
	runner   Runner
	notifier Notifier
}

// NewBluetooth returns a Bluetooth helper. notifier may be nil.
func NewBluetooth(runner Runner, notifier Notifier) *Bluetooth {
	return &Bluetooth{runner: runner, notifier: notifierOrNop(notifier)}
}

// Disable blocks every Bluetooth device without waiting for rfkill to finish.
func (bluetooth *Bluetooth) Disable() error {
	if err := bluetooth.runner.Spawn("rfkill", "block", "bluetooth"); err != nil {
		bluetooth.notifier.Notify("Error", "Failed to disable Bluetooth.")
		return fmt.Errorf("disable bluetooth: %w", err)
	}
	return nil
}
