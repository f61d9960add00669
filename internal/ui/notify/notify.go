// Package notify sends desktop notifications through the fyne app, honouring
// the user's show-notifications setting.
package notify

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
)

// Sender delivers a notification. fyne.App satisfies it.
type Sender interface {
	SendNotification(*fyne.Notification)
}

// Notifier is a switchable notification sink.
type Notifier struct {
	sender  Sender
	enabled atomic.Bool
}

// New returns a Notifier with the given initial state.
func New(sender Sender, enabled bool) *Notifier {
	notifier := &Notifier{sender: sender}
	notifier.enabled.Store(enabled)
	return notifier
}

// SetEnabled toggles delivery.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled.Store(enabled)
}

// Notify shows title and body unless notifications are disabled.
func (notifier *Notifier) Notify(title, body string) {
	if notifier == nil || notifier.sender == nil || !notifier.enabled.Load() {
		return
	}
	notifier.sender.SendNotification(fyne.NewNotification(title, body))
}
