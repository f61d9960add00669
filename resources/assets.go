package resources

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

// Icon names for the tray states.
const (
	IconIdle    = "timer-idle.svg"
	IconRunning = "timer-running.svg"
	IconPaused  = "timer-paused.svg"
	IconApp     = "powertimer.svg"
)

const dialFace = `<circle cx="32" cy="36" r="22" fill="none" stroke="%[1]s" stroke-width="5"/>` +
	`<rect x="26" y="4" width="12" height="6" rx="2" fill="%[1]s"/>` +
	`<rect x="48" y="12" width="6" height="8" rx="2" fill="%[1]s" transform="rotate(45 51 16)"/>`

var icons = map[string]string{
	IconIdle: svg(fmt.Sprintf(dialFace, "#d0d0d0") +
		`<path d="M32 36 L32 22" stroke="#d0d0d0" stroke-width="5" stroke-linecap="round"/>`),
	IconRunning: svg(fmt.Sprintf(dialFace, "#f5a623") +
		`<path d="M32 36 L32 18 A18 18 0 0 1 48 44 Z" fill="#f5a623"/>`),
	IconPaused: svg(fmt.Sprintf(dialFace, "#d0d0d0") +
		`<rect x="24" y="26" width="6" height="20" rx="1" fill="#d0d0d0"/>` +
		`<rect x="34" y="26" width="6" height="20" rx="1" fill="#d0d0d0"/>`),
	IconApp: svg(fmt.Sprintf(dialFace, "#3b82f6") +
		`<path d="M32 36 L32 18 A18 18 0 0 1 48 44 Z" fill="#3b82f6"/>`),
}

var iconCache sync.Map

func svg(body string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">` + body + `</svg>`
}

// Icon returns a Fyne resource for the named icon.
func Icon(name string) (fyne.Resource, error) {
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	data, ok := icons[name]
	if !ok {
		return nil, fmt.Errorf("load resource %s: unknown icon", name)
	}

	resource := fyne.NewStaticResource(name, []byte(data))
	iconCache.Store(name, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}
