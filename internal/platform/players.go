package platform

import (
	"context"
	"fmt"
	"strings"

	"powertimer/internal/core/model"

	"github.com/rs/zerolog"
)

const playerctlBinary = "playerctl"

type knownPlayer struct {
	key  string
	name string
}

// Matched in order against the lowercased player id.
var knownPlayers = []knownPlayer{
	{key: "spotify", name: "Spotify"},
	{key: "ytmdesktop", name: "YouTube Music Desktop"},
	{key: "vlc", name: "VLC"},
	{key: "rhythmbox", name: "Rhythmbox"},
	{key: "audacious", name: "Audacious"},
	{key: "clementine", name: "Clementine"},
	{key: "deezer", name: "Deezer"},
	{key: "tidal", name: "Tidal"},
	{key: "amazonmusic", name: "Amazon Music"},
	{key: "netflix", name: "Netflix"},
	{key: "apple-music", name: "Apple Music"},
	{key: "plex", name: "Plex"},
	{key: "chromium", name: "Google Chrome"},
}

// FriendlyName maps a player id to a display name, falling back to the id.
func FriendlyName(raw string) string {
	switch raw {
	case model.PlayerNone:
		return "None"
	case model.PlayerAll:
		return "All players"
	}
	lowered := strings.ToLower(raw)
	for _, player := range knownPlayers {
		if strings.Contains(lowered, player.key) {
			return player.name
		}
	}
	return raw
}

// Players discovers and pauses MPRIS media players through playerctl.
type Players struct {
	runner   Runner
	notifier Notifier
	logger   zerolog.Logger
}

// NewPlayers returns a Players helper. notifier may be nil.
func NewPlayers(runner Runner, notifier Notifier, logger zerolog.Logger) *Players {
	return &Players{
		runner:   runner,
		notifier: notifierOrNop(notifier),
		logger:   logger,
	}
}

// List returns the ids of running players. Any failure yields an empty list.
func (players *Players) List(ctx context.Context) []string {
	output, err := players.runner.Output(ctx, playerctlBinary, "-l")
	if err != nil {
		players.logger.Debug().Err(err).Msg("player discovery failed")
		return []string{}
	}
	return ParsePlayerList(output)
}

// ParsePlayerList splits playerctl -l output into player ids.
func ParsePlayerList(output []byte) []string {
	ids := []string{}
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	return ids
}

// PauseSelected pauses the selected player, or every player for "all".
// The pause request is not awaited.
func (players *Players) PauseSelected(_ context.Context, selection string) error {
	if selection == "" || selection == model.PlayerNone {
		return nil
	}

	args := []string{"--player=" + selection, "pause"}
	if selection == model.PlayerAll {
		args = []string{"-a", "pause"}
	}

	if err := players.runner.Spawn(playerctlBinary, args...); err != nil {
		players.notifier.Notify("Error", err.Error())
		return fmt.Errorf("pause %s: %w", selection, err)
	}
	players.notifier.Notify("Timer Ended", "Media paused")
	return nil
}
