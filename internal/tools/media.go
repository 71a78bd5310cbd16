package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// Player identifiers for media control directives.
const (
	playerIpod    = "ipod"
	playerKaraoke = "karaoke"
)

// IpodControl drives the iPod player.
func (k *Kit) IpodControl(ctx *ai.ToolContext, input IpodControlInput) (Result, error) {
	res := k.mediaControl(ctx, playerIpod, input.MediaControlInput)
	if res.Status == StatusSuccess && input.EnableVideo != nil {
		res.Data["enableVideo"] = *input.EnableVideo
	}
	return res, nil
}

// KaraokeControl drives the Karaoke player.
func (k *Kit) KaraokeControl(ctx *ai.ToolContext, input KaraokeControlInput) (Result, error) {
	return k.mediaControl(ctx, playerKaraoke, input.MediaControlInput), nil
}

// mediaControl validates and executes one player action. Track-selecting
// actions resolve against the music service so the shell receives full
// track metadata; pure playback actions pass straight through.
func (k *Kit) mediaControl(ctx *ai.ToolContext, player string, input MediaControlInput) Result {
	if err := input.Validate(); err != nil {
		return validationResult(err)
	}
	action := input.NormalizedAction()
	data := map[string]any{"action": action, "player": player}

	switch action {
	case ActionAddAndPlay:
		track, err := k.music.Lookup(ctx.Context, input.ID)
		if err != nil {
			return errorResult(ErrCodeUpstream,
				fmt.Sprintf("could not resolve track %q: %v", input.ID, err))
		}
		data["track"] = track
		return successResult(
			fmt.Sprintf("Added and playing %s by %s", track.Title, track.Artist), data)

	case ActionPlayKnown:
		if input.ID != "" {
			track, err := k.music.Lookup(ctx.Context, input.ID)
			if err != nil {
				return errorResult(ErrCodeUpstream,
					fmt.Sprintf("could not resolve track %q: %v", input.ID, err))
			}
			data["track"] = track
			return successResult(
				fmt.Sprintf("Playing %s by %s", track.Title, track.Artist), data)
		}
		// Title/artist selection is resolved by the player against its own
		// library; pass the selectors through.
		if input.Title != "" {
			data["title"] = input.Title
		}
		if input.Artist != "" {
			data["artist"] = input.Artist
		}
		return successResult("Playing the requested track", data)

	default:
		return successResult(playbackMessage(action), data)
	}
}

// playbackMessage renders the status line for stateless actions.
func playbackMessage(action string) string {
	switch action {
	case ActionPlay:
		return "Playback started"
	case ActionPause:
		return "Playback paused"
	case ActionNext:
		return "Skipped to the next track"
	case ActionPrevious:
		return "Went back to the previous track"
	default:
		return "Toggled playback"
	}
}
