package tools

import (
	"strings"
	"testing"

	"github.com/syamace/syaos/internal/music"
)

func TestMediaControl_Validation(t *testing.T) {
	kit, _, _ := newTestKit(t)

	tests := []struct {
		name      string
		input     MediaControlInput
		wantField string
	}{
		{name: "addAndPlay without id",
			input: MediaControlInput{Action: ActionAddAndPlay}, wantField: "id"},
		{name: "addAndPlay with title",
			input:     MediaControlInput{Action: ActionAddAndPlay, ID: "track-1", Title: "Blue Moon"},
			wantField: "title"},
		{name: "addAndPlay with artist",
			input:     MediaControlInput{Action: ActionAddAndPlay, ID: "track-1", Artist: "The Setters"},
			wantField: "artist"},
		{name: "playKnown without selector",
			input: MediaControlInput{Action: ActionPlayKnown}, wantField: "id"},
		{name: "toggle with id",
			input: MediaControlInput{Action: ActionToggle, ID: "track-1"}, wantField: "id"},
		{name: "next with title",
			input: MediaControlInput{Action: ActionNext, Title: "Blue Moon"}, wantField: "title"},
		{name: "unknown action",
			input: MediaControlInput{Action: "rewind"}, wantField: "action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := kit.IpodControl(toolCtx(), IpodControlInput{MediaControlInput: tt.input})
			if err != nil {
				t.Fatalf("IpodControl returned a Go error: %v", err)
			}
			wantValidationError(t, res, tt.wantField)
		})
	}
}

func TestMediaControl_DefaultActionIsToggle(t *testing.T) {
	kit, _, _ := newTestKit(t)

	res, err := kit.IpodControl(toolCtx(), IpodControlInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.Message)
	}
	if res.Data["action"] != ActionToggle || res.Data["player"] != "ipod" {
		t.Errorf("data = %v", res.Data)
	}
}

func TestMediaControl_AddAndPlay(t *testing.T) {
	kit, _, _ := newTestKit(t)

	t.Run("resolves the track", func(t *testing.T) {
		res, err := kit.IpodControl(toolCtx(), IpodControlInput{
			MediaControlInput: MediaControlInput{Action: ActionAddAndPlay, ID: "track-1"}})
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
		track, ok := res.Data["track"].(music.Track)
		if !ok || track.Title != "Blue Moon" {
			t.Errorf("track = %v", res.Data["track"])
		}
		if !strings.Contains(res.Message, "Blue Moon") {
			t.Errorf("message = %q", res.Message)
		}
	})

	t.Run("unknown id is an upstream error, not a Go error", func(t *testing.T) {
		res, err := kit.IpodControl(toolCtx(), IpodControlInput{
			MediaControlInput: MediaControlInput{Action: ActionAddAndPlay, ID: "track-404"}})
		if err != nil {
			t.Fatalf("tool failure leaked as a Go error: %v", err)
		}
		if res.Status != StatusError || res.Error == nil || res.Error.Code != ErrCodeUpstream {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestMediaControl_PlayKnown(t *testing.T) {
	kit, _, _ := newTestKit(t)

	t.Run("by id resolves metadata", func(t *testing.T) {
		res, _ := kit.KaraokeControl(toolCtx(), KaraokeControlInput{
			MediaControlInput: MediaControlInput{Action: ActionPlayKnown, ID: "track-1"}})
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
		if res.Data["player"] != "karaoke" {
			t.Errorf("player = %v", res.Data["player"])
		}
	})

	t.Run("by title passes the selector through", func(t *testing.T) {
		res, _ := kit.KaraokeControl(toolCtx(), KaraokeControlInput{
			MediaControlInput: MediaControlInput{Action: ActionPlayKnown, Title: "Blue Moon"}})
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
		if res.Data["title"] != "Blue Moon" {
			t.Errorf("data = %v", res.Data)
		}
		if _, ok := res.Data["track"]; ok {
			t.Error("title selection must not fabricate track metadata")
		}
	})
}

func TestIpodControl_EnableVideo(t *testing.T) {
	kit, _, _ := newTestKit(t)

	show := true
	res, err := kit.IpodControl(toolCtx(), IpodControlInput{
		MediaControlInput: MediaControlInput{Action: ActionPlay},
		EnableVideo:       &show,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Data["enableVideo"] != true {
		t.Errorf("data = %v", res.Data)
	}

	// The flag must not leak into failed results.
	res, _ = kit.IpodControl(toolCtx(), IpodControlInput{
		MediaControlInput: MediaControlInput{Action: "rewind"},
		EnableVideo:       &show,
	})
	if res.Status != StatusError {
		t.Fatalf("status = %q", res.Status)
	}
	if res.Data != nil {
		t.Errorf("failed result carries data: %v", res.Data)
	}
}

func TestPlaybackMessage(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{ActionPlay, "Playback started"},
		{ActionPause, "Playback paused"},
		{ActionNext, "Skipped to the next track"},
		{ActionPrevious, "Went back to the previous track"},
		{ActionToggle, "Toggled playback"},
	}
	for _, tt := range tests {
		if got := playbackMessage(tt.action); got != tt.want {
			t.Errorf("playbackMessage(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}
