// Package tools defines the closed tool catalog exposed to the chat
// model: desktop control, media control, HTML generation, virtual
// filesystem operations, song search, and settings.
//
// Every tool validates its input before acting and reports failures
// inside the Result payload rather than as Go errors, so the model can
// correct itself and the conversation turn keeps going. Handlers are
// plain methods testable without Genkit; registration wraps them as
// thin adapters.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/syamace/syaos/internal/music"
	"github.com/syamace/syaos/internal/vfs"
)

// toolNames is the single source of truth for registered tool names.
var toolNames = []string{
	"launchApp",
	"closeApp",
	"ipodControl",
	"karaokeControl",
	"generateHtml",
	"aquarium",
	"list",
	"open",
	"read",
	"write",
	"edit",
	"searchSongs",
	"settings",
}

// ToolNames returns all registered tool names.
func ToolNames() []string {
	return toolNames
}

// MusicService resolves tracks for the media control and song search
// tools.
type MusicService interface {
	Lookup(ctx context.Context, id string) (music.Track, error)
	Search(ctx context.Context, query string, maxResults int) ([]music.Track, error)
}

// FileRouter performs the virtual filesystem operations.
type FileRouter interface {
	List(ctx context.Context, path, query string, limit int) ([]vfs.ListItem, error)
	Open(ctx context.Context, path string) (*vfs.OpenResult, error)
	Read(ctx context.Context, path string) (*vfs.ReadResult, error)
	Write(ctx context.Context, path, content, mode string) (*vfs.WriteResult, error)
	Edit(ctx context.Context, path, oldStr, newStr string) (*vfs.EditResult, error)
}

// Logger is the optional structured logger interface.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Kit owns the full tool catalog and its dependencies.
type Kit struct {
	router FileRouter
	music  MusicService
	logger Logger
	now    func() time.Time
}

// Option configures optional Kit features.
type Option func(*Kit)

// WithLogger sets an optional logger.
func WithLogger(logger Logger) Option {
	return func(k *Kit) { k.logger = logger }
}

// WithClock overrides the clock used for year validation.
func WithClock(now func() time.Time) Option {
	return func(k *Kit) { k.now = now }
}

// NewKit creates the tool kit. Router and music service are required.
func NewKit(router FileRouter, musicSvc MusicService, opts ...Option) (*Kit, error) {
	if router == nil {
		return nil, fmt.Errorf("file router is required")
	}
	if musicSvc == nil {
		return nil, fmt.Errorf("music service is required")
	}
	k := &Kit{router: router, music: musicSvc, now: time.Now}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// Register defines every catalog tool on the Genkit instance and
// returns them for use with ai.WithTools.
func (k *Kit) Register(g *genkit.Genkit) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}

	var defined []ai.Tool
	defined = append(defined, k.registerDesktopTools(g)...)
	defined = append(defined, k.registerMediaTools(g)...)
	defined = append(defined, k.registerFileTools(g)...)
	defined = append(defined, k.registerSearchTools(g)...)

	if len(defined) != len(toolNames) {
		return nil, fmt.Errorf("registered %d tools, expected %d", len(defined), len(toolNames))
	}
	k.log("registered tool catalog", "count", len(defined))
	return defined, nil
}

// registerDesktopTools covers window management, HTML generation, the
// aquarium easter egg, and settings.
func (k *Kit) registerDesktopTools(g *genkit.Genkit) []ai.Tool {
	return []ai.Tool{
		genkit.DefineTool(g, "launchApp",
			"Launch an application by id. For internet-explorer, url and year are both required "+
				"so the browser opens a specific page in a specific era; for every other app they "+
				"must be omitted.",
			k.LaunchApp),
		genkit.DefineTool(g, "closeApp",
			"Close an open application window by app id.",
			k.CloseApp),
		genkit.DefineTool(g, "generateHtml",
			"Render a complete self-contained HTML document in a new window. Use this to build "+
				"small interactive pages, visualizations, or games on request.",
			k.GenerateHTML),
		genkit.DefineTool(g, "aquarium",
			"Fill the screen with a relaxing aquarium of swimming fish. Takes no input.",
			k.Aquarium),
		genkit.DefineTool(g, "settings",
			"Adjust system preferences: UI language, theme, master volume, spoken responses, "+
				"automatic update checks. Only the provided fields change.",
			k.UpdateSettings),
	}
}

// registerMediaTools covers the iPod and Karaoke players.
func (k *Kit) registerMediaTools(g *genkit.Genkit) []ai.Tool {
	return []ai.Tool{
		genkit.DefineTool(g, "ipodControl",
			"Control the iPod: toggle/play/pause playback, skip with next/previous, play a known "+
				"library track with playKnown (by id, title, or artist), or add a new track by id "+
				"with addAndPlay. Set enableVideo to show or hide the video pane.",
			k.IpodControl),
		genkit.DefineTool(g, "karaokeControl",
			"Control the Karaoke player: toggle/play/pause playback, skip with next/previous, "+
				"play a known track with playKnown (by id, title, or artist), or add a new track "+
				"by id with addAndPlay.",
			k.KaraokeControl),
	}
}

// registerFileTools covers the virtual filesystem.
func (k *Kit) registerFileTools(g *genkit.Genkit) []ai.Tool {
	return []ai.Tool{
		genkit.DefineTool(g, "list",
			"List a virtual filesystem namespace: /Applets, /Documents, /Applications, /Music, "+
				"or /Applets Store. For /Applets Store an optional fuzzy query and result limit "+
				"filter the shared catalog.",
			k.List),
		genkit.DefineTool(g, "open",
			"Open a virtual path in its owning application: play a track, preview a store "+
				"applet, launch an installed app, or open an applet or document.",
			k.Open),
		genkit.DefineTool(g, "read",
			"Read the content of a virtual path: document markdown, applet source, or store "+
				"applet metadata.",
			k.Read),
		genkit.DefineTool(g, "write",
			"Create or update a markdown document under /Documents/. Mode overwrite replaces "+
				"the content, append adds to the end, prepend adds to the beginning.",
			k.Write),
		genkit.DefineTool(g, "edit",
			"Replace one exact occurrence of old_string with new_string in a document or "+
				"applet. Fails if the text is missing or ambiguous.",
			k.Edit),
	}
}

// registerSearchTools covers the music search surface.
func (k *Kit) registerSearchTools(g *genkit.Genkit) []ai.Tool {
	return []ai.Tool{
		genkit.DefineTool(g, "searchSongs",
			"Search the song library by title, artist, or lyrics fragment. Returns up to "+
				"maxResults matches with ids usable by ipodControl and karaokeControl.",
			k.SearchSongs),
	}
}

// log emits through the optional logger.
func (k *Kit) log(msg string, args ...any) {
	if k.logger != nil {
		k.logger.Info(msg, args...)
	}
}

// opResult maps a router failure to a tool Result. Validation and domain
// failures stay inside the Result; only truly unexpected errors become
// internal errors, and even those never abort the turn.
func opResult(err error) Result {
	var opErr *vfs.OpError
	if errors.As(err, &opErr) {
		code := ErrCodeInternal
		switch opErr.Code {
		case vfs.CodeInvalidPath:
			code = ErrCodeValidation
		case vfs.CodeNotFound:
			code = ErrCodeNotFound
		case vfs.CodeConflict:
			code = ErrCodeConflict
		case vfs.CodeUpstream:
			code = ErrCodeUpstream
		}
		return errorResult(code, opErr.Message)
	}
	return errorResult(ErrCodeInternal, err.Error())
}
