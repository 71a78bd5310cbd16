package tools

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/syamace/syaos/internal/apps"
	"github.com/syamace/syaos/internal/vfs"
)

// Media control actions.
const (
	ActionToggle     = "toggle"
	ActionPlay       = "play"
	ActionPause      = "pause"
	ActionPlayKnown  = "playKnown"
	ActionAddAndPlay = "addAndPlay"
	ActionNext       = "next"
	ActionPrevious   = "previous"
)

// namedEras are the Internet Explorer time-travel destinations that are
// not plain years.
var namedEras = map[string]bool{
	"1000 BC": true,
	"1 CE":    true,
	"500":     true,
	"800":     true,
	"1000":    true,
	"1200":    true,
	"1400":    true,
	"1600":    true,
	"1700":    true,
	"1800":    true,
	"1900":    true,
}

// futureMilestones are the allowed post-present destinations.
var futureMilestones = map[string]bool{
	"2030": true,
	"2040": true,
	"2050": true,
	"2100": true,
	"2150": true,
	"2200": true,
	"2250": true,
	"2300": true,
	"2400": true,
	"2500": true,
	"2750": true,
	"3000": true,
}

// validYear reports whether year is a named era, a past year in
// [1991, now−1], or a future milestone.
func validYear(year string, now time.Time) bool {
	if namedEras[year] || futureMilestones[year] {
		return true
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	return n >= 1991 && n < now.Year()
}

// LaunchAppInput opens an application window.
type LaunchAppInput struct {
	ID   string `json:"id" jsonschema_description:"The app id to launch"`
	URL  string `json:"url,omitempty" jsonschema_description:"Destination URL, only for internet-explorer"`
	Year string `json:"year,omitempty" jsonschema_description:"Time-travel year, only for internet-explorer"`
}

// Validate enforces the url/year pairing rules.
func (in LaunchAppInput) Validate(now time.Time) *FieldError {
	if !apps.Valid(in.ID) {
		return fieldErr("id", fmt.Sprintf("unknown app id %q", in.ID))
	}
	if in.ID == apps.IDInternetExplorer {
		if in.URL == "" {
			return fieldErr("url", "url is required when launching internet-explorer")
		}
		if in.Year == "" {
			return fieldErr("year", "year is required when launching internet-explorer")
		}
		if !validYear(in.Year, now) {
			return fieldErr("year", fmt.Sprintf("year %q is not a valid destination", in.Year))
		}
		return nil
	}
	if in.URL != "" {
		return fieldErr("url", "url is only allowed when launching internet-explorer")
	}
	if in.Year != "" {
		return fieldErr("year", "year is only allowed when launching internet-explorer")
	}
	return nil
}

// CloseAppInput closes an application window.
type CloseAppInput struct {
	ID string `json:"id" jsonschema_description:"The app id to close"`
}

// Validate checks the app id.
func (in CloseAppInput) Validate() *FieldError {
	if !apps.Valid(in.ID) {
		return fieldErr("id", fmt.Sprintf("unknown app id %q", in.ID))
	}
	return nil
}

// MediaControlInput drives the iPod and Karaoke players. The zero action
// means toggle.
type MediaControlInput struct {
	Action string `json:"action,omitempty" jsonschema_description:"One of toggle, play, pause, playKnown, addAndPlay, next, previous; defaults to toggle"`
	ID     string `json:"id,omitempty" jsonschema_description:"Track id, for playKnown or addAndPlay"`
	Title  string `json:"title,omitempty" jsonschema_description:"Track title, for playKnown"`
	Artist string `json:"artist,omitempty" jsonschema_description:"Track artist, for playKnown"`
}

// IpodControlInput additionally toggles the video pane.
type IpodControlInput struct {
	MediaControlInput
	EnableVideo *bool `json:"enableVideo,omitempty" jsonschema_description:"Show or hide the video pane"`
}

// KaraokeControlInput drives the Karaoke player.
type KaraokeControlInput struct {
	MediaControlInput
}

// NormalizedAction returns the action with the toggle default applied.
func (in MediaControlInput) NormalizedAction() string {
	if in.Action == "" {
		return ActionToggle
	}
	return in.Action
}

// Validate enforces the per-action track-selector rules.
func (in MediaControlInput) Validate() *FieldError {
	action := in.NormalizedAction()
	switch action {
	case ActionAddAndPlay:
		if in.ID == "" {
			return fieldErr("id", "addAndPlay requires a track id")
		}
		if in.Title != "" {
			return fieldErr("title", "title is not allowed with addAndPlay")
		}
		if in.Artist != "" {
			return fieldErr("artist", "artist is not allowed with addAndPlay")
		}
	case ActionPlayKnown:
		if in.ID == "" && in.Title == "" && in.Artist == "" {
			return fieldErr("id", "playKnown requires at least one of id, title, artist")
		}
	case ActionToggle, ActionPlay, ActionPause, ActionNext, ActionPrevious:
		if in.ID != "" {
			return fieldErr("id", fmt.Sprintf("id is not allowed with action %q", action))
		}
		if in.Title != "" {
			return fieldErr("title", fmt.Sprintf("title is not allowed with action %q", action))
		}
		if in.Artist != "" {
			return fieldErr("artist", fmt.Sprintf("artist is not allowed with action %q", action))
		}
	default:
		return fieldErr("action", fmt.Sprintf("unknown action %q", in.Action))
	}
	return nil
}

// GenerateHTMLInput renders a model-authored HTML document in a window.
type GenerateHTMLInput struct {
	HTML  string `json:"html" jsonschema_description:"The complete HTML to render"`
	Title string `json:"title,omitempty" jsonschema_description:"Optional window title"`
	Icon  string `json:"icon,omitempty" jsonschema_description:"Optional single-emoji window icon"`
}

// Validate requires html and, when present, a single-emoji icon.
func (in GenerateHTMLInput) Validate() *FieldError {
	if strings.TrimSpace(in.HTML) == "" {
		return fieldErr("html", "html must not be empty")
	}
	if in.Icon != "" && !isSingleEmoji(in.Icon) {
		return fieldErr("icon", "icon must be a single emoji")
	}
	return nil
}

// isSingleEmoji accepts one emoji, allowing a trailing variation selector
// or a ZWJ-joined pair, and rejects plain text.
func isSingleEmoji(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 4 {
		return false
	}
	for _, r := range s {
		if r == 0x200D || r == 0xFE0F { // ZWJ, variation selector
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r < 0x80 {
			return false
		}
	}
	return true
}

// AquariumInput has no fields.
type AquariumInput struct{}

// ListInput enumerates a virtual filesystem namespace.
type ListInput struct {
	Path  string `json:"path" jsonschema_description:"One of /Applets, /Documents, /Applications, /Music, /Applets Store"`
	Query string `json:"query,omitempty" jsonschema_description:"Fuzzy filter, only for /Applets Store"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results (1-50), only for /Applets Store"`
}

// Validate checks the namespace enumeration and store-only knobs.
func (in ListInput) Validate() *FieldError {
	valid := false
	for _, ns := range vfs.Namespaces {
		if in.Path == ns {
			valid = true
			break
		}
	}
	if !valid {
		return fieldErr("path", fmt.Sprintf("path must be one of %s", strings.Join(vfs.Namespaces, ", ")))
	}
	if utf8.RuneCountInString(in.Query) > 200 {
		return fieldErr("query", "query must be at most 200 characters")
	}
	if in.Limit != 0 && (in.Limit < 1 || in.Limit > 50) {
		return fieldErr("limit", "limit must be between 1 and 50")
	}
	return nil
}

// OpenInput opens a path in its owning application.
type OpenInput struct {
	Path string `json:"path" jsonschema_description:"The virtual path to open"`
}

// Validate requires a path.
func (in OpenInput) Validate() *FieldError {
	if in.Path == "" {
		return fieldErr("path", "path is required")
	}
	return nil
}

// ReadInput reads a path's content.
type ReadInput struct {
	Path string `json:"path" jsonschema_description:"The virtual path to read"`
}

// Validate requires a path.
func (in ReadInput) Validate() *FieldError {
	if in.Path == "" {
		return fieldErr("path", "path is required")
	}
	return nil
}

// WriteInput creates or updates a markdown document.
type WriteInput struct {
	Path    string `json:"path" jsonschema_description:"Target path; must be under /Documents/ and end in .md"`
	Content string `json:"content,omitempty" jsonschema_description:"Markdown content to write"`
	Mode    string `json:"mode,omitempty" jsonschema_description:"One of overwrite (default), append, prepend"`
}

// Validate enforces the documents-only markdown rule and mode enum.
func (in WriteInput) Validate() *FieldError {
	if !strings.HasPrefix(in.Path, vfs.NamespaceDocuments+"/") {
		return fieldErr("path", "path must be under /Documents/")
	}
	if !strings.HasSuffix(in.Path, ".md") {
		return fieldErr("path", "path must end in .md")
	}
	switch in.Mode {
	case "", vfs.ModeOverwrite:
		if in.Content == "" {
			return fieldErr("content", "content is required when overwriting")
		}
	case vfs.ModeAppend, vfs.ModePrepend:
	default:
		return fieldErr("mode", fmt.Sprintf("unknown mode %q", in.Mode))
	}
	return nil
}

// EditInput replaces one exact occurrence of a string in a document or
// applet.
type EditInput struct {
	Path      string `json:"path" jsonschema_description:"Target path under /Documents/ or /Applets/"`
	OldString string `json:"old_string" jsonschema_description:"The exact text to replace; must occur exactly once"`
	NewString string `json:"new_string" jsonschema_description:"The replacement text"`
}

// Validate requires all fields and an editable namespace.
func (in EditInput) Validate() *FieldError {
	if in.Path == "" {
		return fieldErr("path", "path is required")
	}
	if in.OldString == "" {
		return fieldErr("old_string", "old_string is required")
	}
	if in.NewString == "" {
		return fieldErr("new_string", "new_string is required")
	}
	if !strings.HasPrefix(in.Path, vfs.NamespaceDocuments+"/") &&
		!strings.HasPrefix(in.Path, vfs.NamespaceApplets+"/") {
		return fieldErr("path", "path must be under /Documents/ or /Applets/")
	}
	return nil
}

// SearchSongsInput queries the music service.
type SearchSongsInput struct {
	Query      string `json:"query" jsonschema_description:"Search terms (1-200 characters)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema_description:"Maximum results (1-10), default 5"`
}

// Validate bounds the query and result count.
func (in SearchSongsInput) Validate() *FieldError {
	n := utf8.RuneCountInString(in.Query)
	if n < 1 || n > 200 {
		return fieldErr("query", "query must be 1-200 characters")
	}
	if in.MaxResults != 0 && (in.MaxResults < 1 || in.MaxResults > 10) {
		return fieldErr("maxResults", "maxResults must be between 1 and 10")
	}
	return nil
}

// Languages and themes the settings tool accepts.
var (
	validLanguages = map[string]bool{
		"en": true, "zh-TW": true, "ja": true, "ko": true,
		"fr": true, "de": true, "es": true, "pt": true,
	}
	validThemes = map[string]bool{
		"system": true, "classic": true, "dark": true, "aqua": true,
	}
)

// SettingsInput adjusts system preferences. Every field is optional;
// only the ones present are applied.
type SettingsInput struct {
	Language        string   `json:"language,omitempty" jsonschema_description:"UI language code, e.g. en or zh-TW"`
	Theme           string   `json:"theme,omitempty" jsonschema_description:"One of system, classic, dark, aqua"`
	MasterVolume    *float64 `json:"masterVolume,omitempty" jsonschema_description:"Master volume between 0 and 1"`
	SpeechEnabled   *bool    `json:"speechEnabled,omitempty" jsonschema_description:"Enable spoken responses"`
	CheckForUpdates *bool    `json:"checkForUpdates,omitempty" jsonschema_description:"Enable automatic update checks"`
}

// Validate checks each present field against its enum or range.
func (in SettingsInput) Validate() *FieldError {
	if in.Language != "" && !validLanguages[in.Language] {
		return fieldErr("language", fmt.Sprintf("unsupported language %q", in.Language))
	}
	if in.Theme != "" && !validThemes[in.Theme] {
		return fieldErr("theme", fmt.Sprintf("unsupported theme %q", in.Theme))
	}
	if in.MasterVolume != nil && (*in.MasterVolume < 0 || *in.MasterVolume > 1) {
		return fieldErr("masterVolume", "masterVolume must be between 0 and 1")
	}
	return nil
}

// Empty reports whether no setting was provided.
func (in SettingsInput) Empty() bool {
	return in.Language == "" && in.Theme == "" && in.MasterVolume == nil &&
		in.SpeechEnabled == nil && in.CheckForUpdates == nil
}
