// Package prompt assembles the layered system prompt for the chat gateway.
//
// The prompt has a fixed ordering that must not change, because the static
// prefix is marked cacheable for providers with prompt-prefix caching:
//
//	static instructions → dynamic OS-state block → conversation turns
//
// The dynamic block is rendered fresh on every request from the caller's
// SystemState snapshot. Nothing in this package is persisted.
package prompt

// SystemState is the caller-supplied snapshot of the client shell. It is
// received on every request, used only to render the dynamic prompt block,
// and discarded afterwards.
type SystemState struct {
	Username  string `json:"username,omitempty"`
	OS        string `json:"os,omitempty"`
	Locale    string `json:"locale,omitempty"`
	TimeZone  string `json:"timeZone,omitempty"`
	LocalTime string `json:"localTime,omitempty"`

	Foreground *AppInstance  `json:"foreground,omitempty"`
	Background []AppInstance `json:"background,omitempty"`

	Video    *VideoState    `json:"video,omitempty"`
	Ipod     *PlayerState   `json:"ipod,omitempty"`
	Karaoke  *PlayerState   `json:"karaoke,omitempty"`
	Browser  *BrowserState  `json:"browser,omitempty"`
	Docs     []DocumentInfo `json:"docs,omitempty"`
	ChatRoom *ChatRoomState `json:"chatRoom,omitempty"`
}

// AppInstance describes one open application window.
type AppInstance struct {
	InstanceID string `json:"instanceId"`
	AppID      string `json:"appId"`
	Title      string `json:"title,omitempty"`

	// Set only for the applet viewer.
	AppletPath string `json:"appletPath,omitempty"`
	AppletID   string `json:"appletId,omitempty"`
}

// VideoState describes the Videos app playback.
type VideoState struct {
	Title   string `json:"title"`
	Playing bool   `json:"playing"`
}

// PlayerState describes iPod or Karaoke playback.
type PlayerState struct {
	TrackID     string   `json:"trackId,omitempty"`
	TrackTitle  string   `json:"trackTitle,omitempty"`
	TrackArtist string   `json:"trackArtist,omitempty"`
	Playing     bool     `json:"playing"`
	LyricLines  []string `json:"lyricLines,omitempty"`
}

// BrowserState describes the Internet Explorer app, including the
// time-travel year and any generated page content.
type BrowserState struct {
	URL       string `json:"url"`
	Year      string `json:"year,omitempty"`
	PageTitle string `json:"pageTitle,omitempty"`
	PageHTML  string `json:"pageHtml,omitempty"`
}

// DocumentInfo summarizes one open TextEdit instance.
type DocumentInfo struct {
	InstanceID string `json:"instanceId"`
	Title      string `json:"title,omitempty"`
	Path       string `json:"path,omitempty"`
	Markdown   string `json:"markdown,omitempty"`
	Dirty      bool   `json:"dirty"`
}

// ChatRoomState carries the chat-room context for in-room mentions.
type ChatRoomState struct {
	RoomID    string        `json:"roomId"`
	Recent    []RoomMessage `json:"recent,omitempty"`
	Mentioned *RoomMessage  `json:"mentioned,omitempty"`
}

// RoomMessage is one chat-room message, included verbatim in the prompt.
type RoomMessage struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Geo is the coarse request geolocation derived from the caller's IP.
// It is rendered only when both fields are present.
type Geo struct {
	City    string
	Country string
}
