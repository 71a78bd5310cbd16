package prompt

import (
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/syamace/syaos/internal/apps"
	"github.com/syamace/syaos/internal/log"
)

// Rendering limits for the dynamic block.
const (
	// maxLyricLines caps the lyric excerpt included per player.
	maxLyricLines = 10

	// docPreviewMax caps the content preview per open document.
	docPreviewMax = 500
)

// referenceZoneName is the fixed time zone the wall-clock line is always
// rendered in, independent of the caller's locale.
const referenceZoneName = "America/Los_Angeles"

// Message is one system message produced by the assembler. Cacheable marks
// the stable prefix for providers that support prompt-prefix caching;
// providers without it may ignore the hint.
type Message struct {
	Text      string
	Cacheable bool
}

// Assembler renders the ordered system messages for one request.
type Assembler struct {
	logger  log.Logger
	refZone *time.Location
	now     func() time.Time
}

// NewAssembler creates an Assembler. The reference zone is resolved once;
// if unavailable on the host, UTC is used.
func NewAssembler(logger log.Logger) *Assembler {
	zone, err := time.LoadLocation(referenceZoneName)
	if err != nil {
		logger.Warn("reference time zone unavailable, falling back to UTC",
			"zone", referenceZoneName, "error", err)
		zone = time.UTC
	}
	return &Assembler{logger: logger, refZone: zone, now: time.Now}
}

// WithClock overrides the clock. Tests only.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble produces the ordered system messages: the cacheable static
// prefix, then the per-request dynamic block, then (if present) the
// chat-room instruction block. state and geo may be nil.
func (a *Assembler) Assemble(state *SystemState, geo *Geo) []Message {
	msgs := []Message{
		{Text: strings.Join(staticBlocks, "\n\n"), Cacheable: true},
		{Text: a.renderDynamic(state, geo)},
	}
	if state != nil && state.ChatRoom != nil {
		msgs = append(msgs, Message{Text: renderChatRoom(state.ChatRoom)})
	}
	return msgs
}

// renderDynamic renders the CURRENT OS STATE block from the snapshot.
func (a *Assembler) renderDynamic(state *SystemState, geo *Geo) string {
	var b strings.Builder
	b.WriteString("CURRENT OS STATE:\n")

	now := a.now().In(a.refZone)
	fmt.Fprintf(&b, "Time: %s\n", now.Format("Monday, January 2, 2006 3:04 PM MST"))

	if state == nil {
		b.WriteString("Apps: None\n")
		return strings.TrimRight(b.String(), "\n")
	}

	if state.LocalTime != "" {
		line := "User local time: " + state.LocalTime
		if state.TimeZone != "" {
			line += " (" + state.TimeZone + ")"
		}
		b.WriteString(line + "\n")
	}
	if state.Username != "" {
		fmt.Fprintf(&b, "User: %s\n", state.Username)
	}
	if state.OS != "" {
		fmt.Fprintf(&b, "Client OS: %s\n", state.OS)
	}
	if state.Locale != "" {
		fmt.Fprintf(&b, "Locale: %s\n", state.Locale)
	}
	if geo != nil && geo.City != "" && geo.Country != "" {
		fmt.Fprintf(&b, "Approximate location (IP-inferred, may be inaccurate): %s, %s\n",
			geo.City, geo.Country)
	}

	renderApps(&b, state)
	renderMedia(&b, state)
	renderBrowser(&b, state)
	renderDocs(&b, state.Docs)

	return strings.TrimRight(b.String(), "\n")
}

// renderApps writes the foreground/background application lines.
func renderApps(b *strings.Builder, state *SystemState) {
	if state.Foreground == nil && len(state.Background) == 0 {
		b.WriteString("Apps: None\n")
		return
	}
	if state.Foreground != nil {
		fmt.Fprintf(b, "Foreground app: %s\n", describeInstance(*state.Foreground))
	} else {
		b.WriteString("Foreground app: None\n")
	}
	if len(state.Background) == 0 {
		b.WriteString("Background apps: None\n")
		return
	}
	names := make([]string, len(state.Background))
	for i, inst := range state.Background {
		names[i] = describeInstance(inst)
	}
	fmt.Fprintf(b, "Background apps: %s\n", strings.Join(names, "; "))
}

// describeInstance formats one app instance, appending the applet path/id
// in brackets for the applet viewer.
func describeInstance(inst AppInstance) string {
	name := inst.AppID
	if app, ok := apps.Lookup(inst.AppID); ok {
		name = app.Name
	}
	if inst.Title != "" && inst.Title != name {
		name += " (" + inst.Title + ")"
	}
	if inst.AppID == apps.IDAppletViewer {
		switch {
		case inst.AppletPath != "" && inst.AppletID != "":
			name += fmt.Sprintf(" [%s, id=%s]", inst.AppletPath, inst.AppletID)
		case inst.AppletPath != "":
			name += " [" + inst.AppletPath + "]"
		case inst.AppletID != "":
			name += " [id=" + inst.AppletID + "]"
		}
	}
	return name
}

// renderMedia writes the media playback section. It is included only when
// something is actively relevant: a video, or a player whose app is open.
func renderMedia(b *strings.Builder, state *SystemState) {
	ipodRelevant := state.Ipod != nil && appOpen(state, apps.IDIpod)
	karaokeRelevant := state.Karaoke != nil && appOpen(state, apps.IDKaraoke)
	if state.Video == nil && !ipodRelevant && !karaokeRelevant {
		return
	}

	b.WriteString("Media playback:\n")
	if state.Video != nil {
		fmt.Fprintf(b, "- Video: %s (%s)\n", state.Video.Title, playState(state.Video.Playing))
	}
	if ipodRelevant {
		renderPlayer(b, "iPod", state.Ipod)
	}
	if karaokeRelevant {
		renderPlayer(b, "Karaoke", state.Karaoke)
	}
}

// renderPlayer writes one player line plus a truncated lyric excerpt.
func renderPlayer(b *strings.Builder, label string, p *PlayerState) {
	track := p.TrackTitle
	if p.TrackArtist != "" {
		track += " — " + p.TrackArtist
	}
	if track == "" {
		track = "(no track)"
	}
	fmt.Fprintf(b, "- %s: %s (%s)\n", label, track, playState(p.Playing))

	if len(p.LyricLines) == 0 {
		return
	}
	lines := p.LyricLines
	if len(lines) > maxLyricLines {
		rest := len(lines) - maxLyricLines
		lines = lines[:maxLyricLines]
		b.WriteString("  " + strings.Join(lines, "\n  ") + "\n")
		fmt.Fprintf(b, "  (%d more lines)\n", rest)
		return
	}
	b.WriteString("  " + strings.Join(lines, "\n  ") + "\n")
}

// renderBrowser writes the Internet Explorer time-travel section. Included
// only when the app is open and has a URL.
func renderBrowser(b *strings.Builder, state *SystemState) {
	br := state.Browser
	if br == nil || br.URL == "" || !appOpen(state, apps.IDInternetExplorer) {
		return
	}
	line := "Internet Explorer: " + br.URL
	if br.Year != "" {
		line += " (year " + br.Year + ")"
	}
	b.WriteString(line + "\n")
	if br.PageTitle != "" {
		fmt.Fprintf(b, "Page title: %s\n", br.PageTitle)
	}
	if br.PageHTML != "" {
		md, err := htmltomarkdown.ConvertString(br.PageHTML)
		if err != nil || strings.TrimSpace(md) == "" {
			return
		}
		b.WriteString("Page content (markdown):\n" + strings.TrimSpace(md) + "\n")
	}
}

// renderDocs writes one line per open TextEdit instance.
func renderDocs(b *strings.Builder, docs []DocumentInfo) {
	if len(docs) == 0 {
		return
	}
	b.WriteString("Open documents:\n")
	for _, d := range docs {
		name := d.Title
		if name == "" {
			name = "Untitled"
		}
		line := "- " + name
		if d.Dirty {
			line += " (unsaved changes)"
		}
		if d.Path != "" {
			line += " at " + d.Path
		}
		if d.Markdown != "" {
			line += ": " + truncate(d.Markdown, docPreviewMax)
		}
		b.WriteString(line + "\n")
	}
}

// renderChatRoom builds the separate instructional block for chat-room
// mentions. Recent and mentioned messages are included verbatim.
func renderChatRoom(room *ChatRoomState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CHAT ROOM CONTEXT (room %s):\n", room.RoomID)
	b.WriteString("You were mentioned in this room. Reply concisely and in character; " +
		"your reply is posted to the room, not to a private chat.\n")
	if len(room.Recent) > 0 {
		b.WriteString("Recent messages:\n")
		for _, m := range room.Recent {
			fmt.Fprintf(&b, "%s: %s\n", m.Author, m.Content)
		}
	}
	if room.Mentioned != nil {
		fmt.Fprintf(&b, "Message mentioning you:\n%s: %s\n",
			room.Mentioned.Author, room.Mentioned.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// appOpen reports whether the given app ID is the foreground instance or
// among the background instances.
func appOpen(state *SystemState, appID string) bool {
	if state.Foreground != nil && state.Foreground.AppID == appID {
		return true
	}
	for _, inst := range state.Background {
		if inst.AppID == appID {
			return true
		}
	}
	return false
}

// playState formats a play/pause flag.
func playState(playing bool) string {
	if playing {
		return "playing"
	}
	return "paused"
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
