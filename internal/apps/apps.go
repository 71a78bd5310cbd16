// Package apps holds the registry of built-in syaOS applications.
//
// The registry is the single source of truth for valid application IDs:
// tool input validation, the /Applications VFS namespace, and the prompt
// assembler all resolve IDs against it.
package apps

// Application IDs. These match the client shell's app identifiers and are
// part of the tool-calling contract, so they must not be renamed.
const (
	IDFinder           = "finder"
	IDTextEdit         = "textedit"
	IDChats            = "chats"
	IDInternetExplorer = "internet-explorer"
	IDIpod             = "ipod"
	IDKaraoke          = "karaoke"
	IDAppletViewer     = "applet-viewer"
	IDAppletStore      = "applet-store"
	IDPaint            = "paint"
	IDVideos           = "videos"
	IDPhotoBooth       = "photo-booth"
	IDSynth            = "synth"
	IDTerminal         = "terminal"
	IDMinesweeper      = "minesweeper"
	IDControlPanel     = "control-panel"
)

// App describes one installed application.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// registry lists every installed application in dock order.
var registry = []App{
	{ID: IDFinder, Name: "Finder"},
	{ID: IDTextEdit, Name: "TextEdit"},
	{ID: IDChats, Name: "Chats"},
	{ID: IDInternetExplorer, Name: "Internet Explorer"},
	{ID: IDIpod, Name: "iPod"},
	{ID: IDKaraoke, Name: "Karaoke"},
	{ID: IDAppletViewer, Name: "Applet Viewer"},
	{ID: IDAppletStore, Name: "Applet Store"},
	{ID: IDPaint, Name: "Paint"},
	{ID: IDVideos, Name: "Videos"},
	{ID: IDPhotoBooth, Name: "Photo Booth"},
	{ID: IDSynth, Name: "Synth"},
	{ID: IDTerminal, Name: "Terminal"},
	{ID: IDMinesweeper, Name: "Minesweeper"},
	{ID: IDControlPanel, Name: "Control Panel"},
}

// All returns every installed application. The returned slice is a copy.
func All() []App {
	out := make([]App, len(registry))
	copy(out, registry)
	return out
}

// Lookup resolves an application ID. The second return reports existence.
func Lookup(id string) (App, bool) {
	for _, a := range registry {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

// Valid reports whether id names an installed application.
func Valid(id string) bool {
	_, ok := Lookup(id)
	return ok
}
