package vfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/syamace/syaos/internal/applets"
	"github.com/syamace/syaos/internal/apps"
	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/music"
)

// Write modes.
const (
	ModeOverwrite = "overwrite"
	ModeAppend    = "append"
	ModePrepend   = "prepend"
)

// MusicLibrary resolves tracks for the /Music namespace.
type MusicLibrary interface {
	Tracks(ctx context.Context) ([]music.Track, error)
	Lookup(ctx context.Context, id string) (music.Track, error)
}

// AppletCatalog resolves shared applets for the /Applets Store namespace.
type AppletCatalog interface {
	List(ctx context.Context) ([]applets.SharedApplet, error)
	Get(ctx context.Context, id string) (*applets.SharedApplet, error)
}

// Router dispatches list/open/read/write/edit calls across the five VFS
// namespaces. It holds no per-request state and is safe for concurrent
// use; within one conversation turn the model issues calls sequentially.
type Router struct {
	meta    MetadataStore
	content ContentStore
	library MusicLibrary
	catalog AppletCatalog
	policy  SearchPolicy
	logger  log.Logger
	now     func() time.Time

	// notify, when set, is called after every successful Write or Edit
	// with the path and final content, so live editor instances holding
	// the document can be refreshed.
	notify func(path, content string)
}

// NewRouter creates a Router over the given stores and services.
func NewRouter(meta MetadataStore, content ContentStore, library MusicLibrary,
	catalog AppletCatalog, logger log.Logger) *Router {
	return &Router{
		meta:    meta,
		content: content,
		library: library,
		catalog: catalog,
		policy:  DefaultSearchPolicy(),
		logger:  logger,
		now:     time.Now,
	}
}

// WithSearchPolicy overrides the fuzzy-search policy. Tests only.
func (r *Router) WithSearchPolicy(p SearchPolicy) *Router {
	r.policy = p
	return r
}

// WithChangeNotifier registers the post-write notification hook.
func (r *Router) WithChangeNotifier(fn func(path, content string)) *Router {
	r.notify = fn
	return r
}

// ListItem is one projection returned by List. Fields beyond Path are
// namespace-dependent.
type ListItem struct {
	Path    string `json:"path"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Title   string `json:"title,omitempty"`
	Artist  string `json:"artist,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// List enumerates a namespace. query and limit apply only to the Applets
// Store namespace and are ignored elsewhere.
func (r *Router) List(ctx context.Context, path, query string, limit int) ([]ListItem, error) {
	switch path {
	case NamespaceMusic:
		return r.listMusic(ctx)
	case NamespaceAppletStore:
		return r.listStore(ctx, query, limit)
	case NamespaceApplications:
		return r.listApplications(), nil
	case NamespaceApplets, NamespaceDocuments:
		return r.listEntries(ctx, path)
	default:
		return nil, opErrorf(CodeInvalidPath, "cannot list %q: not a VFS namespace", path)
	}
}

// listMusic projects the track library.
func (r *Router) listMusic(ctx context.Context) ([]ListItem, error) {
	tracks, err := r.library.Tracks(ctx)
	if err != nil {
		return nil, opErrorf(CodeUpstream, "music library unavailable: %v", err)
	}
	items := make([]ListItem, len(tracks))
	for i, t := range tracks {
		items[i] = ListItem{
			Path:   Join(NamespaceMusic, t.ID),
			ID:     t.ID,
			Title:  t.Title,
			Artist: t.Artist,
		}
	}
	return items, nil
}

// listStore fetches the shared catalog and applies the fuzzy search.
func (r *Router) listStore(ctx context.Context, query string, limit int) ([]ListItem, error) {
	candidates, err := r.catalog.List(ctx)
	if err != nil {
		return nil, opErrorf(CodeUpstream, "applet catalog unavailable: %v", err)
	}
	ranked := rankApplets(candidates, query, limit, r.policy)
	items := make([]ListItem, len(ranked))
	for i, s := range ranked {
		items[i] = ListItem{
			Path:    Join(NamespaceAppletStore, s.applet.ID),
			ID:      s.applet.ID,
			Name:    s.applet.Name,
			Title:   s.applet.Title,
			Creator: s.applet.Creator,
		}
	}
	return items, nil
}

// listApplications projects the installed app registry, excluding the
// file manager itself.
func (r *Router) listApplications() []ListItem {
	var items []ListItem
	for _, a := range apps.All() {
		if a.ID == apps.IDFinder {
			continue
		}
		items = append(items, ListItem{
			Path: Join(NamespaceApplications, a.ID),
			ID:   a.ID,
			Name: a.Name,
		})
	}
	return items
}

// listEntries enumerates active, non-directory entries strictly under the
// namespace prefix.
func (r *Router) listEntries(ctx context.Context, prefix string) ([]ListItem, error) {
	entries, err := r.meta.List(ctx, prefix)
	if err != nil {
		return nil, opErrorf(CodeStorage, "listing %s: %v", prefix, err)
	}
	var items []ListItem
	for _, e := range entries {
		if e.Status != StatusActive || e.Type == TypeDirectory {
			continue
		}
		items = append(items, ListItem{Path: e.Path, Name: e.Name})
	}
	return items, nil
}

// OpenResult tells the client shell what to open. Action determines which
// of the remaining fields are set.
type OpenResult struct {
	Action  string `json:"action"` // playTrack | previewApplet | launchApp | openApplet | openDocument
	Message string `json:"message"`

	AppID   string       `json:"appId,omitempty"`
	Track   *music.Track `json:"track,omitempty"`
	ShareID string       `json:"shareId,omitempty"`
	Path    string       `json:"path,omitempty"`
	Title   string       `json:"title,omitempty"`

	// Content is the raw applet HTML or, for documents, the editor's
	// HTML representation converted from the stored markdown.
	Content string `json:"content,omitempty"`
}

// Open routes an open call by namespace prefix.
func (r *Router) Open(ctx context.Context, path string) (*OpenResult, error) {
	ns, key, err := SplitPath(path)
	if err != nil || key == "" {
		return nil, opErrorf(CodeInvalidPath, "cannot open %q", path)
	}

	switch ns {
	case NamespaceMusic:
		return r.openTrack(ctx, key)
	case NamespaceAppletStore:
		return r.openStorePreview(ctx, key)
	case NamespaceApplications:
		app, ok := apps.Lookup(key)
		if !ok {
			return nil, opErrorf(CodeNotFound, "no application with id %q", key)
		}
		return &OpenResult{
			Action:  "launchApp",
			Message: fmt.Sprintf("Launched %s", app.Name),
			AppID:   app.ID,
		}, nil
	case NamespaceApplets:
		return r.openStored(ctx, path, "openApplet", false)
	case NamespaceDocuments:
		return r.openStored(ctx, path, "openDocument", true)
	default:
		return nil, opErrorf(CodeInvalidPath, "cannot open %q", path)
	}
}

// openTrack resolves a track id, ensuring the player starts it.
func (r *Router) openTrack(ctx context.Context, id string) (*OpenResult, error) {
	track, err := r.library.Lookup(ctx, id)
	if err != nil {
		return nil, opErrorf(CodeNotFound, "no track with id %q in the library", id)
	}
	return &OpenResult{
		Action:  "playTrack",
		Message: fmt.Sprintf("Now playing %s — %s", track.Title, track.Artist),
		AppID:   apps.IDIpod,
		Track:   &track,
	}, nil
}

// openStorePreview opens a preview instance seeded with the share id.
func (r *Router) openStorePreview(ctx context.Context, id string) (*OpenResult, error) {
	applet, err := r.catalog.Get(ctx, id)
	if err != nil {
		return nil, opErrorf(CodeUpstream, "applet %q unavailable: %v", id, err)
	}
	return &OpenResult{
		Action:  "previewApplet",
		Message: fmt.Sprintf("Opened a preview of %s", applet.Title),
		AppID:   apps.IDAppletViewer,
		ShareID: applet.ID,
		Title:   applet.Title,
	}, nil
}

// openStored opens an applet or document from the two-table store. For
// documents the stored markdown is converted to the editor's HTML
// representation.
func (r *Router) openStored(ctx context.Context, path, action string, convertMarkdown bool) (*OpenResult, error) {
	entry, data, err := r.fetchActiveContent(ctx, path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	if convertMarkdown {
		var buf bytes.Buffer
		if convErr := goldmark.Convert(data, &buf); convErr != nil {
			return nil, opErrorf(CodeStorage, "converting %q: %v", path, convErr)
		}
		content = buf.String()
	}

	appID := apps.IDAppletViewer
	if action == "openDocument" {
		appID = apps.IDTextEdit
	}
	return &OpenResult{
		Action:  action,
		Message: fmt.Sprintf("Opened %s", entry.Name),
		AppID:   appID,
		Path:    path,
		Title:   entry.Name,
		Content: content,
	}, nil
}

// ReadResult carries raw content or, for store entries, a JSON payload.
type ReadResult struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Chars   int    `json:"chars,omitempty"`

	// Store holds the merged remote metadata for /Applets Store reads.
	Store map[string]any `json:"store,omitempty"`
}

// Read returns raw text content for applets and documents, or merged
// metadata for store entries.
func (r *Router) Read(ctx context.Context, path string) (*ReadResult, error) {
	ns, key, err := SplitPath(path)
	if err != nil || key == "" {
		return nil, opErrorf(CodeInvalidPath, "cannot read %q", path)
	}

	switch ns {
	case NamespaceAppletStore:
		return r.readStoreEntry(ctx, key)
	case NamespaceApplets, NamespaceDocuments:
		_, data, err := r.fetchActiveContent(ctx, path)
		if err != nil {
			return nil, err
		}
		content := string(data)
		return &ReadResult{
			Path:    path,
			Content: content,
			Chars:   utf8.RuneCountInString(content),
		}, nil
	default:
		return nil, opErrorf(CodeInvalidPath, "cannot read %q", path)
	}
}

// readStoreEntry merges remote catalog metadata with any locally-installed
// applet entry matching the shared applet's name.
func (r *Router) readStoreEntry(ctx context.Context, id string) (*ReadResult, error) {
	applet, err := r.catalog.Get(ctx, id)
	if err != nil {
		return nil, opErrorf(CodeUpstream, "applet %q unavailable: %v", id, err)
	}

	payload := map[string]any{
		"id":        applet.ID,
		"title":     applet.Title,
		"name":      applet.Name,
		"creator":   applet.Creator,
		"createdAt": applet.CreatedAt,
	}
	if installed := r.findInstalledApplet(ctx, applet.Name); installed != "" {
		payload["installedPath"] = installed
	}
	return &ReadResult{Path: Join(NamespaceAppletStore, id), Store: payload}, nil
}

// findInstalledApplet returns the path of an active /Applets entry with
// the given name, or empty.
func (r *Router) findInstalledApplet(ctx context.Context, name string) string {
	entries, err := r.meta.List(ctx, NamespaceApplets)
	if err != nil {
		r.logger.Debug("local applet lookup failed", "error", err)
		return ""
	}
	for _, e := range entries {
		if e.Status == StatusActive && e.Name == name {
			return e.Path
		}
	}
	return ""
}

// WriteResult reports a document write.
type WriteResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Size    int    `json:"size"`
	Message string `json:"message"`

	// Content is the final stored content, for refreshing a live editor
	// instance holding this path.
	Content string `json:"content"`
}

// Write creates or updates a markdown document under /Documents. Mode
// append/prepend combines with existing content; overwrite replaces it.
// The entry's size is recomputed from the final byte length.
func (r *Router) Write(ctx context.Context, path, content, mode string) (*WriteResult, error) {
	ns, key, err := SplitPath(path)
	if err != nil || ns != NamespaceDocuments || key == "" {
		return nil, opErrorf(CodeInvalidPath, "write requires a path under %s/", NamespaceDocuments)
	}
	if !strings.HasSuffix(path, ".md") {
		return nil, opErrorf(CodeInvalidPath, "write requires a .md file, got %q", path)
	}
	if mode == "" {
		mode = ModeOverwrite
	}

	existing, getErr := r.meta.Get(ctx, path)
	if getErr != nil && !errors.Is(getErr, ErrNotFound) {
		return nil, opErrorf(CodeStorage, "reading entry %q: %v", path, getErr)
	}
	active := existing != nil && existing.Status == StatusActive

	final := content
	contentID := uuid.New()
	if active {
		contentID = existing.ContentID
		if mode != ModeOverwrite {
			stored, err := r.content.Get(ctx, existing.ContentID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, opErrorf(CodeStorage, "reading content of %q: %v", path, err)
			}
			switch mode {
			case ModeAppend:
				final = string(stored) + content
			case ModePrepend:
				final = content + string(stored)
			}
		}
	}

	if err := r.content.Put(ctx, contentID, []byte(final)); err != nil {
		return nil, opErrorf(CodeStorage, "storing content of %q: %v", path, err)
	}
	entry := Entry{
		Path:      path,
		Status:    StatusActive,
		Name:      key[strings.LastIndex(key, "/")+1:],
		Type:      TypeDocument,
		Size:      len(final),
		ContentID: contentID,
		UpdatedAt: r.now(),
	}
	if err := r.meta.Put(ctx, entry); err != nil {
		return nil, opErrorf(CodeStorage, "storing entry %q: %v", path, err)
	}

	msg := fmt.Sprintf("Updated %s", path)
	if !active {
		msg = fmt.Sprintf("Created %s", path)
	}
	if r.notify != nil {
		r.notify(path, final)
	}
	return &WriteResult{
		Path:    path,
		Created: !active,
		Size:    len(final),
		Message: msg,
		Content: final,
	}, nil
}

// EditResult reports a successful single-occurrence replacement.
type EditResult struct {
	Path    string `json:"path"`
	Message string `json:"message"`

	// Content is the final stored content, for refreshing a live editor
	// instance holding this path.
	Content string `json:"content"`
}

// lineEndings matches CR and CRLF for normalization before matching.
var lineEndings = regexp.MustCompile(`\r\n?`)

// Edit replaces exactly one occurrence of oldStr with newStr in the
// stored content. Line endings are normalized on the stored content and
// both inputs before matching. Zero occurrences is a not-found error;
// more than one is a conflict naming the count — the single-occurrence
// rule prevents unintended bulk edits.
func (r *Router) Edit(ctx context.Context, path, oldStr, newStr string) (*EditResult, error) {
	ns, _, err := SplitPath(path)
	if err != nil || (ns != NamespaceDocuments && ns != NamespaceApplets) {
		return nil, opErrorf(CodeInvalidPath,
			"edit requires a path under %s/ or %s/", NamespaceDocuments, NamespaceApplets)
	}
	if oldStr == "" {
		return nil, opErrorf(CodeInvalidPath, "old_string must not be empty")
	}

	entry, data, err := r.fetchActiveContent(ctx, path)
	if err != nil {
		return nil, err
	}

	content := lineEndings.ReplaceAllString(string(data), "\n")
	oldN := lineEndings.ReplaceAllString(oldStr, "\n")
	newN := lineEndings.ReplaceAllString(newStr, "\n")

	switch count := strings.Count(content, oldN); {
	case count == 0:
		return nil, opErrorf(CodeNotFound, "old_string not found in %s", path)
	case count > 1:
		return nil, opErrorf(CodeConflict,
			"old_string matches %d times in %s; provide more context to make it unique", count, path)
	}

	final := strings.Replace(content, oldN, newN, 1)
	if err := r.content.Put(ctx, entry.ContentID, []byte(final)); err != nil {
		return nil, opErrorf(CodeStorage, "storing content of %q: %v", path, err)
	}
	entry.Size = len(final)
	entry.UpdatedAt = r.now()
	if err := r.meta.Put(ctx, *entry); err != nil {
		return nil, opErrorf(CodeStorage, "storing entry %q: %v", path, err)
	}

	if r.notify != nil {
		r.notify(path, final)
	}
	return &EditResult{
		Path:    path,
		Message: fmt.Sprintf("Edited %s", path),
		Content: final,
	}, nil
}

// fetchActiveContent resolves an active entry and its stored bytes.
func (r *Router) fetchActiveContent(ctx context.Context, path string) (*Entry, []byte, error) {
	entry, err := r.meta.Get(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, opErrorf(CodeNotFound, "%s does not exist", path)
	}
	if err != nil {
		return nil, nil, opErrorf(CodeStorage, "reading entry %q: %v", path, err)
	}
	if entry.Status != StatusActive {
		return nil, nil, opErrorf(CodeNotFound, "%s has been removed", path)
	}
	data, err := r.content.Get(ctx, entry.ContentID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, opErrorf(CodeNotFound, "%s has no stored content", path)
	}
	if err != nil {
		return nil, nil, opErrorf(CodeStorage, "reading content of %q: %v", path, err)
	}
	return entry, data, nil
}
