package vfs

import (
	"errors"
	"testing"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantNS  string
		wantKey string
		wantErr bool
	}{
		{name: "document", path: "/Documents/notes.md", wantNS: NamespaceDocuments, wantKey: "notes.md"},
		{name: "nested document", path: "/Documents/work/notes.md", wantNS: NamespaceDocuments, wantKey: "work/notes.md"},
		{name: "applet", path: "/Applets/timer.html", wantNS: NamespaceApplets, wantKey: "timer.html"},
		{name: "store entry", path: "/Applets Store/abc123", wantNS: NamespaceAppletStore, wantKey: "abc123"},
		{name: "bare store namespace", path: "/Applets Store", wantNS: NamespaceAppletStore, wantKey: ""},
		{name: "bare music namespace", path: "/Music", wantNS: NamespaceMusic, wantKey: ""},
		{name: "trailing slash", path: "/Music/", wantNS: NamespaceMusic, wantKey: ""},
		{name: "application", path: "/Applications/ipod", wantNS: NamespaceApplications, wantKey: "ipod"},
		{name: "relative", path: "Documents/x.md", wantErr: true},
		{name: "unknown namespace", path: "/Downloads/x.md", wantErr: true},
		{name: "empty", path: "", wantErr: true},
		{name: "double slash in key", path: "/Documents//x.md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, key, err := SplitPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitPath(%q) error = nil, want error", tt.path)
				}
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("SplitPath(%q) error = %v, want ErrInvalidPath", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitPath(%q) error = %v", tt.path, err)
			}
			if ns != tt.wantNS || key != tt.wantKey {
				t.Errorf("SplitPath(%q) = (%q, %q), want (%q, %q)",
					tt.path, ns, key, tt.wantNS, tt.wantKey)
			}
		})
	}
}

// The "/Applets Store" namespace shares a prefix with "/Applets"; ordering
// in Namespaces must keep them apart.
func TestSplitPath_StorePrefixDisambiguation(t *testing.T) {
	ns, key, err := SplitPath("/Applets Store/xyz")
	if err != nil {
		t.Fatalf("SplitPath error = %v", err)
	}
	if ns != NamespaceAppletStore {
		t.Errorf("namespace = %q, want %q", ns, NamespaceAppletStore)
	}
	if key != "xyz" {
		t.Errorf("key = %q, want xyz", key)
	}
}

func TestJoin(t *testing.T) {
	if got := Join(NamespaceDocuments, "notes.md"); got != "/Documents/notes.md" {
		t.Errorf("Join = %q, want /Documents/notes.md", got)
	}
	if got := Join(NamespaceMusic, ""); got != NamespaceMusic {
		t.Errorf("Join with empty key = %q, want %q", got, NamespaceMusic)
	}
}

func TestOpError(t *testing.T) {
	err := opErrorf(CodeNotFound, "missing %s", "/Documents/x.md")
	if err.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", err.Code, CodeNotFound)
	}
	if got, want := err.Error(), "not_found: missing /Documents/x.md"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var opErr *OpError
	if !errors.As(error(err), &opErr) {
		t.Error("errors.As failed to unwrap OpError")
	}
}
