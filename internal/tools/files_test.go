package tools

import (
	"testing"

	"github.com/syamace/syaos/internal/vfs"
)

func TestList(t *testing.T) {
	kit, router, _ := newTestKit(t)

	t.Run("unknown namespace fails validation before the router", func(t *testing.T) {
		res, err := kit.List(toolCtx(), ListInput{Path: "/Downloads"})
		if err != nil {
			t.Fatal(err)
		}
		wantValidationError(t, res, "path")
		if router.lastPath != "" {
			t.Error("router called despite validation failure")
		}
	})

	t.Run("limit out of range", func(t *testing.T) {
		res, _ := kit.List(toolCtx(), ListInput{Path: "/Applets Store", Limit: 51})
		wantValidationError(t, res, "limit")
	})

	t.Run("forwards query and limit", func(t *testing.T) {
		router.listItems = []vfs.ListItem{{Path: "/Applets Store/x", Title: "X"}}
		res, err := kit.List(toolCtx(), ListInput{Path: "/Applets Store", Query: "timer", Limit: 5})
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
		if router.lastQuery != "timer" || router.lastLimit != 5 {
			t.Errorf("router got query=%q limit=%d", router.lastQuery, router.lastLimit)
		}
		items, ok := res.Data["items"].([]vfs.ListItem)
		if !ok || len(items) != 1 {
			t.Errorf("items = %v", res.Data["items"])
		}
	})
}

func TestOpen(t *testing.T) {
	kit, router, _ := newTestKit(t)

	t.Run("missing path", func(t *testing.T) {
		res, _ := kit.Open(toolCtx(), OpenInput{})
		wantValidationError(t, res, "path")
	})

	t.Run("router failure becomes a structured result", func(t *testing.T) {
		router.err = &vfs.OpError{Code: vfs.CodeNotFound, Message: "/Music/x does not exist"}
		defer func() { router.err = nil }()

		res, err := kit.Open(toolCtx(), OpenInput{Path: "/Music/x"})
		if err != nil {
			t.Fatalf("router failure leaked as a Go error: %v", err)
		}
		if res.Status != StatusError || res.Error.Code != ErrCodeNotFound {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("success carries the open directive", func(t *testing.T) {
		router.openRes = &vfs.OpenResult{Action: "playTrack", Message: "Now playing"}
		res, err := kit.Open(toolCtx(), OpenInput{Path: "/Music/track-1"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Message != "Now playing" {
			t.Errorf("message = %q", res.Message)
		}
		if res.Data["open"] != router.openRes {
			t.Errorf("data = %v", res.Data)
		}
	})
}

func TestRead(t *testing.T) {
	kit, router, _ := newTestKit(t)

	router.readRes = &vfs.ReadResult{Path: "/Documents/n.md", Content: "hello", Chars: 5}
	res, err := kit.Read(toolCtx(), ReadInput{Path: "/Documents/n.md"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess || res.Data["read"] != router.readRes {
		t.Errorf("result = %+v", res)
	}

	res, _ = kit.Read(toolCtx(), ReadInput{})
	wantValidationError(t, res, "path")
}

func TestWrite(t *testing.T) {
	kit, router, _ := newTestKit(t)

	tests := []struct {
		name      string
		input     WriteInput
		wantField string
	}{
		{name: "outside documents", input: WriteInput{Path: "/Applets/x.md", Content: "x"}, wantField: "path"},
		{name: "not markdown", input: WriteInput{Path: "/Documents/x.txt", Content: "x"}, wantField: "path"},
		{name: "overwrite without content", input: WriteInput{Path: "/Documents/x.md"}, wantField: "content"},
		{name: "unknown mode", input: WriteInput{Path: "/Documents/x.md", Content: "x", Mode: "merge"}, wantField: "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := kit.Write(toolCtx(), tt.input)
			wantValidationError(t, res, tt.wantField)
		})
	}

	t.Run("append without content is allowed", func(t *testing.T) {
		router.writeRes = &vfs.WriteResult{Path: "/Documents/x.md", Message: "Updated /Documents/x.md"}
		res, err := kit.Write(toolCtx(), WriteInput{Path: "/Documents/x.md", Mode: vfs.ModeAppend})
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
		if router.lastMode != vfs.ModeAppend {
			t.Errorf("mode = %q", router.lastMode)
		}
	})
}

func TestEdit(t *testing.T) {
	kit, router, _ := newTestKit(t)

	tests := []struct {
		name      string
		input     EditInput
		wantField string
	}{
		{name: "missing path", input: EditInput{OldString: "a", NewString: "b"}, wantField: "path"},
		{name: "missing old", input: EditInput{Path: "/Documents/x.md", NewString: "b"}, wantField: "old_string"},
		{name: "missing new", input: EditInput{Path: "/Documents/x.md", OldString: "a"}, wantField: "new_string"},
		{name: "uneditable namespace", input: EditInput{Path: "/Music/t", OldString: "a", NewString: "b"}, wantField: "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := kit.Edit(toolCtx(), tt.input)
			wantValidationError(t, res, tt.wantField)
		})
	}

	t.Run("conflict from the router is surfaced", func(t *testing.T) {
		router.err = &vfs.OpError{Code: vfs.CodeConflict, Message: "old_string matches 2 times"}
		defer func() { router.err = nil }()

		res, err := kit.Edit(toolCtx(), EditInput{
			Path: "/Documents/x.md", OldString: "a", NewString: "b"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Error == nil || res.Error.Code != ErrCodeConflict {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("applets are editable", func(t *testing.T) {
		router.editRes = &vfs.EditResult{Path: "/Applets/timer.html", Message: "Edited /Applets/timer.html"}
		res, err := kit.Edit(toolCtx(), EditInput{
			Path: "/Applets/timer.html", OldString: "a", NewString: "b"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != StatusSuccess {
			t.Fatalf("status = %q: %s", res.Status, res.Message)
		}
	})
}
