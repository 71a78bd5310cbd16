// Package vfs implements the virtual file system the assistant's tools
// operate against.
//
// Paths are namespaced: the first segment selects one of five namespaces
// and the remaining segments form the item key within it. The metadata and
// content stores are split on purpose (entries carry a content UUID, bytes
// live elsewhere), mirroring the client shell's storage layout.
package vfs

import (
	"errors"
	"fmt"
	"strings"
)

// VFS namespaces. The first path segment must match one of these exactly.
const (
	NamespaceApplets      = "/Applets"
	NamespaceDocuments    = "/Documents"
	NamespaceApplications = "/Applications"
	NamespaceMusic        = "/Music"
	NamespaceAppletStore  = "/Applets Store"
)

// Namespaces lists every valid namespace. Longer names first so that
// prefix resolution never confuses "/Applets Store" with "/Applets".
var Namespaces = []string{
	NamespaceAppletStore,
	NamespaceApplications,
	NamespaceApplets,
	NamespaceDocuments,
	NamespaceMusic,
}

// Sentinel errors shared by the stores and the router.
var (
	// ErrNotFound indicates the entry or content does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPath indicates the path does not match the namespace grammar.
	ErrInvalidPath = errors.New("invalid path")
)

// OpError is a structured, model-facing operation failure. It is always
// recovered into a tool result; it never aborts the response stream.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e == nil {
		return "<nil OpError>"
	}
	return e.Code + ": " + e.Message
}

// opErrorf builds an OpError with a formatted message.
func opErrorf(code, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error codes used by the router.
const (
	CodeInvalidPath = "invalid_path"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeStorage     = "storage_error"
	CodeUpstream    = "upstream_error"
)

// SplitPath splits an absolute VFS path into its namespace and item key.
// The key is empty for a bare namespace path. Grammar: exactly one leading
// namespace segment; everything after it, slash-joined, is the key.
func SplitPath(path string) (namespace, key string, err error) {
	if !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, path)
	}
	cleaned := strings.TrimRight(path, "/")
	for _, ns := range Namespaces {
		if cleaned == ns {
			return ns, "", nil
		}
		if strings.HasPrefix(cleaned, ns+"/") {
			key = strings.TrimPrefix(cleaned, ns+"/")
			if key == "" || strings.Contains(key, "//") {
				return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
			}
			return ns, key, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q has no known namespace", ErrInvalidPath, path)
}

// Join builds an absolute VFS path from a namespace and key.
func Join(namespace, key string) string {
	if key == "" {
		return namespace
	}
	return namespace + "/" + key
}
