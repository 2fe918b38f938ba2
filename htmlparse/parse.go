package htmlparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// acceptedExtensions is the normative list from spec.md §6.
var acceptedExtensions = []string{"html", "htm", "xhtml", "dhtml"}

// Options configures a parse call. A plain struct, not functional options,
// matching the teacher's preference for exported fields over With...
// chains (see pages.go's Handler).
type Options struct {
	Mode   Mode
	Logger *slog.Logger

	// AllowedExtensions overrides acceptedExtensions for ParseFile, if set.
	AllowedExtensions []string
}

// Parse tokenizes and builds a tree from input according to opts.Mode.
func Parse(input string, opts Options) Result {
	if opts.Mode == Speculative {
		return ParseSpeculative(input, opts.Logger)
	}
	return ParseSynchronous(input, opts.Logger)
}

// ParseFile validates path's extension against the accepted input
// extensions, then reads and parses its contents. A missing or
// unrecognized extension is rejected before the core is invoked, per
// spec.md §6.
func ParseFile(path string, opts Options) (Result, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	allowed := acceptedExtensions
	if opts.AllowedExtensions != nil {
		allowed = opts.AllowedExtensions
	}
	if !extensionAllowed(ext, allowed) {
		return Result{}, &FileExtensionError{Path: path, Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Parse(string(data), opts), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}
