package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
)

// ErrUnsupported reports a fragment file in a format no parser handles.
var ErrUnsupported = errors.New("unsupported fragment format")

// Parser converts a raw authored fragment into a content tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*content.Tree, error)
}

// parsers maps each authoring format's extension to its parser.
var parsers = map[string]func() Parser{
	".html":     func() Parser { return &HTMLParser{} },
	".htm":      func() Parser { return &HTMLParser{} },
	".md":       func() Parser { return &MarkdownParser{} },
	".markdown": func() Parser { return &MarkdownParser{} },
	".docx":     func() Parser { return &DOCXParser{} },
}

// ForFile returns the parser for a fragment file by its extension.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mk, ok := parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return mk(), nil
}

// IsSupportedExtension reports whether a fragment can be authored in the
// file's format.
func IsSupportedExtension(filename string) bool {
	_, ok := parsers[strings.ToLower(filepath.Ext(filename))]
	return ok
}
