package fragment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/dgallion1/navgest/internal/parser"
)

// dirExtensions are tried in order for each fragment path.
var dirExtensions = []string{".plain.html", ".html", ".md", ".docx"}

// DirSource reads fragments authored as files under a directory:
// {dir}{path}.html, .md or .docx.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Fetch(ctx context.Context, p string) (*content.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read fragment %s: %w: %w", p, ErrUnavailable, err)
	}
	// Clean as an absolute path so ".." cannot leave the directory.
	rel := filepath.FromSlash(path.Clean("/" + p))

	for _, ext := range dirExtensions {
		name := filepath.Join(s.dir, rel+ext)
		f, err := os.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open fragment %s: %w: %w", name, ErrUnavailable, err)
		}
		tree, err := parseFile(f, name)
		f.Close()
		if err != nil {
			return nil, err
		}
		return tree, nil
	}
	return nil, fmt.Errorf("read fragment %s: not found in %s: %w", p, s.dir, ErrUnavailable)
}

func parseFile(f *os.File, name string) (*content.Tree, error) {
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, fmt.Errorf("parse fragment %s: %w: %w", name, ErrUnavailable, err)
	}
	tree, err := p.Parse(f, filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("parse fragment %s: %w: %w", name, ErrUnavailable, err)
	}
	if !usable(tree) {
		return nil, fmt.Errorf("parse fragment %s: no content: %w", name, ErrUnavailable)
	}
	return tree, nil
}
