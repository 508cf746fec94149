package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mol3earth/ofx/internal/model"
)

// Parser converts a statement export into a Statement.
type Parser interface {
	Parse(r io.Reader) (*model.Statement, error)
	Format() string
}

// Registry holds named parsers and the file extensions they handle.
type Registry struct {
	parsers    map[string]Parser
	extensions map[string]string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers:    make(map[string]Parser),
		extensions: make(map[string]string),
	}
}

// Register adds a parser for the given file extensions. Panics on duplicate format.
func (r *Registry) Register(p Parser, exts ...string) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	for _, ext := range exts {
		r.extensions[strings.ToLower(ext)] = key
	}
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser registered for path's extension, or nil.
func (r *Registry) ForPath(path string) Parser {
	format, ok := r.extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}
	return r.parsers[format]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&OFXParser{}, ".ofx", ".qfx")
	r.Register(&ChaseParser{}, ".csv")
	return r
}

// ParseFile opens path and parses it with the parser matching its extension.
func (r *Registry) ParseFile(path string) (*model.Statement, error) {
	p := r.ForPath(path)
	if p == nil {
		return nil, fmt.Errorf("no parser for %s", filepath.Base(path))
	}
	return parseWith(p, path)
}

// ParseFileAs parses path with the named parser, ignoring its extension.
func (r *Registry) ParseFileAs(path, format string) (*model.Statement, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown statement format %q", format)
	}
	return parseWith(p, path)
}

func parseWith(p Parser, path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	stmt, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return stmt, nil
}
