// Package render turns bound API records into terminal text.
//
// Templates are looked up by set, group and name, first in the user's data
// directories and then in the set compiled into the binary:
//
//	$XDG_DATA_HOME/hubugs/templates/<set>/<group>/<name>
//	$XDG_DATA_DIRS[i]/hubugs/templates/<set>/<group>/<name>
//	templates/<set>/<group>/<name> (embedded)
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/danielolaszy/hubugs/internal/logging"
)

// DefaultSet is the template set shipped with hubugs.
const DefaultSet = "default"

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

//go:embed templates
var builtin embed.FS

// Options configures a Renderer.
type Options struct {
	// Set selects the template set; empty means DefaultSet.
	Set string
	// Dirs are searched for user templates before the embedded set; nil
	// means DataDirs().
	Dirs []string
	// Width is the output width in columns; zero means DefaultWidth.
	Width int
	// Color enables ANSI colour in filters.
	Color bool
	// CommentChar marks lines dropped from editor text; empty means "#".
	CommentChar string
	// Now is the clock used by relative_time.
	Now func() time.Time
}

// Renderer renders the view and edit templates.
type Renderer struct {
	set         string
	dirs        []string
	width       int
	color       bool
	commentChar string
	now         func() time.Time
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		set:         opts.Set,
		dirs:        opts.Dirs,
		width:       opts.Width,
		color:       opts.Color,
		commentChar: opts.CommentChar,
		now:         opts.Now,
	}
	if r.set == "" {
		r.set = DefaultSet
	}
	if r.dirs == nil {
		r.dirs = DataDirs()
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.commentChar == "" {
		r.commentChar = "#"
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Width returns the output width in columns.
func (r *Renderer) Width() int {
	return r.width
}

// DataDirs returns the user template directories in search order.
func DataDirs() []string {
	var dirs []string

	home := os.Getenv("XDG_DATA_HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(h, ".local", "share")
		}
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, "hubugs", "templates"))
	}

	system := os.Getenv("XDG_DATA_DIRS")
	if system == "" {
		system = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(system) {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "hubugs", "templates"))
		}
	}
	return dirs
}

// TerminalWidth returns the width of f, or DefaultWidth when f is not a
// terminal.
func TerminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// ColorEnabled reports whether coloured output should be written to f.
func ColorEnabled(f *os.File) bool {
	return !color.NoColor && term.IsTerminal(int(f.Fd()))
}

// Template loads group/name from the configured set.
func (r *Renderer) Template(group, name string) (*template.Template, error) {
	rel := path.Join(r.set, group, name)

	for _, dir := range r.dirs {
		file := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(file)
		if err == nil {
			logging.Debug("using user template", "file", file)
			return r.parse(rel, data)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read template %s: %w", file, err)
		}
	}

	data, err := fs.ReadFile(builtin, path.Join("templates", rel))
	if errors.Is(err, fs.ErrNotExist) && r.set != DefaultSet {
		data, err = fs.ReadFile(builtin, path.Join("templates", DefaultSet, group, name))
	}
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", rel, err)
	}
	return r.parse(rel, data)
}

func (r *Renderer) parse(name string, data []byte) (*template.Template, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(r.funcs()).
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// Render executes group/name with data.
func (r *Renderer) Render(group, name string, data any) (string, error) {
	tmpl, err := r.Template(group, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
