package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Renderer renders a template with a substitution context.
type Renderer interface {
	Render(templateID string, ctx Context) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(templateID string, ctx Context) (string, error)

// Render calls f(templateID, ctx).
func (f RendererFunc) Render(templateID string, ctx Context) (string, error) {
	return f(templateID, ctx)
}

// TemplateExt is the file extension of templates in a TemplateDir.
const TemplateExt = ".tmpl"

// TemplateDir renders templates stored as "<id>.tmpl" files in a folder by
// literal, case-sensitive placeholder replacement. Templates are read once
// and cached until Invalidate is called. A TemplateDir is safe for
// concurrent use.
type TemplateDir struct {
	fsys   fs.FS
	root   string
	strict bool

	mu    sync.RWMutex
	cache map[string]string
}

// TemplateOption configures a TemplateDir.
type TemplateOption func(*TemplateDir)

// WithStrict makes Render fail with an UnresolvedError when placeholders
// remain in the rendered text. By default they are passed through.
func WithStrict(strict bool) TemplateOption {
	return func(d *TemplateDir) { d.strict = strict }
}

// WithFS reads templates from fsys instead of the operating system.
func WithFS(fsys fs.FS) TemplateOption {
	return func(d *TemplateDir) { d.fsys = fsys }
}

// NewTemplateDir returns a renderer reading templates from dir.
func NewTemplateDir(dir string, opts ...TemplateOption) *TemplateDir {
	d := &TemplateDir{
		root:  dir,
		cache: make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fsys == nil {
		d.fsys = os.DirFS(dir)
	}
	return d
}

// Dir returns the template folder.
func (d *TemplateDir) Dir() string { return d.root }

// Render loads the template and replaces the placeholders of ctx.
func (d *TemplateDir) Render(templateID string, ctx Context) (string, error) {
	text, err := d.load(templateID)
	if err != nil {
		return "", err
	}
	out := ctx.Expand(text)
	if d.strict {
		if left := Unresolved(out); len(left) > 0 {
			return "", NewUnresolvedError(templateID, left)
		}
	}
	return out, nil
}

// Invalidate drops all cached templates.
func (d *TemplateDir) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.cache)
}

func (d *TemplateDir) load(id string) (string, error) {
	d.mu.RLock()
	text, ok := d.cache[id]
	d.mu.RUnlock()
	if ok {
		return text, nil
	}
	name := id + TemplateExt
	if !fs.ValidPath(name) {
		return "", NewTemplateError(id, name, fmt.Errorf("invalid template id %q", id))
	}
	buf, err := fs.ReadFile(d.fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", NewTemplateError(id, filepath.Join(d.root, name), err)
	case err != nil:
		return "", NewIOError("read template", filepath.Join(d.root, name), err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[id] = string(buf)
	return string(buf), nil
}
