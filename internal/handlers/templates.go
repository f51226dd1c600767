package handlers

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	g "maragu.dev/gomponents"
)

// layoutFile wraps every page. Pages define "title" and "content".
const layoutFile = "layout.html"

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"component": renderComponent,
		},
	}
}

// AddFunc registers a template function. It only affects templates parsed
// by a later Load.
func (tc *TemplateCache) AddFunc(name string, fn any) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page in dir of fsys together with the shared layout.
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return errors.Wrap(err, "glob templates")
	}
	layout := path.Join(dir, layoutFile)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layout, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return errors.Wrapf(err, "parse %s", name)
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// Render executes the layout for page into a buffer so a template error
// can still produce a clean 500.
func (tc *TemplateCache) Render(w http.ResponseWriter, status int, page string, data map[string]any) {
	tmpl := tc.Get(page)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		slog.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Client went away while writing page", "page", page, "error", err)
	}
}

// renderComponent turns a gomponents node into trusted HTML for a template.
// Nodes escape their own text and attributes.
func renderComponent(n g.Node) (template.HTML, error) {
	if n == nil {
		return "", nil
	}
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return "", errors.Wrap(err, "render component")
	}
	return template.HTML(b.String()), nil
}

// writeNode writes a component as a standalone HTML fragment.
func writeNode(w http.ResponseWriter, n g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := n.Render(w); err != nil {
		slog.Error("Failed to render fragment", "error", err)
	}
}
