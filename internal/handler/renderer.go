package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
)

// Template source layout:
//
//	layouts/public.html   defines "public", the page shell
//	components/*.html     shared blocks (buttons, cards, sections)
//	partials/*.html       fragments returned to htmx, one define per file
//	pages/public/*.html   pages executed inside "public"
const (
	layoutFile      = "layouts/public.html"
	componentsGlob  = "components/*.html"
	partialsGlob    = "partials/*.html"
	publicPagesGlob = "pages/public/*.html"

	partialPrefix = "partial/"
	publicPrefix  = "public/"
)

// Renderer holds one isolated template set per page and per partial, so a
// page's "content" block never leaks into another page.
type Renderer struct {
	fsys   fs.FS
	reload bool
	logger *slog.Logger

	mu   sync.RWMutex
	sets map[string]*template.Template
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// TemplatesDir, when set, reads templates from disk and reloads them on
	// every render in dev mode. Otherwise FS is used.
	TemplatesDir string
	FS           fs.FS
	Logger       *slog.Logger
	IsDev        bool
}

// NewRenderer parses every template set up front and fails on the first
// parse error.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{fsys: cfg.FS, logger: cfg.Logger}
	if cfg.TemplatesDir != "" {
		r.fsys = os.DirFS(cfg.TemplatesDir)
		r.reload = cfg.IsDev
	}
	if r.fsys == nil {
		return nil, fmt.Errorf("renderer: no templates source configured")
	}

	sets, err := parseSets(r.fsys)
	if err != nil {
		return nil, err
	}
	r.sets = sets
	r.logger.Debug("templates loaded", "count", len(sets))

	return r, nil
}

// NewRendererFromFS creates a renderer from an embedded filesystem.
func NewRendererFromFS(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	return NewRenderer(RendererConfig{FS: fsys, Logger: logger})
}

func parseSets(fsys fs.FS) (map[string]*template.Template, error) {
	components, err := fs.Glob(fsys, componentsGlob)
	if err != nil {
		return nil, fmt.Errorf("glob components: %w", err)
	}
	partials, err := fs.Glob(fsys, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	pages, err := fs.Glob(fsys, publicPagesGlob)
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	sets := make(map[string]*template.Template, len(partials)+len(pages))

	for _, p := range partials {
		files := append([]string{p}, components...)
		t, err := template.New("").Funcs(TemplateFuncs()).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse partial %s: %w", p, err)
		}
		sets[partialPrefix+baseName(p)] = t
	}

	// Pages may embed partials, so the shell carries all of them.
	shellFiles := append([]string{layoutFile}, components...)
	shellFiles = append(shellFiles, partials...)
	shell, err := template.New("public").Funcs(TemplateFuncs()).ParseFS(fsys, shellFiles...)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	for _, p := range pages {
		t, err := shell.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", p, err)
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", p, err)
		}
		sets[publicPrefix+baseName(p)] = t
	}

	return sets, nil
}

func baseName(p string) string {
	name := path.Base(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

func (r *Renderer) set(key string) (*template.Template, error) {
	if r.reload {
		sets, err := parseSets(r.fsys)
		if err != nil {
			return nil, fmt.Errorf("reload templates: %w", err)
		}
		r.mu.Lock()
		r.sets = sets
		r.mu.Unlock()
	}

	r.mu.RLock()
	t, ok := r.sets[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("template %q not found", key)
	}
	return t, nil
}

// write executes into a buffer so a failing template never sends a
// half-written page with a 200.
func (r *Renderer) write(w http.ResponseWriter, status int, key string, data any) {
	t, err := r.set(key)
	if err != nil {
		r.logger.Error("template lookup failed", "template", key, "error", err)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, r.getBaseTemplateName(key), data); err != nil {
		r.logger.Error("template execution failed", "template", key, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderHTTP renders a full page, e.g. "public/home".
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	r.write(w, http.StatusOK, name, data)
}

// RenderPartial renders a partial by file name, e.g. "order_ack".
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) {
	r.write(w, http.StatusOK, partialPrefix+name, data)
}

// getBaseTemplateName maps a set key to the template executed in it.
func (r *Renderer) getBaseTemplateName(name string) string {
	switch {
	case strings.HasPrefix(name, publicPrefix):
		return "public"
	case strings.HasPrefix(name, partialPrefix):
		return strings.TrimPrefix(name, partialPrefix)
	default:
		return name
	}
}

// ListTemplates returns the loaded set keys.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	return names
}
