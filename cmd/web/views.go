package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rusbers/iannabeauty/internal/platform/requestctx"
)

// views owns the parsed templates. In dev mode templates are reparsed on each render.
type views struct {
	dir     string
	devMode bool
	cache   *template.Template
}

func newViews(dir string, devMode bool) (*views, error) {
	v := &views{dir: dir, devMode: devMode}
	if devMode {
		// Fail fast on syntax errors even when reparsing later.
		if _, err := parseTemplates(dir); err != nil {
			return nil, err
		}
		return v, nil
	}
	tc, err := parseTemplates(dir)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	v.cache = tc
	return v, nil
}

func parseTemplates(dir string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	// ParseGlob doesn't support **, so walk the tree.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

// render executes the base layout into a buffer first so template errors never leave a
// half-written page behind.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, data any) {
	t := v.cache
	if v.devMode {
		tc, err := parseTemplates(v.dir)
		if err != nil {
			v.fail(w, r, "template parse error", err)
			return
		}
		t = tc
	}
	if t == nil {
		v.fail(w, r, "template not initialized", nil)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		v.fail(w, r, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (v *views) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	requestctx.Logger(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}
