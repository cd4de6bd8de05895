package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/navgest/internal/dom"
	"github.com/dgallion1/navgest/internal/fragment"
	"github.com/dgallion1/navgest/internal/header"
	"github.com/dgallion1/navgest/internal/interact"
	"golang.org/x/net/html"
)

// maxScriptBytes caps a simulate request body.
const maxScriptBytes = 1 << 20

var errUnavailable = errors.New("navigation fragment unavailable")

// mounted is a navigation mounted on a throwaway page for one request.
type mounted struct {
	c     *interact.Controller
	host  *html.Node
	clock *interact.ManualClock
}

func (m *mounted) html() string {
	return dom.RenderChildren(m.host)
}

// mount builds a page at width whose nav metadata points at pathParam and
// mounts the navigation from src. Timers run on a manual clock so nothing
// outlives the request. Callers must Dispose the controller.
func (s *Server) mount(ctx context.Context, src fragment.Source, pathParam string, width int) (*mounted, error) {
	doc, host := header.NewPage(width, pathParam)
	clock := interact.NewManualClock()
	c := header.Decorate(ctx, doc, host, header.Options{
		Source: src,
		Path:   s.cfg.NavPath,
		Policy: s.cfg.Policy,
		Interact: interact.Options{
			Breakpoints: s.cfg.Breakpoints,
			Timings:     s.cfg.Timings,
			Clock:       clock,
			Logger:      s.log,
		},
		Logger: s.log,
	})
	if c == nil {
		return nil, errUnavailable
	}
	return &mounted{c: c, host: host, clock: clock}, nil
}

// width reads the width query parameter, defaulting to the desktop breakpoint.
func (s *Server) width(r *http.Request) (int, error) {
	v := r.URL.Query().Get("width")
	if v == "" {
		return s.cfg.Breakpoints.Desktop, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("width must be a positive integer, got %q", v)
	}
	return n, nil
}

// handleNavHTML renders the decorated navigation for a viewport width.
func (s *Server) handleNavHTML(w http.ResponseWriter, r *http.Request) {
	width, err := s.width(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := s.mount(r.Context(), s.src, r.URL.Query().Get("path"), width)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	defer m.c.Dispose()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(m.html()))
}

// handleNavJSON returns the classified navigation tree.
func (s *Server) handleNavJSON(w http.ResponseWriter, r *http.Request) {
	m, err := s.mount(r.Context(), s.src, r.URL.Query().Get("path"), s.cfg.Breakpoints.Desktop)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	defer m.c.Dispose()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.c.Tree())
}

// handleSimulate replays an event script against a freshly mounted
// navigation and returns the resulting state and markup.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	width, err := s.width(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	script, err := interact.ParseScript(http.MaxBytesReader(w, r.Body, maxScriptBytes))
	if err != nil {
		jsonError(w, "invalid script: "+err.Error(), http.StatusBadRequest)
		return
	}

	m, err := s.mount(r.Context(), s.src, r.URL.Query().Get("path"), width)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	defer m.c.Dispose()

	if err := script.Run(m.c, m.clock); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"instance": m.c.ID(),
		"state":    m.c.State(),
		"html":     m.html(),
	})
}

// handleInvalidate drops a cached fragment so the next request refetches it.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.src.(Invalidator)
	if !ok {
		jsonError(w, "fragment source is not cached", http.StatusNotImplemented)
		return
	}
	path := fragment.ResolvePath(r.URL.Query().Get("path"), s.cfg.NavPath)
	inv.Invalidate(path)
	s.log.Info("fragment cache invalidated", "path", path)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"invalidated": path})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
