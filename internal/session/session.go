// Package session drives one reader connection. A session owns the full
// pipeline for its page: fetch, outline build, render, enhance, and the
// trackers for active heading, panel collapse, and theme. Every document
// load gets a monotonic epoch; a load that finishes after a newer one
// started is discarded instead of applied, so responses may arrive in any
// order.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/enhance"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/layout"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/render"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/theme"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/tracker"
)

// Fetcher retrieves raw markdown for a page path.
type Fetcher interface {
	Page(ctx context.Context, page string) ([]byte, error)
}

// Options seed a fresh session from the server configuration.
type Options struct {
	Scheme          theme.Scheme
	CollapseMargin  float64
	ClearanceMargin float64
}

// Session holds the reader state behind one websocket. Methods are safe for
// concurrent use; pushes to the shell happen in call order.
type Session struct {
	fetcher  Fetcher
	renderer *render.Renderer
	enhancer *enhance.Enhancer

	mu       sync.Mutex
	track    *tracker.Tracker
	panel    *layout.Controller
	scheme   *theme.Synchronizer
	push     func(v any)
	epoch    uint64
	page     string
	loading  bool
	err      string
	headings []outline.Heading
	html     string
}

// New builds a session. push delivers server-to-shell messages; it is
// called with the session lock held and must not call back in.
func New(fetcher Fetcher, opts Options, push func(v any)) *Session {
	scheme := theme.New()
	if opts.Scheme != "" {
		scheme.Set(opts.Scheme)
	}
	return &Session{
		fetcher:  fetcher,
		renderer: render.New(),
		enhancer: enhance.New(),
		track:    tracker.New(),
		panel:    layout.NewController(opts.CollapseMargin, opts.ClearanceMargin),
		scheme:   scheme,
		push:     push,
	}
}

// Start pushes the initial snapshot and kicks off the start page load.
func (s *Session) Start(ctx context.Context, startPage string) {
	s.mu.Lock()
	s.push(newStateMsg(s.snapshotLocked()))
	s.mu.Unlock()
	if startPage != "" {
		s.Load(ctx, startPage)
	}
}

// Handle dispatches one raw websocket message from the shell.
func (s *Session) Handle(ctx context.Context, data []byte) {
	var req ClientMsg
	if err := json.Unmarshal(data, &req); err != nil {
		s.mu.Lock()
		s.push(newErrorMsg("invalid message format"))
		s.mu.Unlock()
		return
	}

	switch req.Type {
	case "navigate":
		if req.Page == "" {
			s.mu.Lock()
			s.push(newErrorMsg("page is required"))
			s.mu.Unlock()
			return
		}
		s.Load(ctx, req.Page)
	case "mounted":
		s.Mounted()
	case "intersect":
		s.Observe(req.Epoch, req.Key, req.Entering)
	case "resize":
		s.Resize(req.ContentRight, req.PanelLeft)
	case "theme":
		s.SetScheme(req.Scheme)
	case "toggle":
		s.Toggle()
	case "scrollTo":
		s.ScrollTo(req.ID)
	case "nosupport":
		log.Printf("session: shell lacks %s, tracking disabled", req.Capability)
		s.Nosupport()
	default:
		s.mu.Lock()
		s.push(newErrorMsg("unknown message type: " + req.Type))
		s.mu.Unlock()
	}
}

// Load begins fetching a page. It supersedes any in-flight load: the epoch
// is bumped first, so an older fetch that lands later is dropped. Prior
// outline and render state is discarded immediately.
func (s *Session) Load(ctx context.Context, page string) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.page = page
	s.loading = true
	s.err = ""
	s.headings = nil
	s.html = ""
	s.track.Teardown()
	s.push(newStateMsg(s.snapshotLocked()))
	s.mu.Unlock()

	go s.load(ctx, epoch, page)
}

func (s *Session) load(ctx context.Context, epoch uint64, page string) {
	body, err := s.fetcher.Page(ctx, page)
	if err != nil {
		s.applyError(epoch, page, err)
		return
	}

	headings, html, err := buildDocument(s.renderer, s.enhancer, body)
	if err != nil {
		s.applyError(epoch, page, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	s.loading = false
	s.headings = headings
	s.html = html
	s.push(newStateMsg(s.snapshotLocked()))
}

func (s *Session) applyError(epoch uint64, page string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	log.Printf("session: load %s: %v", page, err)
	s.loading = false
	s.err = err.Error()
	s.push(newStateMsg(s.snapshotLocked()))
}

// Mounted is the shell's signal that the rendered fragment is in the live
// document, which is when observing its headings starts making sense.
func (s *Session) Mounted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || s.html == "" {
		return
	}
	s.track.Reset(s.epoch)
}

// Observe ingests an intersection transition forwarded by the shell.
func (s *Session) Observe(epoch uint64, id string, entering bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, changed := s.track.Observe(epoch, id, entering)
	if !changed {
		return
	}
	outline.MarkActive(s.headings, active)
	s.push(newActiveMsg(active))
}

// Resize recomputes the collapse decision for new viewport geometry.
func (s *Session) Resize(contentRight, panelLeft float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.panel.Collapsed()
	after := s.panel.Recompute(contentRight, panelLeft)
	if after != before {
		s.push(newCollapsedMsg(after))
	}
}

// Toggle flips the panel by hand and always answers with the new state.
func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push(newCollapsedMsg(s.panel.Toggle()))
}

// SetScheme applies a reported color preference. On a change the shell gets
// the new stylesheet href, and the rendered fragment is re-enhanced so its
// highlight markup matches; the fragment is only re-pushed if it differs.
func (s *Session) SetScheme(name string) {
	scheme, ok := theme.ParseScheme(name)
	if !ok {
		s.mu.Lock()
		s.push(newErrorMsg("unknown scheme " + name))
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scheme.Set(scheme) {
		return
	}
	s.push(newStylesheetMsg(s.scheme.Stylesheet()))

	if s.html == "" {
		return
	}
	html, err := s.enhancer.Apply(s.html)
	if err != nil {
		log.Printf("session: re-enhance: %v", err)
		return
	}
	if html != s.html {
		s.html = html
		s.push(newHTMLMsg(html))
	}
}

// ScrollTo answers a menu click with a scroll command, if the heading
// exists in the current document.
func (s *Session) ScrollTo(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outline.Find(s.headings, id) == nil {
		return
	}
	s.push(newScrollMsg(id))
}

// Nosupport degrades the tracker for shells without intersection
// observation. No heading will ever be marked active.
func (s *Session) Nosupport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track.Disable()
}

// Close tears down observation state when the connection goes away.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track.Teardown()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	headings := make([]outline.Heading, len(s.headings))
	copy(headings, s.headings)
	return State{
		Epoch:      s.epoch,
		Page:       s.page,
		Loading:    s.loading,
		Err:        s.err,
		Outline:    headings,
		HTML:       s.html,
		Active:     s.track.Active(),
		Collapsed:  s.panel.Collapsed(),
		Theme:      string(s.scheme.Scheme()),
		Stylesheet: s.scheme.Stylesheet(),
	}
}
