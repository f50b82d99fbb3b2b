package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/config"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/session"
)

type stubContent struct {
	pages map[string]string
	menu  *fetch.Menu
}

func (c *stubContent) Page(ctx context.Context, page string) ([]byte, error) {
	if strings.HasPrefix(page, "/") || strings.Contains(page, "..") {
		return nil, fmt.Errorf("page %q: %w", page, fetch.ErrDenied)
	}
	body, ok := c.pages[page]
	if !ok {
		return nil, &fetch.FetchError{Page: page, Status: http.StatusNotFound}
	}
	return []byte(body), nil
}

func (c *stubContent) Menu(ctx context.Context) (*fetch.Menu, error) {
	if c.menu == nil {
		return nil, errors.New("menu unreachable")
	}
	return c.menu, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubContent) {
	t.Helper()

	content := &stubContent{
		pages: map[string]string{
			"README.md":      "# Welcome\n\nIntro text.\n\n## Start Here\n\nRead on.\n",
			"guide/setup.md": "# Setup\n\n```go\npackage main\n```\n",
		},
		menu: &fetch.Menu{
			Sections: []fetch.Section{
				{
					Name: "Guides",
					Pages: []fetch.MenuPage{
						{Title: "Setup", Page: "guide/setup.md"},
					},
				},
			},
		},
	}

	cfg := config.DefaultConfig()
	cfg.StartPage = "README.md"

	s, err := New(cfg, content)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, content
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body, _ := get(t, srv.URL+"/healthz")
	if code != http.StatusOK {
		t.Errorf("status = %d, want %d", code, http.StatusOK)
	}
	if body != `{"status":"ok"}` {
		t.Errorf("body = %q", body)
	}
}

func TestServeIndex(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body, header := get(t, srv.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}
	if ct := header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(body, "The Almanac of Codecraft") {
		t.Error("index is missing the site title")
	}
	if !strings.Contains(body, `id="chroma-theme"`) {
		t.Error("index is missing the highlight stylesheet link")
	}
	if !strings.Contains(body, `data-theme="light"`) {
		t.Error("index should start in the configured light theme")
	}
}

func TestServeAssets(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body, header := get(t, srv.URL+"/assets/app.css")
	if code != http.StatusOK {
		t.Fatalf("app.css status = %d", code)
	}
	if ct := header.Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Errorf("app.css Content-Type = %q", ct)
	}
	if !strings.Contains(body, ".outline-panel") {
		t.Error("app.css is missing the outline panel styles")
	}

	code, body, _ = get(t, srv.URL+"/assets/app.js")
	if code != http.StatusOK {
		t.Fatalf("app.js status = %d", code)
	}
	if !strings.Contains(body, "/ws/reader") {
		t.Error("app.js does not dial the reader socket")
	}
	// Geometry reports must measure the content column. The scroll
	// container spans the full width, so its right edge would keep the
	// panel collapsed at every viewport size.
	if !strings.Contains(body, "article.getBoundingClientRect()") {
		t.Error("app.js does not measure the content column for resize reports")
	}
	if strings.Contains(body, "reader.getBoundingClientRect()") {
		t.Error("app.js measures the scroll container for resize reports")
	}

	for _, href := range []string{"/assets/chroma-light.css", "/assets/chroma-dark.css"} {
		code, body, _ = get(t, srv.URL+href)
		if code != http.StatusOK {
			t.Fatalf("%s status = %d", href, code)
		}
		if !strings.Contains(body, ".chroma-") {
			t.Errorf("%s is missing highlight classes", href)
		}
	}
}

func TestMenuEndpoint(t *testing.T) {
	srv, content := newTestServer(t)

	code, body, _ := get(t, srv.URL+"/api/menu")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}

	var menu fetch.Menu
	if err := json.Unmarshal([]byte(body), &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(menu.Sections) != 1 || menu.Sections[0].Name != "Guides" {
		t.Errorf("menu = %+v", menu)
	}

	content.menu = nil
	code, _, _ = get(t, srv.URL+"/api/menu")
	if code != http.StatusBadGateway {
		t.Errorf("unreachable menu status = %d, want %d", code, http.StatusBadGateway)
	}
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body, _ := get(t, srv.URL+"/api/state?page=guide/setup.md")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}

	var state session.State
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Page != "guide/setup.md" {
		t.Errorf("Page = %q", state.Page)
	}
	if len(state.Outline) != 1 || state.Outline[0].ID != "1" {
		t.Errorf("Outline = %+v", state.Outline)
	}
	if !strings.Contains(state.HTML, `<h1 id="1">`) {
		t.Errorf("HTML is missing the indexed heading: %q", state.HTML)
	}
	if !strings.Contains(state.HTML, "code-header") {
		t.Error("HTML is missing the code block header bar")
	}
}

func TestStateEndpointDefaultsToStartPage(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body, _ := get(t, srv.URL+"/api/state")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	var state session.State
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Page != "README.md" {
		t.Errorf("Page = %q, want README.md", state.Page)
	}
}

func TestStateEndpointErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	code, _, _ := get(t, srv.URL+"/api/state?page=../secret.md")
	if code != http.StatusBadRequest {
		t.Errorf("denied page status = %d, want %d", code, http.StatusBadRequest)
	}

	code, _, _ = get(t, srv.URL+"/api/state?page=missing.md")
	if code != http.StatusBadGateway {
		t.Errorf("missing page status = %d, want %d", code, http.StatusBadGateway)
	}
}

func dialReader(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reader"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()

	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads pushed messages until one satisfies match, failing the
// test if it never shows up.
func readUntil(t *testing.T, conn *websocket.Conn, what string, match func(map[string]any) bool) map[string]any {
	t.Helper()

	for i := 0; i < 25; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		if match(msg) {
			return msg
		}
	}
	t.Fatalf("never received %s", what)
	return nil
}

func loadedState(page string) func(map[string]any) bool {
	return func(msg map[string]any) bool {
		return msg["type"] == "state" && msg["page"] == page && msg["loading"] == false && msg["html"] != ""
	}
}

func TestReaderSocketLoadsStartPage(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialReader(t, srv)

	state := readUntil(t, conn, "loaded start page", loadedState("README.md"))
	outline, ok := state["outline"].([]any)
	if !ok || len(outline) != 2 {
		t.Fatalf("outline = %v", state["outline"])
	}
	first := outline[0].(map[string]any)
	if first["id"] != "1" || first["title"] != "Welcome" {
		t.Errorf("first entry = %v", first)
	}
}

func TestReaderSocketHonorsPageQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reader?page=guide/setup.md"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	readUntil(t, conn, "loaded deep-linked page", loadedState("guide/setup.md"))
}

func TestReaderSocketNavigateAndTrack(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialReader(t, srv)

	readUntil(t, conn, "loaded start page", loadedState("README.md"))

	sendJSON(t, conn, map[string]any{"type": "navigate", "page": "guide/setup.md"})
	state := readUntil(t, conn, "loaded setup page", loadedState("guide/setup.md"))
	epoch := int(state["epoch"].(float64))

	sendJSON(t, conn, map[string]any{"type": "mounted"})
	sendJSON(t, conn, map[string]any{"type": "intersect", "epoch": epoch, "key": "1", "entering": true})

	active := readUntil(t, conn, "active heading push", func(msg map[string]any) bool {
		return msg["type"] == "active"
	})
	if active["id"] != "1" {
		t.Errorf("active id = %v, want 1", active["id"])
	}

	sendJSON(t, conn, map[string]any{"type": "toggle"})
	collapsed := readUntil(t, conn, "collapsed push", func(msg map[string]any) bool {
		return msg["type"] == "collapsed"
	})
	if collapsed["collapsed"] != true {
		t.Errorf("collapsed = %v, want true", collapsed["collapsed"])
	}
}

func TestReaderSocketThemeSwap(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialReader(t, srv)

	readUntil(t, conn, "loaded start page", loadedState("README.md"))

	sendJSON(t, conn, map[string]any{"type": "theme", "scheme": "dark"})
	sheet := readUntil(t, conn, "stylesheet push", func(msg map[string]any) bool {
		return msg["type"] == "stylesheet"
	})
	if sheet["href"] != "/assets/chroma-dark.css" {
		t.Errorf("href = %v", sheet["href"])
	}
}

func TestReaderSocketRejectsBadPage(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialReader(t, srv)

	readUntil(t, conn, "loaded start page", loadedState("README.md"))

	sendJSON(t, conn, map[string]any{"type": "navigate", "page": "missing.md"})
	state := readUntil(t, conn, "failed load state", func(msg map[string]any) bool {
		return msg["type"] == "state" && msg["page"] == "missing.md" && msg["loading"] == false
	})
	errText, _ := state["err"].(string)
	if errText == "" {
		t.Error("failed load should surface an error message")
	}
}
