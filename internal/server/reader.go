package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/session"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/theme"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleReader runs one reader session over a websocket. The shell sends
// navigation and viewport events; the session pushes state back through a
// write-locked connection.
func (s *Server) handleReader(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sid := uuid.NewString()
	log.Printf("server: session %s connected from %s", sid, r.RemoteAddr)
	defer log.Printf("server: session %s closed", sid)

	var writeMu sync.Mutex
	push := func(v any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(v); err != nil {
			log.Printf("server: session %s write: %v", sid, err)
		}
	}

	scheme, ok := theme.ParseScheme(string(s.cfg.Theme.Default))
	if !ok {
		scheme = theme.Light
	}
	sess := session.New(s.content, session.Options{
		Scheme:          scheme,
		CollapseMargin:  s.cfg.Panel.CollapseMargin,
		ClearanceMargin: s.cfg.Panel.ClearanceMargin,
	}, push)
	defer sess.Close()

	page := r.URL.Query().Get("page")
	if page == "" {
		page = s.cfg.StartPage
	}

	ctx := r.Context()
	sess.Start(ctx, page)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: session %s read: %v", sid, err)
			}
			return
		}
		sess.Handle(ctx, msg)
	}
}
