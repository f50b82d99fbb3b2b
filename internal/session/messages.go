package session

import "github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"

// State is the full session snapshot. It is pushed to the shell whenever a
// load settles and served verbatim at /api/state.
type State struct {
	Epoch      uint64            `json:"epoch"`
	Page       string            `json:"page"`
	Loading    bool              `json:"loading"`
	Err        string            `json:"err"`
	Outline    []outline.Heading `json:"outline"`
	HTML       string            `json:"html"`
	Active     string            `json:"active"`
	Collapsed  bool              `json:"collapsed"`
	Theme      string            `json:"theme"`
	Stylesheet string            `json:"stylesheet"`
}

// ClientMsg is the incoming websocket message format. Type discriminates;
// the other fields are set per type. Intersection events echo the Epoch
// from the state push they observed under, so stale observers can be told
// apart from live ones.
type ClientMsg struct {
	Type         string  `json:"type"`
	Page         string  `json:"page,omitempty"`
	Epoch        uint64  `json:"epoch,omitempty"`
	Key          string  `json:"key,omitempty"`
	Entering     bool    `json:"entering,omitempty"`
	ContentRight float64 `json:"content_right,omitempty"`
	PanelLeft    float64 `json:"panel_left,omitempty"`
	Scheme       string  `json:"scheme,omitempty"`
	ID           string  `json:"id,omitempty"`
	Capability   string  `json:"capability,omitempty"`
}

// Messages pushed to the shell. Type discriminates on the wire.

type StateMsg struct {
	Type string `json:"type"`
	State
}

type ActiveMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type CollapsedMsg struct {
	Type      string `json:"type"`
	Collapsed bool   `json:"collapsed"`
}

type StylesheetMsg struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

type HTMLMsg struct {
	Type string `json:"type"`
	HTML string `json:"html"`
}

type ScrollMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newStateMsg(s State) StateMsg { return StateMsg{Type: "state", State: s} }

func newActiveMsg(id string) ActiveMsg { return ActiveMsg{Type: "active", ID: id} }

func newCollapsedMsg(c bool) CollapsedMsg {
	return CollapsedMsg{Type: "collapsed", Collapsed: c}
}

func newStylesheetMsg(href string) StylesheetMsg {
	return StylesheetMsg{Type: "stylesheet", Href: href}
}

func newHTMLMsg(html string) HTMLMsg { return HTMLMsg{Type: "html", HTML: html} }

func newScrollMsg(id string) ScrollMsg { return ScrollMsg{Type: "scroll", ID: id} }

func newErrorMsg(msg string) ErrorMsg { return ErrorMsg{Type: "error", Message: msg} }
