// Package theme tracks the reader's light/dark preference and maps it to
// the chroma stylesheet the shell should load. Exactly one stylesheet href
// is active at a time; the shell swaps by removing the old link before
// inserting the new one, then the session re-runs code block enhancement.
package theme

// Scheme is a platform color preference.
type Scheme string

const (
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

// Stylesheet hrefs served by the reader's asset routes.
const (
	LightHref = "/assets/chroma-light.css"
	DarkHref  = "/assets/chroma-dark.css"
)

// ParseScheme maps a reported preference string to a Scheme.
func ParseScheme(s string) (Scheme, bool) {
	switch Scheme(s) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// StylesheetFor returns the href for a scheme.
func StylesheetFor(scheme Scheme) string {
	if scheme == Dark {
		return DarkHref
	}
	return LightHref
}

// Synchronizer holds the scheme of one reader session. It is owned by the
// session loop and not safe for concurrent use.
type Synchronizer struct {
	scheme Scheme
}

// New starts in light mode; the shell reports the real preference at mount.
func New() *Synchronizer {
	return &Synchronizer{scheme: Light}
}

// Scheme returns the current scheme.
func (s *Synchronizer) Scheme() Scheme {
	return s.scheme
}

// Set switches the scheme and reports whether it changed. Callers re-apply
// code block enhancement on a change so token markup stays consistent with
// the new stylesheet.
func (s *Synchronizer) Set(scheme Scheme) bool {
	if scheme == s.scheme {
		return false
	}
	s.scheme = scheme
	return true
}

// Stylesheet returns the href for the current scheme.
func (s *Synchronizer) Stylesheet() string {
	return StylesheetFor(s.scheme)
}
