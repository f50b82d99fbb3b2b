// Package outline builds the hierarchical table of contents of a markdown
// page. Heading IDs are dotted integer paths ("2.1.1" is the first level-3
// heading under the first level-2 section of the second chapter) assigned by
// a counter walk over the source, so they are deterministic and unique per
// document regardless of heading titles.
package outline

import (
	"strconv"
	"strings"
)

// MaxLevel is the deepest heading level that participates in the outline.
const MaxLevel = 6

// Heading is one entry of a page's table of contents.
type Heading struct {
	ID     string `json:"id"`
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	// Fenced marks entries scanned from inside a fenced code block. They
	// hold their place in the outline and its counters, but no rendered
	// heading element ever carries their id.
	Fenced bool `json:"-"`
}

// Build scans markdown source line by line and returns the ordered outline.
// A line is a heading when it starts with 1–6 '#' characters followed by
// whitespace; everything after the marker, trimmed, is the title. The scan
// is deliberately line-based and does not exclude fenced code blocks: a
// '#' line inside a fence still produces an entry and advances the
// counters, but the entry is tagged Fenced so the renderer's positional
// join can pass over it. Input without headings yields an empty outline.
func Build(markdown string) []Heading {
	var (
		headings []Heading
		counters [MaxLevel]int
		fence    string
	)

	for _, line := range strings.Split(markdown, "\n") {
		if marker := fenceMarker(line); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case fence == marker:
				fence = ""
			}
			continue
		}

		level, title, ok := matchHeading(line)
		if !ok {
			continue
		}

		counters[level-1]++
		for i := level; i < MaxLevel; i++ {
			counters[i] = 0
		}

		headings = append(headings, Heading{
			ID:     joinID(counters[:level]),
			Level:  level,
			Title:  title,
			Fenced: fence != "",
		})
	}

	return headings
}

// fenceMarker returns the delimiter when line opens or closes a fenced code
// block, or "". Inside a fence only the matching delimiter closes it, so a
// ``` line within a ~~~ block stays content.
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "```") {
		return "```"
	}
	if strings.HasPrefix(trimmed, "~~~") {
		return "~~~"
	}
	return ""
}

// matchHeading reports whether line is an ATX-style heading and returns its
// depth and trimmed title text.
func matchHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level < 1 || level > MaxLevel {
		return 0, "", false
	}
	rest := line[level:]
	if rest == "" {
		return 0, "", false
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	return level, strings.TrimSpace(rest), true
}

func joinID(counters []int) string {
	parts := make([]string, len(counters))
	for i, c := range counters {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}

// CompareIDs orders two dotted heading IDs component by component, left to
// right, comparing components as integers. Missing trailing components count
// as zero, so "1" and "1.0" compare equal. The result is negative when a
// precedes b in document order, positive when it follows, zero when equal.
func CompareIDs(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av := componentAt(as, i)
		bv := componentAt(bs, i)
		if av != bv {
			return av - bv
		}
	}
	return 0
}

func componentAt(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return v
}

// Find returns the heading with the given ID, or nil.
func Find(headings []Heading, id string) *Heading {
	for i := range headings {
		if headings[i].ID == id {
			return &headings[i]
		}
	}
	return nil
}

// MarkActive flags the heading with the given ID and clears every other
// flag, keeping at most one entry active. An unknown or empty ID clears
// them all.
func MarkActive(headings []Heading, id string) {
	for i := range headings {
		headings[i].Active = id != "" && headings[i].ID == id
	}
}
