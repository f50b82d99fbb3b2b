package session

import (
	"context"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/enhance"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/render"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/theme"
)

// buildDocument runs the outline, render, and enhance steps over fetched
// markdown. The outline is built first so the renderer can consume its
// entries positionally.
func buildDocument(r *render.Renderer, e *enhance.Enhancer, body []byte) ([]outline.Heading, string, error) {
	headings := outline.Build(string(body))
	html, err := r.Render(body, headings)
	if err != nil {
		return nil, "", err
	}
	html, err = e.Apply(html)
	if err != nil {
		return nil, "", err
	}
	return headings, html, nil
}

// Preview runs the load pipeline once, outside any live connection. The
// /api/state route and the check command use it to inspect a page without
// a shell attached.
func Preview(ctx context.Context, fetcher Fetcher, page string) (State, error) {
	body, err := fetcher.Page(ctx, page)
	if err != nil {
		return State{}, err
	}
	headings, html, err := buildDocument(render.New(), enhance.New(), body)
	if err != nil {
		return State{}, err
	}
	return State{
		Page:       page,
		Outline:    headings,
		HTML:       html,
		Theme:      string(theme.Light),
		Stylesheet: theme.LightHref,
	}, nil
}
