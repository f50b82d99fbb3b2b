// Package fetch retrieves markdown pages and the navigation manifest from
// the configured content base URL. Page paths are gated by include/exclude
// globs before any request goes out, and responses must be text to be
// rendered.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// MenuFile is the manifest name resolved against the content base.
const MenuFile = "menu.yml"

// Pages larger than this are truncated; real documentation never gets
// close.
const maxPageSize = 8 << 20

// ErrDenied marks page paths rejected by the glob gate or path cleaning.
var ErrDenied = errors.New("page path not allowed")

// FetchError covers transport failures and non-success statuses.
type FetchError struct {
	Page   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Page, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ContentTypeError reports a response body that is not usable text.
type ContentTypeError struct {
	Page string
	Type string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("fetch %s: not a text document (%s)", e.Page, e.Type)
}

// Menu is the navigation manifest at the content root.
type Menu struct {
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section groups related pages in the menu.
type Section struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Pages       []MenuPage `yaml:"pages" json:"pages"`
}

// MenuPage names one selectable page.
type MenuPage struct {
	Title string `yaml:"title" json:"title"`
	Page  string `yaml:"page" json:"page"`
}

// Client fetches reader content over HTTP.
type Client struct {
	base    string
	http    *http.Client
	include []string
	exclude []string
}

// NewClient builds a client rooted at base. Empty include patterns admit
// every page, empty exclude patterns reject none.
func NewClient(base string, include, exclude []string) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		include: include,
		exclude: exclude,
	}
}

// Allowed reports whether a page path may be fetched. Absolute paths and
// anything escaping the content root are rejected before the globs run.
func (c *Client) Allowed(page string) bool {
	if page == "" || strings.HasPrefix(page, "/") || strings.Contains(page, "\\") {
		return false
	}
	clean := path.Clean(page)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return false
	}
	if len(c.include) > 0 && !matchesAny(clean, c.include) {
		return false
	}
	return !matchesAny(clean, c.exclude)
}

// Page fetches one markdown document. Errors are *FetchError,
// *ContentTypeError, or wrap ErrDenied.
func (c *Client) Page(ctx context.Context, page string) ([]byte, error) {
	if !c.Allowed(page) {
		return nil, fmt.Errorf("page %q: %w", page, ErrDenied)
	}
	return c.get(ctx, page, true)
}

// Menu fetches and decodes the navigation manifest. The manifest skips the
// text check since static hosts serve YAML under assorted content types.
func (c *Client) Menu(ctx context.Context) (*Menu, error) {
	body, err := c.get(ctx, MenuFile, false)
	if err != nil {
		return nil, err
	}
	var menu Menu
	if err := yaml.Unmarshal(body, &menu); err != nil {
		return nil, fmt.Errorf("decode %s: %w", MenuFile, err)
	}
	return &menu, nil
}

func (c *Client) get(ctx context.Context, name string, wantText bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+name, nil)
	if err != nil {
		return nil, &FetchError{Page: name, Err: err}
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Page: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Page: name, Status: resp.StatusCode}
	}
	if ct := resp.Header.Get("Content-Type"); wantText && !usableText(ct) {
		return nil, &ContentTypeError{Page: name, Type: ct}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, &FetchError{Page: name, Err: err}
	}
	return body, nil
}

// usableText accepts text/* media types plus markdown variants. A missing
// header passes; plenty of static hosts omit it.
func usableText(ct string) bool {
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || strings.HasSuffix(mt, "markdown")
}

// matchesAny checks the path against each glob, then against its base name
// so bare-filename patterns like "*.md" work at any depth.
func matchesAny(page string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, page); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, path.Base(page)); err == nil && matched {
			return true
		}
	}
	return false
}
