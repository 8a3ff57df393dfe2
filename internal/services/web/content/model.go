// Package content models CMS content nodes and loads them for page rendering.
package content

import (
	"errors"
	"time"
)

// ErrNotFound reports that the CMS has no node for the requested route or id.
var ErrNotFound = errors.New("content not found")

// Content is one CMS content node.
type Content struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"contentType"`
	CreateDate  string     `json:"createDate,omitempty"`
	UpdateDate  string     `json:"updateDate,omitempty"`
	Route       Route      `json:"route"`
	Properties  Properties `json:"properties,omitempty"`
}

// Route locates a node in the site tree.
type Route struct {
	Path      string    `json:"path"`
	Culture   string    `json:"culture,omitempty"`
	StartItem StartItem `json:"startItem"`
}

// StartItem identifies the root node of the site tree.
type StartItem struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Element is the content payload of a block.
type Element struct {
	ID          string     `json:"id"`
	ContentType string     `json:"contentType"`
	Properties  Properties `json:"properties,omitempty"`
}

// BlockItem pairs a block's content with its optional settings element.
type BlockItem struct {
	Content  *Element `json:"content"`
	Settings *Element `json:"settings,omitempty"`
}

// BlockList is an ordered list of blocks.
type BlockList struct {
	Items []BlockItem `json:"items"`
}

// BlockGrid is a 12-column layout of blocks.
type BlockGrid struct {
	GridColumns int        `json:"gridColumns"`
	Items       []GridItem `json:"items"`
}

// GridItem is one placed block, optionally with nested areas.
type GridItem struct {
	ColumnSpan int        `json:"columnSpan"`
	RowSpan    int        `json:"rowSpan"`
	Areas      []GridArea `json:"areas,omitempty"`
	Content    *Element   `json:"content"`
	Settings   *Element   `json:"settings,omitempty"`
}

// GridArea is a named region inside a grid item.
type GridArea struct {
	Alias      string     `json:"alias"`
	ColumnSpan int        `json:"columnSpan"`
	RowSpan    int        `json:"rowSpan"`
	Items      []GridItem `json:"items"`
}

// RichText is editor markup plus the blocks embedded in it.
type RichText struct {
	Markup string      `json:"markup"`
	Blocks []BlockItem `json:"blocks,omitempty"`
}

// Media is a media picker entry.
type Media struct {
	URL    string `json:"url"`
	Name   string `json:"name"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Link is a link picker entry. Internal links carry a route.
type Link struct {
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Target string `json:"target,omitempty"`
	Route  *Route `json:"route,omitempty"`
}

// Href returns the internal route path when present, else the external URL.
func (l Link) Href() string {
	if l.Route != nil && l.Route.Path != "" {
		return l.Route.Path
	}
	return l.URL
}

// NavigationItem is one entry of the header navigation.
type NavigationItem struct {
	ID       string
	Label    string
	Href     string
	Children []NavigationItem
}

// SiteRoute is a crawlable site path.
type SiteRoute struct {
	Path         string
	LastModified string
}

// LastModifiedTime parses LastModified as RFC 3339.
func (r SiteRoute) LastModifiedTime() (time.Time, bool) {
	if r.LastModified == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, r.LastModified); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Site is the start node with its resolved navigation.
type Site struct {
	Root       *Content
	Navigation []NavigationItem
}

// Blocks returns the block contents of c's "blocks" property in order,
// skipping items without content.
func Blocks(c *Content) []*Element {
	if c == nil {
		return nil
	}
	return BlockElements(c.Properties.BlockList("blocks").Items)
}

// BlockElements returns the non-nil contents of items.
func BlockElements(items []BlockItem) []*Element {
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		if item.Content != nil {
			out = append(out, item.Content)
		}
	}
	return out
}

// VisibleInNavigation reports whether the node opted into the navigation.
func (c Content) VisibleInNavigation() bool {
	return c.Properties.Bool("visibleToNavigation")
}
