package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
)

// NavigationExpand expands the start item's navigation references with the
// flag that decides their visibility.
const NavigationExpand = "properties[navigations[properties[visibleToNavigation]]]"

const defaultCacheTTL = 5 * time.Minute

const (
	cacheKeyTree  = "site:tree"
	cacheKeyRoute = "content:route:"
)

// Source reads content nodes from the CMS.
type Source interface {
	ContentByPath(ctx context.Context, path, expand string) (*Content, error)
	ContentByID(ctx context.Context, id, expand string) (*Content, error)
	Descendants(ctx context.Context, parentID string) ([]Content, error)
}

// Cache stores encoded CMS responses between requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options configure a Repository.
type Options struct {
	// StartItem is the id of the site root node.
	StartItem string
	// HasAPIKey reports whether the source is authenticated. Without it the
	// repository returns empty results and never calls the source.
	HasAPIKey bool
	// Cache is optional.
	Cache    Cache
	CacheTTL time.Duration
}

// Repository loads page content and the site tree. Concurrent loads of the
// same key share one source call.
type Repository struct {
	source    Source
	startItem string
	enabled   bool
	cache     Cache
	ttl       time.Duration
	group     singleflight.Group
}

// NewRepository builds a repository over source.
func NewRepository(source Source, opts Options) *Repository {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	startItem := strings.TrimSpace(opts.StartItem)
	return &Repository{
		source:    source,
		startItem: startItem,
		enabled:   source != nil && opts.HasAPIKey && startItem != "",
		cache:     opts.Cache,
		ttl:       ttl,
	}
}

// Enabled reports whether the repository can reach the CMS.
func (r *Repository) Enabled() bool {
	return r != nil && r.enabled
}

// Home loads the home page node.
func (r *Repository) Home(ctx context.Context) (*Content, bool) {
	return r.ByRoute(ctx, "")
}

// ByRoute loads the node published at route. Lookup failures are logged and
// reported as not found.
func (r *Repository) ByRoute(ctx context.Context, route string) (*Content, bool) {
	if !r.Enabled() {
		return nil, false
	}
	route = NormalizeRoute(route)
	if IsSystemRoute(route) {
		return nil, false
	}
	node, err := load(ctx, r, cacheKeyRoute+route, false, func(ctx context.Context) (*Content, error) {
		return r.source.ContentByPath(ctx, route, NavigationExpand)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("content: fetch route=%q: %v", route, err)
		}
		return nil, false
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// Site loads the start node and its header navigation. A failed load yields
// an empty site.
func (r *Repository) Site(ctx context.Context) Site {
	tree, ok := r.loadTree(ctx, false)
	if !ok {
		return Site{}
	}
	return Site{Root: tree.Root, Navigation: tree.navigation()}
}

// Navigation returns the header navigation.
func (r *Repository) Navigation(ctx context.Context) []NavigationItem {
	return r.Site(ctx).Navigation
}

// Routes returns every crawlable route of the site tree, home first.
func (r *Repository) Routes(ctx context.Context) []SiteRoute {
	tree, ok := r.loadTree(ctx, false)
	if !ok {
		return nil
	}
	return tree.routes()
}

// Warm reloads the site tree from the source, refreshing the cache.
func (r *Repository) Warm(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	_, err := load(ctx, r, cacheKeyTree, true, r.fetchTree)
	return err
}

func (r *Repository) loadTree(ctx context.Context, fresh bool) (siteTree, bool) {
	if !r.Enabled() {
		return siteTree{}, false
	}
	tree, err := load(ctx, r, cacheKeyTree, fresh, r.fetchTree)
	if err != nil {
		log.Printf("content: load site tree: %v", err)
		return siteTree{}, false
	}
	return tree, tree.Root != nil
}

// siteTree is the start node plus the visible descendants of each visible
// navigation entry.
type siteTree struct {
	Root     *Content  `json:"root"`
	Sections []section `json:"sections,omitempty"`
}

type section struct {
	Parent      Content   `json:"parent"`
	Descendants []Content `json:"descendants,omitempty"`
}

func (r *Repository) fetchTree(ctx context.Context) (siteTree, error) {
	root, err := r.source.ContentByID(ctx, r.startItem, NavigationExpand)
	if err != nil {
		return siteTree{}, fmt.Errorf("fetch start item %s: %w", r.startItem, err)
	}
	tree := siteTree{Root: root}
	if root == nil {
		return tree, nil
	}
	for _, parent := range root.Properties.ContentList("navigations") {
		if !parent.VisibleInNavigation() {
			continue
		}
		tree.Sections = append(tree.Sections, section{
			Parent:      parent,
			Descendants: r.visibleDescendants(ctx, parent.ID),
		})
	}
	return tree, nil
}

func (r *Repository) visibleDescendants(ctx context.Context, parentID string) []Content {
	items, err := r.source.Descendants(ctx, parentID)
	if err != nil {
		log.Printf("content: fetch descendants parent=%s: %v", parentID, err)
		return nil
	}
	visible := make([]Content, 0, len(items))
	for _, item := range items {
		if item.VisibleInNavigation() {
			visible = append(visible, item)
		}
	}
	return visible
}

func (t siteTree) navigation() []NavigationItem {
	items := make([]NavigationItem, 0, len(t.Sections))
	for _, s := range t.Sections {
		item := navigationItem(s.Parent)
		for _, child := range s.Descendants {
			item.Children = append(item.Children, navigationItem(child))
		}
		items = append(items, item)
	}
	return items
}

func navigationItem(c Content) NavigationItem {
	return NavigationItem{ID: c.ID, Label: c.Name, Href: c.Route.Path}
}

func (t siteTree) routes() []SiteRoute {
	var (
		routes []SiteRoute
		index  = map[string]int{}
	)
	add := func(path, lastModified string) {
		normalized, ok := normalizeRoutePath(path)
		if !ok {
			return
		}
		if i, seen := index[normalized]; seen {
			if routes[i].LastModified == "" {
				routes[i].LastModified = lastModified
			}
			return
		}
		index[normalized] = len(routes)
		routes = append(routes, SiteRoute{Path: normalized, LastModified: lastModified})
	}
	homePath := t.Root.Route.Path
	if homePath == "" {
		homePath = "/"
	}
	add(homePath, t.Root.UpdateDate)
	for _, s := range t.Sections {
		add(s.Parent.Route.Path, s.Parent.UpdateDate)
		for _, d := range s.Descendants {
			add(d.Route.Path, d.UpdateDate)
		}
	}
	return routes
}

// normalizeRoutePath rejects blank paths and paths that only collapse to the
// root without being the root.
func normalizeRoutePath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	normalized := urlpath.NormalizeCanonicalPath(path)
	if normalized == "/" && strings.TrimSpace(path) != "/" {
		return "", false
	}
	return normalized, true
}

// NormalizeRoute lower-cases a request route and trims its slashes.
func NormalizeRoute(route string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(route), "/"))
}

// IsSystemRoute reports routes browsers probe that never map to CMS nodes.
func IsSystemRoute(route string) bool {
	return strings.HasPrefix(route, ".well-known/") || strings.HasPrefix(route, "favicon.")
}

// load serves key from the cache unless fresh is set, and otherwise calls
// fetch once per key across concurrent callers. The shared fetch outlives
// any single caller's cancellation and is bounded by timeouts.CMSLoad; each
// caller still stops waiting when its own ctx ends. Successful results are
// written back to the cache.
func load[T any](ctx context.Context, r *Repository, key string, fresh bool, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if !fresh {
		if value, ok := cached[T](ctx, r.cache, key); ok {
			return value, nil
		}
	}
	flightKey := key
	if fresh {
		flightKey = "fresh:" + key
	}
	results := r.group.DoChan(flightKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.CMSLoad)
		defer cancel()
		value, err := fetch(fetchCtx)
		if err != nil {
			return value, err
		}
		store(fetchCtx, r.cache, key, value, r.ttl)
		return value, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func cached[T any](ctx context.Context, cache Cache, key string) (T, bool) {
	var value T
	if cache == nil {
		return value, false
	}
	payload, ok, err := cache.Get(ctx, key)
	if err != nil {
		log.Printf("content: cache get key=%s: %v", key, err)
		return value, false
	}
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		log.Printf("content: cache decode key=%s: %v", key, err)
		return value, false
	}
	return value, true
}

func store(ctx context.Context, cache Cache, key string, value any, ttl time.Duration) {
	if cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("content: cache encode key=%s: %v", key, err)
		return
	}
	if err := cache.Set(ctx, key, payload, ttl); err != nil {
		log.Printf("content: cache set key=%s: %v", key, err)
	}
}
