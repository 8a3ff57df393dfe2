package web

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
)

// Warmer refreshes cached CMS data.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmFunc adapts a function to Warmer.
type WarmFunc func(ctx context.Context) error

// Warm calls f.
func (f WarmFunc) Warm(ctx context.Context) error { return f(ctx) }

// Purger drops expired cache entries.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// CacheWarmer reloads the site tree and then purges expired entries.
type CacheWarmer struct {
	Content Warmer
	Cache   Purger
}

// Warm runs one refresh. A content failure stops the run before purging.
func (w CacheWarmer) Warm(ctx context.Context) error {
	if w.Content != nil {
		if err := w.Content.Warm(ctx); err != nil {
			return fmt.Errorf("warm content: %w", err)
		}
	}
	if w.Cache != nil {
		removed, err := w.Cache.Purge(ctx)
		if err != nil {
			return fmt.Errorf("purge cache: %w", err)
		}
		if removed > 0 {
			log.Printf("web: cache purge removed=%d", removed)
		}
	}
	return nil
}

// ScheduleWarm runs warm on the cron spec until ctx ends or stop is called.
// Each run is bounded by timeouts.CacheWarm.
func ScheduleWarm(ctx context.Context, spec string, warm Warmer) (stop func(), err error) {
	if warm == nil {
		return nil, fmt.Errorf("warmer is required")
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { runWarm(ctx, warm) }); err != nil {
		return nil, fmt.Errorf("parse warm schedule %q: %w", spec, err)
	}
	c.Start()
	log.Printf("web: cache warm scheduled spec=%q", spec)
	return func() { <-c.Stop().Done() }, nil
}

func runWarm(ctx context.Context, warm Warmer) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.CacheWarm)
	defer cancel()
	if err := warm.Warm(runCtx); err != nil {
		log.Printf("web: cache warm failed: %v", err)
	}
}
