package web

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingPurger struct {
	calls *[]string
	err   error
}

func (p recordingPurger) Purge(context.Context) (int64, error) {
	*p.calls = append(*p.calls, "purge")
	return 2, p.err
}

func TestCacheWarmerWarmsThenPurges(t *testing.T) {
	t.Parallel()

	var calls []string
	w := CacheWarmer{
		Content: WarmFunc(func(context.Context) error {
			calls = append(calls, "warm")
			return nil
		}),
		Cache: recordingPurger{calls: &calls},
	}
	if err := w.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if diff := cmp.Diff([]string{"warm", "purge"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheWarmerStopsOnContentError(t *testing.T) {
	t.Parallel()

	var calls []string
	boom := errors.New("cms down")
	w := CacheWarmer{
		Content: WarmFunc(func(context.Context) error { return boom }),
		Cache:   recordingPurger{calls: &calls},
	}
	if err := w.Warm(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Warm() error = %v, want %v", err, boom)
	}
	if len(calls) != 0 {
		t.Fatalf("purge ran after failed warm: %v", calls)
	}
}

func TestCacheWarmerReportsPurgeError(t *testing.T) {
	t.Parallel()

	var calls []string
	w := CacheWarmer{Cache: recordingPurger{calls: &calls, err: errors.New("locked")}}
	if err := w.Warm(context.Background()); err == nil {
		t.Fatal("expected purge error")
	}
}

func TestScheduleWarmRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := ScheduleWarm(context.Background(), "@every 1m", nil); err == nil {
		t.Fatal("expected error for nil warmer")
	}
	noop := WarmFunc(func(context.Context) error { return nil })
	if _, err := ScheduleWarm(context.Background(), "not a schedule", noop); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	stop, err := ScheduleWarm(context.Background(), "@every 1h", noop)
	if err != nil {
		t.Fatalf("ScheduleWarm() error = %v", err)
	}
	stop()
}

func TestRunWarmSkipsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	runWarm(ctx, WarmFunc(func(context.Context) error {
		called = true
		return nil
	}))
	if called {
		t.Fatal("warm ran after cancel")
	}
}
