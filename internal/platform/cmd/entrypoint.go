// Package cmd runs the site's commands: environment and flag parsing, and
// tracing around the serve loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/uslusolutions/clinicweb/internal/platform/config"
	"github.com/uslusolutions/clinicweb/internal/platform/otel"
	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
)

// ServiceWeb names the public website in traces and logs.
const ServiceWeb = "clinicweb"

// LoadEnv fills cfg from CLINICWEB_* variables and their defaults.
func LoadEnv[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseFlags applies command-line overrides on top of the loaded environment.
func ParseFlags(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag set is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs tracing for service, calls run and flushes spans
// once it returns. The flush is bounded by timeouts.Shutdown.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: flush traces: %v", service, err)
		}
	}()
	return run(ctx)
}
