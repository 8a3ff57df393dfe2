// Package app composes feature modules into the root HTTP handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
)

// ComposeInput carries the modules to mount and shared request policy.
type ComposeInput struct {
	Modules []module.Module
	Scheme  requestmeta.SchemePolicy
}

// Composer wires module mounts into a root mux.
type Composer struct{}

// Compose builds a root HTTP handler from modules. Each path may be owned by
// one module only.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)
	wrap := rejectCrossOriginMutations(input.Scheme)

	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		mount, err := resolveMount(feature)
		if err != nil {
			return nil, err
		}
		handler := wrap(mount.Handler)
		for _, path := range mount.Paths {
			if previous, ok := seen[path]; ok {
				return nil, fmt.Errorf("module %q duplicates path %q owned by module %q", feature.ID(), path, previous)
			}
			seen[path] = feature.ID()
			root.Handle(path, handler)
		}
	}
	return root, nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Paths) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: at least one path is required", feature.ID())
	}
	paths := make([]string, 0, len(mount.Paths))
	for _, raw := range mount.Paths {
		path := strings.TrimSpace(raw)
		if !strings.HasPrefix(path, "/") {
			return module.Mount{}, fmt.Errorf("mount module %q: path %q must start with /", feature.ID(), raw)
		}
		paths = append(paths, path)
	}
	mount.Paths = paths
	return mount, nil
}

// rejectCrossOriginMutations answers 403 to browser writes whose Origin or
// Referer names another site. Requests without either header pass.
func rejectCrossOriginMutations(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isMutationMethod(r) && hasOriginHeaders(r) && !requestmeta.HasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasOriginHeaders(r *http.Request) bool {
	return strings.TrimSpace(r.Header.Get("Origin")) != "" || strings.TrimSpace(r.Header.Get("Referer")) != ""
}
