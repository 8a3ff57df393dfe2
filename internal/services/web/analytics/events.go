package analytics

import (
	"maps"
	"strings"
)

// Event names understood by the browser script.
const (
	EventBlockImpression = "block_impression"
	EventConversion      = "conversion"
	EventNavigation      = "navigation_interaction"
	EventCTA             = "cta_click"
	EventFormView        = "form_view"
	EventFormStart       = "form_start"
	EventFormSubmit      = "form_submit"
)

// Params is a gtag event parameter map.
type Params map[string]any

// Common carries the fields shared by every event.
type Common struct {
	Context   *PageContext
	Consent   ConsentState
	Timestamp int64
	Metadata  map[string]any
}

// BlockImpression is emitted when a content block becomes visible.
type BlockImpression struct {
	Common
	BlockID   string
	BlockType string
	Position  *int
	Variant   string
}

// Conversion is emitted for goal completions.
type Conversion struct {
	Common
	Action      string
	Label       string
	Destination string
	BlockID     string
	Category    string
	Value       *float64
}

// Navigation is emitted for menu interactions.
type Navigation struct {
	Common
	Action    string
	Label     string
	TargetURL string
	Menu      string
	Depth     *int
}

// CTA is emitted for call-to-action clicks.
type CTA struct {
	Common
	Action      string
	Label       string
	Destination string
	BlockID     string
}

// Form is emitted for form view, start and submit events.
type Form struct {
	Common
	FormID    string
	FormName  string
	Status    string
	ErrorCode string
}

// BlockImpressionParams builds the block_impression parameters.
func BlockImpressionParams(e BlockImpression) Params {
	p := Params{"block_id": e.BlockID}
	setString(p, "block_type", e.BlockType)
	if e.Position != nil {
		p["position"] = *e.Position
	}
	setString(p, "variant", e.Variant)
	return finish(p, e.Common)
}

// ConversionParams builds the conversion parameters. Category defaults to "conversion".
func ConversionParams(e Conversion) Params {
	category := e.Category
	if category == "" {
		category = "conversion"
	}
	p := Params{"action": e.Action, "event_category": category, "event_label": e.Label}
	setString(p, "destination", e.Destination)
	setString(p, "block_id", e.BlockID)
	if e.Value != nil {
		p["value"] = *e.Value
	}
	return finish(p, e.Common)
}

// NavigationParams builds the navigation_interaction parameters.
func NavigationParams(e Navigation) Params {
	p := Params{"action": e.Action, "label": e.Label}
	setString(p, "target_url", e.TargetURL)
	setString(p, "menu", e.Menu)
	if e.Depth != nil {
		p["depth"] = *e.Depth
	}
	return finish(p, e.Common)
}

// CTAParams builds the cta_click parameters.
func CTAParams(e CTA) Params {
	p := Params{"action": e.Action, "label": e.Label}
	setString(p, "destination", e.Destination)
	setString(p, "block_id", e.BlockID)
	return finish(p, e.Common)
}

// FormParams builds form_view, form_start and form_submit parameters.
func FormParams(e Form) Params {
	p := Params{"form_id": e.FormID}
	setString(p, "form_name", e.FormName)
	setString(p, "status", e.Status)
	setString(p, "error_code", e.ErrorCode)
	return finish(p, e.Common)
}

// ContextParams flattens a page context into gtag parameters.
func ContextParams(ctx *PageContext) Params {
	p := Params{}
	if ctx == nil {
		return p
	}
	setString(p, "page_path", ctx.PagePath)
	setString(p, "page_title", ctx.PageTitle)
	setString(p, "node_id", ctx.NodeID)
	setString(p, "node_type", ctx.NodeType)
	setString(p, "locale", ctx.Locale)
	setString(p, "site_section", ctx.SiteSection)
	if len(ctx.RouteSegments) > 0 {
		p["route_segments"] = strings.Join(ctx.RouteSegments, "/")
	}
	setString(p, "canonical_url", ctx.CanonicalURL)
	return p
}

func finish(p Params, c Common) Params {
	maps.Copy(p, ContextParams(c.Context))
	if c.Consent != ConsentUnset {
		p["consent_state"] = string(c.Consent)
	}
	if c.Timestamp != 0 {
		p["event_timestamp"] = c.Timestamp
	}
	maps.Copy(p, c.Metadata)
	return p
}

func setString(p Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}
