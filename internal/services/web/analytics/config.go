// Package analytics decides which tracking scripts may load and builds the
// event payloads the browser script sends to gtag.
package analytics

import (
	"slices"
	"strings"
)

// Marketing tag identifiers accepted in Config.MarketingTags.
const (
	TagMeta     = "meta"
	TagLinkedIn = "linkedin"
)

// Config is the resolved analytics configuration.
type Config struct {
	Enabled           bool
	MeasurementID     string
	MarketingTags     []string
	MetaPixelID       string
	LinkedInPartnerID string
	LinkerDomains     []string
}

// Settings are the raw analytics settings as read from the environment.
type Settings struct {
	Enabled           string `env:"CLINICWEB_ANALYTICS_ENABLED"`
	MeasurementID     string `env:"CLINICWEB_GA_MEASUREMENT_ID"`
	MarketingTags     string `env:"CLINICWEB_MARKETING_TAGS"`
	MetaPixelID       string `env:"CLINICWEB_META_PIXEL_ID"`
	LinkedInPartnerID string `env:"CLINICWEB_LINKEDIN_PARTNER_ID"`
	LinkerDomains     string `env:"CLINICWEB_GA_LINKER_DOMAINS"`
}

// NewConfig resolves raw settings. Analytics is enabled only when the flag
// is "true" or "1" and a measurement id is present.
func NewConfig(s Settings) Config {
	flag := strings.TrimSpace(s.Enabled)
	measurementID := strings.TrimSpace(s.MeasurementID)
	return Config{
		Enabled:           (flag == "true" || flag == "1") && measurementID != "",
		MeasurementID:     measurementID,
		MarketingTags:     splitList(s.MarketingTags),
		MetaPixelID:       strings.TrimSpace(s.MetaPixelID),
		LinkedInPartnerID: strings.TrimSpace(s.LinkedInPartnerID),
		LinkerDomains:     splitList(s.LinkerDomains),
	}
}

// HasTag reports whether a marketing tag is enabled.
func (c Config) HasTag(tag string) bool {
	return slices.Contains(c.MarketingTags, tag)
}

// ShouldLoadAnalytics reports whether the GA tag may load for a visitor.
func ShouldLoadAnalytics(cfg Config, consent ConsentState) bool {
	return cfg.Enabled && consent == ConsentGranted
}

// ShouldLoadMarketing reports whether marketing tags may load for a visitor.
func ShouldLoadMarketing(cfg Config, prefs CookiePreferences) bool {
	return len(cfg.MarketingTags) > 0 && prefs.Marketing
}

// Scripts describes which third party scripts a page should include.
type Scripts struct {
	GoogleAnalytics bool
	MeasurementID   string
	LinkerDomains   []string
	MetaPixelID     string
	LinkedInID      string
}

// ResolveScripts applies consent to cfg.
func ResolveScripts(cfg Config, consent ConsentState, prefs CookiePreferences) Scripts {
	var out Scripts
	if ShouldLoadAnalytics(cfg, consent) {
		out.GoogleAnalytics = true
		out.MeasurementID = cfg.MeasurementID
		out.LinkerDomains = cfg.LinkerDomains
	}
	if ShouldLoadMarketing(cfg, prefs) {
		if cfg.HasTag(TagMeta) {
			out.MetaPixelID = cfg.MetaPixelID
		}
		if cfg.HasTag(TagLinkedIn) {
			out.LinkedInID = cfg.LinkedInPartnerID
		}
	}
	return out
}

// Any reports whether at least one script should load.
func (s Scripts) Any() bool {
	return s.GoogleAnalytics || s.MetaPixelID != "" || s.LinkedInID != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
