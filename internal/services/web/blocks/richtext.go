package blocks

import (
	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
)

func richTextPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	policy.RequireNoReferrerOnLinks(true)
	return policy
}

// SanitizeMarkup fixes root-relative CMS links, then strips unsafe markup.
func (d *Dispatcher) SanitizeMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	return d.policy.Sanitize(urlpath.FixRelativeURLs(d.env.CMSBaseURL, markup))
}

// RichText renders sanitized editor markup.
func (d *Dispatcher) RichText(text content.RichText) templ.Component {
	clean := d.SanitizeMarkup(text.Markup)
	if clean == "" {
		return templ.NopComponent
	}
	return templ.Raw(clean)
}

func (d *Dispatcher) mediaURL(media content.Media) string {
	return urlpath.MediaURL(d.env.MediaBaseURL, media.URL)
}
