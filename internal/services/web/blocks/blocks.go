// Package blocks renders CMS content blocks by dispatching on content type.
package blocks

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/uslusolutions/clinicweb/internal/services/shared/i18nhttp"
	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
)

// Renderer renders one block whose type and properties are present.
type Renderer func(d *Dispatcher, block *content.Element) templ.Component

// Registry maps content type aliases to renderers.
type Registry map[string]Renderer

// DefaultRegistry returns the renderers for every supported block type.
func DefaultRegistry() Registry {
	return Registry{
		"heroBlock":          renderHero,
		"heroSection":        renderHeroSection,
		"featureBlock":       renderFeature,
		"footerBlock":        renderFooterBlock,
		"textWithImageBlock": renderTextWithImage,
		"containerBlock":     renderContainer,
		"serviceCard":        renderServiceCard,
		"contactFormBlock":   renderContactForm,
		"contactBlock":       renderContact,
		"iFrameBlock":        renderIFrame,
		"richTextBlock":      renderRichText,
		"teaserCardWithIcon": renderTeaserCard,
		"upsBlock":           renderUps,
		"ctaActionBlock":     renderCTAAction,
		"faqBlock":           renderFAQ,
	}
}

// Env carries request-scoped rendering inputs.
type Env struct {
	// CMSBaseURL prefixes root-relative links in rich text.
	CMSBaseURL string
	// MediaBaseURL prefixes media paths.
	MediaBaseURL     string
	RecaptchaSiteKey string
	Loc              i18nhttp.Localizer
	Page             *analytics.PageContext
}

// Dispatcher renders blocks through a registry.
type Dispatcher struct {
	env      Env
	registry Registry
	policy   *bluemonday.Policy
}

// New builds a dispatcher over the default registry.
func New(env Env) *Dispatcher {
	return NewWithRegistry(env, DefaultRegistry())
}

// NewWithRegistry builds a dispatcher over registry.
func NewWithRegistry(env Env, registry Registry) *Dispatcher {
	return &Dispatcher{env: env, registry: registry, policy: richTextPolicy()}
}

// Render renders one block, or an inline notice when it cannot.
func (d *Dispatcher) Render(block *content.Element) templ.Component {
	if block == nil || block.ContentType == "" {
		contentType := ""
		if block != nil {
			contentType = block.ContentType
		}
		return notice("Invalid block data : " + contentType)
	}
	if block.Properties == nil {
		return notice("Block missing properties")
	}
	render, ok := d.registry[block.ContentType]
	if !ok {
		return notice("Component not found : " + block.ContentType)
	}
	return render(d, block)
}

// RenderList renders the renderable blocks in order, each wrapped in an
// impression-tracking container. Blocks without a type or properties are
// dropped before positions are assigned.
func (d *Dispatcher) RenderList(blocks []*content.Element) templ.Component {
	renderable := make([]*content.Element, 0, len(blocks))
	for _, block := range blocks {
		if block != nil && block.ContentType != "" && block.Properties != nil {
			renderable = append(renderable, block)
		}
	}
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		for i, block := range renderable {
			blockID := block.ContentType + ":" + strconv.Itoa(i)
			position := i
			params := analytics.BlockImpressionParams(analytics.BlockImpression{
				Common:    analytics.Common{Context: d.env.Page},
				BlockID:   blockID,
				BlockType: block.ContentType,
				Position:  &position,
			})
			w.Open("div",
				markup.A("data-analytics-block-id", blockID),
				markup.A("data-block-type", block.ContentType),
				markup.A("data-block-position", strconv.Itoa(i)),
				markup.Data("analytics-impression", params),
			)
			w.Component(ctx, d.Render(block))
			w.Close("div")
		}
	})
}

// RenderItems renders the contents of a block list without tracking wrappers.
func (d *Dispatcher) RenderItems(items []content.BlockItem) templ.Component {
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		for _, item := range items {
			if item.Content == nil || item.Content.Properties == nil {
				continue
			}
			w.Component(ctx, d.Render(item.Content))
		}
	})
}

func (d *Dispatcher) text(key, fallback string) string {
	if d.env.Loc == nil {
		return fallback
	}
	if localized := strings.TrimSpace(d.env.Loc.Sprintf(key)); localized != "" && localized != key {
		return localized
	}
	return fallback
}

func notice(message string) templ.Component {
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Element("div", message, markup.Class("block-notice"), markup.A("role", "alert"))
	})
}
