package blocks

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
)

var heroVariants = map[string]bool{"simple": true, "imageLeft": true, "imageRight": true}

var featureVariants = map[string]bool{"simple": true, "process": true, "profile": true, "guide": true}

func sectionClass(base, background string) string {
	if background == "" {
		return base
	}
	return base + " bg-" + background
}

func (d *Dispatcher) image(w *markup.Writer, media content.Media, alt string) {
	src := d.mediaURL(media)
	if src == "" {
		return
	}
	if alt == "" {
		alt = media.Name
	}
	attrs := []markup.Attr{markup.Src(src), markup.A("alt", alt), markup.A("loading", "lazy")}
	if media.Width > 0 && media.Height > 0 {
		attrs = append(attrs, markup.A("width", strconv.Itoa(media.Width)), markup.A("height", strconv.Itoa(media.Height)))
	}
	w.Void("img", attrs...)
}

func (d *Dispatcher) link(w *markup.Writer, link content.Link, label, class, blockID string) {
	href := link.Href()
	if href == "" {
		return
	}
	if label == "" {
		label = link.Title
	}
	attrs := []markup.Attr{markup.Href(href), markup.Class(class), markup.Opt("target", link.Target)}
	if link.Target == "_blank" {
		attrs = append(attrs, markup.A("rel", "noopener noreferrer"))
	}
	attrs = append(attrs, markup.Data("analytics-cta", analytics.CTAParams(analytics.CTA{
		Common:      analytics.Common{Context: d.env.Page},
		Action:      "click",
		Label:       label,
		Destination: href,
		BlockID:     blockID,
	})))
	w.Element("a", label, attrs...)
}

func (d *Dispatcher) icon(w *markup.Writer, name string) {
	if name == "" {
		return
	}
	w.Icon(name)
}

func renderHero(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class(sectionClass("hero", p.String("sectionBackground"))))
		if media, ok := p.FirstMedia("image"); ok {
			d.image(w, media, p.String("title"))
		}
		w.OptElement("h1", p.String("title"))
		w.Open("div", markup.Class("hero-text"))
		w.Component(ctx, d.RichText(p.RichText("text")))
		w.Close("div")
		w.Close("section")
	})
}

func renderHeroSection(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	variant := p.String("heroVariant")
	if !heroVariants[variant] {
		return notice("Unknown hero variant")
	}
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("hero-section hero-section--"+variant))
		w.Open("div", markup.Class("hero-section__body"))
		w.OptElement("p", p.String("tag"), markup.Class("tag"))
		w.OptElement("h1", p.String("headline"))
		w.OptElement("p", p.String("subHeadline"), markup.Class("lead"))
		w.Open("div", markup.Class("hero-section__actions"))
		blockID := block.ID
		if links := p.Links("primaryCta"); len(links) > 0 {
			d.link(w, links[0], "", "button button--primary", blockID)
		}
		if links := p.Links("secondaryCta"); len(links) > 0 && variant != "imageRight" {
			d.link(w, links[0], "", "button button--secondary", blockID)
		}
		w.Close("div")
		if ups := p.BlockList("upsBlocks").Items; len(ups) > 0 {
			w.Open("div", markup.Class("hero-section__ups"))
			w.Component(ctx, d.RenderItems(ups))
			w.Close("div")
		}
		w.Close("div")
		if media, ok := p.FirstMedia("heroImage"); ok {
			w.Open("figure", markup.Class("hero-section__media"))
			d.image(w, media, p.String("imageAltText"))
			w.Close("figure")
		}
		w.Close("section")
	})
}

func renderFeature(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	variant := p.String("featureVariant")
	if p.Has("featureVariant") && variant != "" && !featureVariants[variant] {
		return notice("Unknown feature variant")
	}
	class := "feature"
	if variant != "" {
		class += " feature--" + variant
	}
	items := p.BlockList("blocks").Items
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class(sectionClass(class, p.String("sectionBackground"))))
		w.Open("header")
		w.OptElement("p", p.String("tag"), markup.Class("tag"))
		w.OptElement("h2", p.String("title"))
		w.Open("div", markup.Class("feature__text"))
		w.Component(ctx, d.RichText(p.RichText("text")))
		w.Close("div")
		w.Close("header")
		if media, ok := p.FirstMedia("image"); ok {
			d.image(w, media, "")
		}
		switch variant {
		case "process", "guide":
			d.renderSteps(w, items, variant == "guide")
		case "profile":
			d.renderUpsList(w, items)
		default:
			w.Open("div", markup.Class("feature__blocks"))
			w.Component(ctx, d.RenderItems(items))
			w.Close("div")
		}
		w.Close("section")
	})
}

// renderSteps lists nested service cards as numbered steps.
func (d *Dispatcher) renderSteps(w *markup.Writer, items []content.BlockItem, numbered bool) {
	w.Open("ol", markup.Class("steps"))
	step := 0
	for _, item := range items {
		if item.Content == nil || item.Content.Properties == nil {
			continue
		}
		step++
		p := item.Content.Properties
		w.Open("li", markup.Class("step"))
		if numbered {
			w.Element("span", strconv.Itoa(step), markup.Class("step__number"))
		} else {
			d.icon(w, p.String("icon"))
		}
		w.OptElement("h3", p.String("title"))
		w.OptElement("p", p.String("description"))
		w.Close("li")
	}
	w.Close("ol")
}

func (d *Dispatcher) renderUpsList(w *markup.Writer, items []content.BlockItem) {
	w.Open("ul", markup.Class("ups-list"))
	for _, item := range items {
		if item.Content == nil || item.Content.Properties == nil {
			continue
		}
		p := item.Content.Properties
		w.Open("li")
		d.icon(w, p.String("icon"))
		w.OptElement("strong", p.String("boldText"))
		w.OptElement("span", p.String("smallText"))
		w.Close("li")
	}
	w.Close("ul")
}

func renderTextWithImage(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("text-with-image"))
		w.Open("div", markup.Class("text-with-image__text"))
		w.OptElement("p", p.String("tag"), markup.Class("tag"))
		w.OptElement("h2", p.String("title"))
		w.Component(ctx, d.RichText(p.RichText("blockContent")))
		w.Close("div")
		if images := p.Media("images"); len(images) > 0 {
			w.Open("div", markup.Class("text-with-image__images"))
			for _, media := range images {
				d.image(w, media, "")
			}
			w.Close("div")
		}
		w.Close("section")
	})
}

func renderContainer(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	columns := p.Int("column")
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		class := sectionClass("container-block", p.String("sectionBackground"))
		if align := p.String("textAlignment"); align != "" {
			class += " text-" + align
		}
		w.Open("section", markup.Class(class))
		w.Open("header")
		w.OptElement("p", p.String("tag"), markup.Class("tag"))
		w.OptElement("h2", p.String("title"))
		if links := p.Links("link"); len(links) > 0 {
			d.link(w, links[0], "", "container-block__link", block.ID)
		}
		w.Close("header")
		if grid := p.BlockGrid("grid"); len(grid.Items) > 0 {
			w.Component(ctx, d.RenderGrid(grid))
		}
		if items := p.BlockList("blocks").Items; len(items) > 0 {
			class := "container-block__items"
			if columns > 0 {
				class += " md:grid-cols-" + strconv.Itoa(columns)
			}
			w.Open("div", markup.Class(class))
			w.Component(ctx, d.RenderItems(items))
			w.Close("div")
		}
		w.Close("section")
	})
}

func renderServiceCard(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("article", markup.Class("card service-card"))
		d.icon(w, p.String("icon"))
		w.OptElement("h3", p.String("title"))
		w.OptElement("p", p.String("description"))
		if links := p.Links("link"); len(links) > 0 {
			d.link(w, links[0], "", "card__link", block.ID)
		}
		w.Close("article")
	})
}

func renderTeaserCard(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("article", markup.Class("card teaser-card"))
		d.icon(w, p.String("icon"))
		w.OptElement("h3", p.String("title"))
		if p.Has("text") {
			w.Component(ctx, d.RichText(p.RichText("text")))
		} else {
			w.OptElement("p", p.String("description"))
		}
		if links := p.Links("link"); len(links) > 0 {
			d.link(w, links[0], "", "card__link", block.ID)
		}
		w.Close("article")
	})
}

func renderContact(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("contact"), markup.A("id", "contact"))
		w.OptElement("p", p.String("tag"), markup.Class("tag"))
		w.OptElement("h2", p.String("title"))
		w.OptElement("p", p.String("description"))
		w.Open("div", markup.Class("contact__blocks"))
		w.Component(ctx, d.RenderItems(p.BlockList("blocks").Items))
		w.Close("div")
		w.Close("section")
	})
}

func renderIFrame(_ *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	src := strings.TrimSpace(p.String("src"))
	if !urlpath.IsAbsoluteHTTP(src) {
		return notice("Iframe source URL is missing or invalid.")
	}
	if _, err := url.Parse(src); err != nil {
		return notice("Iframe source URL is missing or invalid.")
	}
	width := p.String("width")
	if width == "" {
		width = "100%"
	}
	height := p.String("height")
	if height == "" {
		height = "450"
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("div", markup.Class("iframe-block"))
		w.Open("iframe",
			markup.Src(src),
			markup.A("width", width),
			markup.A("height", height),
			markup.A("loading", "lazy"),
			markup.A("referrerpolicy", "no-referrer-when-downgrade"),
			markup.Bool("allowfullscreen", true),
			markup.A("title", p.String("title")),
		)
		w.Close("iframe")
		w.Close("div")
	})
}

func renderRichText(d *Dispatcher, block *content.Element) templ.Component {
	body := block.Properties.RichText("body")
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("div", markup.Class("rich-text"))
		w.Component(ctx, d.RichText(body))
		w.Component(ctx, d.RenderItems(body.Blocks))
		w.Close("div")
	})
}

func renderUps(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("div", markup.Class("ups"))
		d.icon(w, p.String("icon"))
		w.OptElement("strong", p.String("boldText"))
		w.OptElement("span", p.String("smallText"))
		w.Close("div")
	})
}

func renderCTAAction(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("cta-action"))
		w.OptElement("h2", p.String("headline"))
		w.Component(ctx, d.RichText(p.RichText("text")))
		if links := p.Links("cta"); len(links) > 0 {
			d.link(w, links[0], p.String("ctaLabel"), "button button--primary", block.ID)
		}
		w.Close("section")
	})
}

func renderFAQ(d *Dispatcher, block *content.Element) templ.Component {
	p := block.Properties
	question := p.String("question")
	if question == "" {
		question = "Question"
	}
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("details", markup.Class("faq"))
		w.Element("summary", question)
		w.Open("div", markup.Class("faq__answer"))
		w.Component(ctx, d.RichText(p.RichText("answer")))
		w.Close("div")
		w.Close("details")
	})
}

func renderFooterBlock(d *Dispatcher, block *content.Element) templ.Component {
	return d.Footer(FooterFromProperties(block.Properties))
}
