package blocks

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

const (
	// ContactRecaptchaAction is the reCAPTCHA action name for the form.
	ContactRecaptchaAction = "contact_form"
	contactFormID          = "contact_form"
)

type formField struct {
	name, key, fallback, inputType, autocomplete string
}

var contactFields = []formField{
	{name: "name", key: "contact.name", fallback: "Navn", inputType: "text", autocomplete: "name"},
	{name: "email", key: "contact.email", fallback: "E-mail", inputType: "email", autocomplete: "email"},
	{name: "mobile", key: "contact.mobile", fallback: "Mobil", inputType: "tel", autocomplete: "tel"},
}

func renderContactForm(d *Dispatcher, block *content.Element) templ.Component {
	title := block.Properties.String("title")
	view := analytics.FormParams(analytics.Form{
		Common:   analytics.Common{Context: d.env.Page},
		FormID:   contactFormID,
		FormName: title,
	})
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("contact-form"))
		w.OptElement("h2", title)
		w.Open("form",
			markup.A("method", "post"),
			markup.A("action", routepath.Contact),
			markup.A("data-contact-form", ""),
			markup.Opt("data-recaptcha-site-key", d.env.RecaptchaSiteKey),
			markup.A("data-recaptcha-action", ContactRecaptchaAction),
			markup.A("data-sending-label", d.text("contact.sending", "Sender...")),
			markup.A("data-success-message", d.text("contact.success", "Tak for din besked.")),
			markup.A("data-failure-message", d.text("contact.failure", "Beskeden kunne ikke sendes.")),
			markup.Data("analytics-form", view),
			markup.A("novalidate", ""),
		)
		for _, field := range contactFields {
			id := "contact-" + field.name
			w.Open("div", markup.Class("field"))
			w.Element("label", d.text(field.key, field.fallback), markup.A("for", id))
			w.Void("input",
				markup.A("id", id),
				markup.A("name", field.name),
				markup.A("type", field.inputType),
				markup.A("autocomplete", field.autocomplete),
				markup.Bool("required", true),
			)
			w.Close("div")
		}
		w.Open("div", markup.Class("field"))
		w.Element("label", d.text("contact.message", "Besked"), markup.A("for", "contact-message"))
		w.Open("textarea", markup.A("id", "contact-message"), markup.A("name", "message"), markup.A("rows", "5"), markup.Bool("required", true))
		w.Close("textarea")
		w.Close("div")
		w.Element("p", "", markup.Class("form-status"), markup.A("role", "status"), markup.A("aria-live", "polite"))
		w.Element("button", d.text("contact.submit", "Send"), markup.A("type", "submit"))
		w.Element("p", d.text("contact.recaptcha_notice", "Beskyttet af reCAPTCHA."), markup.Class("recaptcha-notice"))
		w.Close("form")
		if d.env.RecaptchaSiteKey != "" {
			w.Open("script", markup.Src("https://www.google.com/recaptcha/api.js?render="+url.QueryEscape(d.env.RecaptchaSiteKey)), markup.Bool("async", true), markup.Bool("defer", true))
			w.Close("script")
		}
		w.Close("section")
	})
}
