package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// ConsentBanner renders the cookie banner while the visitor has not chosen.
func ConsentBanner(decision analytics.Decision, loc Localizer) templ.Component {
	if !decision.BannerVisible() {
		return templ.NopComponent
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("section",
			markup.Class("consent-banner"),
			markup.A("role", "dialog"),
			markup.A("aria-live", "polite"),
			markup.A("aria-labelledby", "consent-banner-title"),
			markup.A("data-consent-banner", ""),
		)
		w.Element("h2", T(loc, "consent.banner_title", "Vi bruger cookies"), markup.A("id", "consent-banner-title"))
		w.Element("p", T(loc, "consent.banner_body", "Vi bruger cookies til statistik og markedsføring, hvis du giver samtykke."))
		w.Open("form", markup.A("method", "post"), markup.A("action", routepath.Consent), markup.Class("consent-banner__actions"))
		actionButton(w, analytics.ActionAcceptAll, T(loc, "consent.accept_all", "Accepter alle"), "button button--primary")
		actionButton(w, analytics.ActionRejectAll, T(loc, "consent.reject_all", "Afvis alle"), "button button--secondary")
		w.Element("a", T(loc, "consent.customize", "Tilpas"), markup.Href(routepath.Cookies), markup.Class("button button--link"))
		w.Close("form")
		w.Close("section")
	})
}

// CookiesPage renders the consent preferences form.
func CookiesPage(decision analytics.Decision, loc Localizer) templ.Component {
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("cookie-settings"))
		w.Element("h1", T(loc, "consent.page_title", "Cookieindstillinger"))
		w.Element("p", T(loc, "consent.page_intro", "Her kan du se og ændre dit samtykke til cookies på siden."))
		w.Open("p", markup.Class("cookie-settings__status"))
		w.Text(T(loc, "consent.status", "Status") + ": ")
		w.Element("strong", consentStatusLabel(decision.Consent, loc), markup.A("data-consent-status", consentAttr(decision.Consent)))
		w.Close("p")

		w.Open("form", markup.A("method", "post"), markup.A("action", routepath.Consent))
		w.Open("fieldset")
		category(w, "necessary", T(loc, "consent.necessary", "Nødvendige"), T(loc, "consent.necessary_desc", "Sørger for at siden fungerer og husker dine valg."), true, true)
		category(w, "statistics", T(loc, "consent.statistics", "Statistik"), T(loc, "consent.statistics_desc", "Hjælper os med at forstå hvordan siden bruges."), decision.Preferences.Statistics, false)
		category(w, "marketing", T(loc, "consent.marketing", "Markedsføring"), T(loc, "consent.marketing_desc", "Bruges til at måle effekten af vores annoncer."), decision.Preferences.Marketing, false)
		w.Close("fieldset")
		w.Open("div", markup.Class("cookie-settings__actions"))
		actionButton(w, analytics.ActionSave, T(loc, "consent.save", "Gem valg"), "button button--primary")
		actionButton(w, analytics.ActionAcceptAll, T(loc, "consent.accept_all", "Accepter alle"), "button button--secondary")
		actionButton(w, analytics.ActionRejectAll, T(loc, "consent.reject_all", "Afvis alle"), "button button--secondary")
		actionButton(w, analytics.ActionReset, T(loc, "consent.reset", "Nulstil samtykke"), "button button--link")
		w.Close("div")
		w.Close("form")
		w.Close("section")
	})
}

func actionButton(w *markup.Writer, action analytics.Action, label, class string) {
	w.Element("button", label,
		markup.A("type", "submit"),
		markup.A("name", "action"),
		markup.A("value", string(action)),
		markup.Class(class),
		markup.A("data-consent-action", string(action)),
	)
}

func category(w *markup.Writer, name, label, description string, checked, locked bool) {
	id := "consent-" + name
	w.Open("div", markup.Class("cookie-category"))
	w.Void("input",
		markup.A("type", "checkbox"),
		markup.A("id", id),
		markup.A("name", name),
		markup.A("value", "true"),
		markup.Bool("checked", checked),
		markup.Bool("disabled", locked),
	)
	w.Element("label", label, markup.A("for", id))
	w.Element("p", description)
	w.Close("div")
}

func consentStatusLabel(state analytics.ConsentState, loc Localizer) string {
	switch state {
	case analytics.ConsentGranted:
		return T(loc, "consent.status_granted", "Samtykke givet")
	case analytics.ConsentDenied:
		return T(loc, "consent.status_denied", "Samtykke afvist")
	default:
		return T(loc, "consent.status_unset", "Intet valg endnu")
	}
}
