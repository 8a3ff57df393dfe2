package blocks

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/branding"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// FooterData is the clinic contact information shown in the footer.
type FooterData struct {
	Address     string
	PostalCode  string
	City        string
	Email       string
	Phone       string
	CVR         string
	Services    []content.NavigationItem
	QuickLinks  []content.Link
	Hours       []OpeningHours
	PolicyLinks []content.Link
	Year        int
}

// OpeningHours is one "day / time" row.
type OpeningHours struct {
	Day  string
	Time string
}

var hoursSeparator = regexp.MustCompile(`\r?\n|,`)

// FooterFromProperties reads footer data from a start node or footer block.
// Extended working hours ("day##time" entries) take precedence over the
// plain workingHours text.
func FooterFromProperties(p content.Properties) FooterData {
	data := FooterData{
		Address:     p.String("address"),
		PostalCode:  p.String("postalCode"),
		City:        p.String("city"),
		Email:       p.String("email"),
		Phone:       p.String("phoneNumber"),
		CVR:         p.String("cvr"),
		QuickLinks:  p.Links("quickLinks"),
		PolicyLinks: p.Links("policyLinks"),
	}
	for _, service := range p.ContentList("services") {
		data.Services = append(data.Services, content.NavigationItem{ID: service.ID, Label: service.Name, Href: service.Route.Path})
	}
	entries := p.Strings("workingHoursExtended")
	if len(entries) == 0 {
		if plain := strings.TrimSpace(p.String("workingHours")); plain != "" {
			entries = hoursSeparator.Split(plain, -1)
		}
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		day, hours, _ := strings.Cut(entry, "##")
		data.Hours = append(data.Hours, OpeningHours{Day: strings.TrimSpace(day), Time: strings.TrimSpace(hours)})
	}
	return data
}

// Footer renders the site footer.
func (d *Dispatcher) Footer(data FooterData) templ.Component {
	year := data.Year
	if year == 0 {
		year = time.Now().Year()
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("footer", markup.Class("site-footer"))
		w.Open("div", markup.Class("site-footer__columns"))

		w.Open("section", markup.A("aria-labelledby", "footer-contact"))
		w.Element("h2", d.text("site.footer_contact", "Kontakt"), markup.A("id", "footer-contact"))
		w.Open("address")
		location := strings.TrimSpace(strings.Join([]string{data.Address, data.PostalCode, data.City}, " "))
		if location != "" {
			w.Open("p")
			w.Icon("map-pin")
			w.Text(location)
			w.Close("p")
		}
		if data.Phone != "" {
			w.Open("p")
			w.Icon("phone")
			w.Element("a", data.Phone, markup.Href("tel:"+strings.ReplaceAll(data.Phone, " ", "")))
			w.Close("p")
		}
		if data.Email != "" {
			w.Open("p")
			w.Icon("mail")
			w.Element("a", data.Email, markup.Href("mailto:"+data.Email))
			w.Close("p")
		}
		if data.CVR != "" {
			w.Element("p", d.text("site.footer_cvr", "CVR")+": "+data.CVR)
		}
		w.Close("address")
		w.Close("section")

		if len(data.Services) > 0 {
			w.Open("nav", markup.A("aria-label", d.text("site.footer_services", "Behandlinger")))
			w.Element("h2", d.text("site.footer_services", "Behandlinger"))
			w.Open("ul")
			for _, service := range data.Services {
				href := service.Href
				if href == "" {
					href = "#"
				}
				w.Open("li")
				w.Element("a", service.Label, markup.Href(href))
				w.Close("li")
			}
			w.Close("ul")
			w.Close("nav")
		}

		if len(data.QuickLinks) > 0 {
			w.Open("nav", markup.A("aria-label", d.text("site.footer_links", "Mere information")))
			w.Element("h2", d.text("site.footer_links", "Mere information"))
			w.Open("ul")
			for _, link := range data.QuickLinks {
				w.Open("li")
				d.link(w, link, "", "", "footer")
				w.Close("li")
			}
			w.Close("ul")
			w.Close("nav")
		}

		w.Open("section")
		w.Element("h2", d.text("site.footer_opening_hours", "Åbningstider"))
		w.Open("ul", markup.Class("opening-hours"))
		if len(data.Hours) == 0 {
			w.Element("li", d.text("site.footer_no_opening_hours", "Ingen åbningstider tilgængelige"))
		}
		for _, row := range data.Hours {
			w.Open("li")
			w.Element("span", row.Day)
			w.Raw(" ")
			w.Element("span", row.Time)
			w.Close("li")
		}
		w.Close("ul")
		w.Close("section")

		w.Close("div")

		w.Open("div", markup.Class("site-footer__bottom"))
		w.Element("p", "© "+strconv.Itoa(year)+" "+branding.LegalName+" | "+d.text("site.footer_rights", "Alle rettigheder forbeholdes"))
		w.Open("ul", markup.Class("policy-links"))
		for _, link := range data.PolicyLinks {
			w.Open("li")
			d.link(w, link, "", "", "footer")
			w.Close("li")
		}
		w.Open("li")
		w.Element("a", d.text("site.footer_cookies", "Cookieindstillinger"), markup.Href(routepath.Cookies))
		w.Close("li")
		w.Close("ul")
		w.Close("div")

		w.Close("footer")
	})
}
