package templates

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
)

// AnalyticsScripts renders the third party tags the visitor consented to.
// Page views are sent by the site script so gtag is configured without them.
func AnalyticsScripts(scripts analytics.Scripts) templ.Component {
	if !scripts.Any() {
		return templ.NopComponent
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		if scripts.GoogleAnalytics {
			id := jsString(scripts.MeasurementID)
			config := map[string]any{"send_page_view": false}
			if len(scripts.LinkerDomains) > 0 {
				config["linker"] = map[string]any{"domains": scripts.LinkerDomains}
			}
			w.Open("script", markup.Bool("async", true), markup.Src("https://www.googletagmanager.com/gtag/js?id="+url.QueryEscape(scripts.MeasurementID)))
			w.Close("script")
			w.Open("script", markup.A("data-analytics-tag", "gtag"))
			w.Raw("window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());")
			w.Rawf("gtag('config',%s,%s);", id, jsValue(config))
			w.Close("script")
		}
		if scripts.MetaPixelID != "" {
			w.Open("script", markup.A("data-analytics-tag", "meta"))
			w.Raw("!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};" +
				"if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;" +
				"s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');")
			w.Rawf("fbq('init',%s);fbq('track','PageView');", jsString(scripts.MetaPixelID))
			w.Close("script")
		}
		if scripts.LinkedInID != "" {
			w.Open("script", markup.A("data-analytics-tag", "linkedin"))
			w.Rawf("window._linkedin_partner_id=%s;window._linkedin_data_partner_ids=window._linkedin_data_partner_ids||[];", jsString(scripts.LinkedInID))
			w.Raw("window._linkedin_data_partner_ids.push(window._linkedin_partner_id);")
			w.Raw("(function(l){if(!l){window.lintrk=function(a,b){window.lintrk.q.push([a,b])};window.lintrk.q=[]}" +
				"var s=document.getElementsByTagName('script')[0];var b=document.createElement('script');b.type='text/javascript';b.async=true;" +
				"b.src='https://snap.licdn.com/li.lms-analytics/insight.min.js';s.parentNode.insertBefore(b,s);})(window.lintrk);")
			w.Close("script")
		}
	})
}

// jsString encodes s as a JavaScript string literal safe inside a script element.
func jsString(s string) string {
	return jsValue(s)
}

func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
