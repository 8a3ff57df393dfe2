package consent

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/consentcookie"
	apperrors "github.com/uslusolutions/clinicweb/internal/services/web/platform/errors"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/weberror"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
	"github.com/uslusolutions/clinicweb/internal/services/web/templates"
)

const maxBodyBytes = 8 << 10

type handlers struct {
	renderer *pagerender.Renderer
}

// State is the consent JSON representation.
type State struct {
	Consent       string                      `json:"consent"`
	Preferences   analytics.CookiePreferences `json:"preferences"`
	BannerVisible bool                        `json:"bannerVisible"`
}

func stateOf(decision analytics.Decision) State {
	consent := string(decision.Consent)
	if decision.Consent == analytics.ConsentUnset {
		consent = "unset"
	}
	return State{Consent: consent, Preferences: decision.Preferences, BannerVisible: decision.BannerVisible()}
}

type updateRequest struct {
	Action     string `json:"action"`
	Statistics bool   `json:"statistics"`
	Marketing  bool   `json:"marketing"`
}

func (h handlers) handleState(w http.ResponseWriter, r *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, stateOf(consentcookie.Read(r)))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	wantsJSON := httpx.WantsJSON(r)
	update, err := readUpdate(w, r)
	if err != nil {
		h.writeError(w, r, wantsJSON, err)
		return
	}
	action, ok := analytics.ParseAction(update.Action)
	if !ok {
		h.writeError(w, r, wantsJSON, apperrors.E(apperrors.KindInvalidInput, "unknown consent action"))
		return
	}
	decision := analytics.Apply(action, analytics.CookiePreferences{Statistics: update.Statistics, Marketing: update.Marketing})
	consentcookie.Write(w, r, h.renderer.Scheme, decision)
	log.Printf("consent: action=%s consent=%s", action, stateOf(decision).Consent)

	if wantsJSON {
		_ = httpx.WriteJSON(w, http.StatusOK, stateOf(analytics.Resolve(decision.Consent, decision.Preferences)))
		return
	}
	target := requestmeta.SameOriginReferer(r, h.renderer.Scheme)
	if target == "" {
		target = routepath.Root
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h handlers) handleCookiesPage(w http.ResponseWriter, r *http.Request) {
	view := h.renderer.NewView(w, r, nil)
	title := templates.T(view.Loc, "consent.page_title", "Cookieindstillinger")
	if err := view.Write(w, http.StatusOK, title, templates.CookiesPage(view.Decision, view.Loc)); err != nil {
		log.Printf("consent: render cookies page err=%v", err)
		weberror.WriteAppError(w, r, http.StatusInternalServerError, h.renderer)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, wantsJSON bool, err error) {
	if wantsJSON {
		_ = httpx.WriteAppError(w, err, "invalid consent request")
		return
	}
	weberror.WriteModuleError(w, r, err, h.renderer)
}

func readUpdate(w http.ResponseWriter, r *http.Request) (updateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		var update updateRequest
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			return updateRequest{}, apperrors.Wrap(apperrors.KindInvalidInput, "invalid consent payload", err)
		}
		return update, nil
	}
	if err := r.ParseForm(); err != nil {
		return updateRequest{}, apperrors.Wrap(apperrors.KindInvalidInput, "invalid consent form", err)
	}
	return updateRequest{
		Action:     r.PostFormValue("action"),
		Statistics: checked(r.PostFormValue("statistics")),
		Marketing:  checked(r.PostFormValue("marketing")),
	}, nil
}

func checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off":
		return false
	default:
		return true
	}
}
