package analytics

import (
	"encoding/json"
	"strings"
)

// ConsentState is the visitor's analytics consent choice.
type ConsentState string

const (
	ConsentUnset   ConsentState = ""
	ConsentGranted ConsentState = "granted"
	ConsentDenied  ConsentState = "denied"
)

// ParseConsent accepts only "granted" and "denied"; anything else is unset.
func ParseConsent(value string) ConsentState {
	switch ConsentState(strings.TrimSpace(value)) {
	case ConsentGranted:
		return ConsentGranted
	case ConsentDenied:
		return ConsentDenied
	default:
		return ConsentUnset
	}
}

// CookiePreferences are the per-category cookie choices.
type CookiePreferences struct {
	Statistics bool `json:"statistics"`
	Marketing  bool `json:"marketing"`
}

// DefaultPreferences denies every optional category.
var DefaultPreferences = CookiePreferences{}

// ParsePreferences decodes serialized preferences. Blank or malformed input
// yields the defaults and false.
func ParsePreferences(serialized string) (CookiePreferences, bool) {
	if strings.TrimSpace(serialized) == "" {
		return DefaultPreferences, false
	}
	var raw struct {
		Statistics any `json:"statistics"`
		Marketing  any `json:"marketing"`
	}
	if err := json.Unmarshal([]byte(serialized), &raw); err != nil {
		return DefaultPreferences, false
	}
	return CookiePreferences{Statistics: truthy(raw.Statistics), Marketing: truthy(raw.Marketing)}, true
}

// Encode serializes preferences as compact JSON.
func (p CookiePreferences) Encode() string {
	data, _ := json.Marshal(p)
	return string(data)
}

// Decision is the visitor's effective consent.
type Decision struct {
	Consent     ConsentState
	Preferences CookiePreferences
}

// Resolve combines the stored consent with stored preferences. A stored
// grant always implies statistics.
func Resolve(consent ConsentState, prefs CookiePreferences) Decision {
	if consent == ConsentGranted {
		prefs.Statistics = true
	}
	return Decision{Consent: consent, Preferences: prefs}
}

// BannerVisible reports whether the visitor still has to choose.
func (d Decision) BannerVisible() bool {
	return d.Consent == ConsentUnset
}

// Action is a consent transition requested by the visitor.
type Action string

const (
	ActionAcceptAll Action = "accept-all"
	ActionRejectAll Action = "reject-all"
	ActionSave      Action = "save"
	ActionReset     Action = "reset"
)

// ParseAction returns the action named by value.
func ParseAction(value string) (Action, bool) {
	switch action := Action(strings.TrimSpace(value)); action {
	case ActionAcceptAll, ActionRejectAll, ActionSave, ActionReset:
		return action, true
	default:
		return "", false
	}
}

// Apply returns the decision that results from action. chosen is only used
// by ActionSave.
func Apply(action Action, chosen CookiePreferences) Decision {
	switch action {
	case ActionAcceptAll:
		return Decision{Consent: ConsentGranted, Preferences: CookiePreferences{Statistics: true, Marketing: true}}
	case ActionRejectAll:
		return Decision{Consent: ConsentDenied}
	case ActionSave:
		if chosen.Statistics {
			return Decision{Consent: ConsentGranted, Preferences: chosen}
		}
		return Decision{Consent: ConsentDenied, Preferences: chosen}
	default:
		return Decision{Consent: ConsentUnset}
	}
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	default:
		return true
	}
}
