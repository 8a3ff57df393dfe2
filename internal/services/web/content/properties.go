package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Properties is the raw property bag of a node or element. Accessors return
// zero values for missing or malformed properties.
type Properties map[string]json.RawMessage

// Has reports whether key is present and not null.
func (p Properties) Has(key string) bool {
	raw, ok := p[key]
	return ok && string(raw) != "null"
}

// String returns a string property. Numbers and booleans are formatted.
func (p Properties) String(key string) string {
	raw, ok := p[key]
	if !ok {
		return ""
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Bool returns true only for a JSON true value.
func (p Properties) Bool(key string) bool {
	var value bool
	return decode(p, key, &value) && value
}

// Int returns an integer property, accepting numeric strings.
func (p Properties) Int(key string) int {
	var number float64
	if decode(p, key, &number) {
		return int(number)
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.String(key)))
	if err != nil {
		return 0
	}
	return n
}

// Strings returns a string list property.
func (p Properties) Strings(key string) []string {
	var values []string
	decode(p, key, &values)
	return values
}

// RichText returns a rich text property.
func (p Properties) RichText(key string) RichText {
	var value RichText
	decode(p, key, &value)
	return value
}

// Media returns a media picker property.
func (p Properties) Media(key string) []Media {
	var value []Media
	decode(p, key, &value)
	return value
}

// FirstMedia returns the first media entry of key. A single media object is
// accepted as well as a list.
func (p Properties) FirstMedia(key string) (Media, bool) {
	if media := p.Media(key); len(media) > 0 {
		return media[0], true
	}
	var single Media
	if decode(p, key, &single) && single.URL != "" {
		return single, true
	}
	return Media{}, false
}

// Links returns a link picker property.
func (p Properties) Links(key string) []Link {
	var value []Link
	decode(p, key, &value)
	return value
}

// BlockList returns a block list property.
func (p Properties) BlockList(key string) BlockList {
	var value BlockList
	decode(p, key, &value)
	return value
}

// BlockGrid returns a block grid property.
func (p Properties) BlockGrid(key string) BlockGrid {
	var value BlockGrid
	decode(p, key, &value)
	return value
}

// ContentList returns expanded content references such as "navigations".
func (p Properties) ContentList(key string) []Content {
	var value []Content
	decode(p, key, &value)
	return value
}

func decode(p Properties, key string, target any) bool {
	raw, ok := p[key]
	if !ok || len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
