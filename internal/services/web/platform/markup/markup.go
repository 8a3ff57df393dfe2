// Package markup writes escaped HTML for hand-built templ components.
package markup

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/icons"
)

// Attr is one HTML attribute. Omitted attributes are skipped when written.
type Attr struct {
	Name    string
	Value   string
	Boolean bool
	Omit    bool
}

// A returns a plain attribute.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Opt returns an attribute that is omitted when value is empty.
func Opt(name, value string) Attr {
	return Attr{Name: name, Value: value, Omit: value == ""}
}

// Class returns a class attribute, omitted when empty.
func Class(value string) Attr {
	return Opt("class", value)
}

// Href returns an href attribute with unsafe schemes neutralized.
func Href(url string) Attr {
	return Attr{Name: "href", Value: string(templ.URL(url))}
}

// Src returns a src attribute with unsafe schemes neutralized.
func Src(url string) Attr {
	return Attr{Name: "src", Value: string(templ.URL(url))}
}

// Bool returns a value-less attribute such as "hidden", present when on.
func Bool(name string, on bool) Attr {
	return Attr{Name: name, Boolean: true, Omit: !on}
}

// Data returns a data-* attribute holding v as JSON.
func Data(name string, v any) Attr {
	encoded, err := templ.JSONString(v)
	if err != nil {
		return Attr{Omit: true}
	}
	return Attr{Name: "data-" + name, Value: encoded}
}

// Writer writes HTML and keeps the first write error.
type Writer struct {
	w   io.Writer
	err error
}

// New wraps w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Raw writes s unescaped.
func (w *Writer) Raw(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Rawf formats and writes unescaped.
func (w *Writer) Rawf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Text writes escaped text.
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Open writes a start tag.
func (w *Writer) Open(tag string, attrs ...Attr) {
	w.Raw("<" + tag)
	w.attrs(attrs)
	w.Raw(">")
}

// Close writes an end tag.
func (w *Writer) Close(tag string) {
	w.Raw("</" + tag + ">")
}

// Void writes a self-contained element such as img or input.
func (w *Writer) Void(tag string, attrs ...Attr) {
	w.Open(tag, attrs...)
}

// Element writes tag wrapping escaped text.
func (w *Writer) Element(tag, text string, attrs ...Attr) {
	w.Open(tag, attrs...)
	w.Text(text)
	w.Close(tag)
}

// OptElement writes Element only when text is non-empty.
func (w *Writer) OptElement(tag, text string, attrs ...Attr) {
	if text == "" {
		return
	}
	w.Element(tag, text, attrs...)
}

// Icon writes an inline reference to a Lucide sprite symbol. Unknown names
// render the default icon.
func (w *Writer) Icon(name string) {
	resolved := icons.LucideNameOrDefault(name)
	w.Open("svg", Class("icon"), A("data-icon", resolved), A("aria-hidden", "true"), A("focusable", "false"))
	w.Open("use", Href("#"+icons.LucideSymbolID(resolved)))
	w.Close("use")
	w.Close("svg")
}

// Component renders c in place.
func (w *Writer) Component(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func (w *Writer) attrs(attrs []Attr) {
	for _, attr := range attrs {
		if attr.Omit || attr.Name == "" {
			continue
		}
		if attr.Boolean {
			w.Raw(" " + attr.Name)
			continue
		}
		w.Raw(" " + attr.Name + `="` + templ.EscapeString(attr.Value) + `"`)
	}
}

// Func adapts a writer callback to a templ component.
func Func(fn func(ctx context.Context, w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := New(out)
		fn(ctx, w)
		return w.Err()
	})
}

// Render renders c to a string, for tests and inline composition.
func Render(ctx context.Context, c templ.Component) (string, error) {
	html, err := templ.ToGoHTML(ctx, c)
	return string(html), err
}
