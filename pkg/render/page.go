package render

import (
	"io"

	"github.com/contractflow/dashboard/pkg/vdom"
)

// PageData describes the shell document served to the browser.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// DarkMode adds the dark-mode class to <body>.
	DarkMode bool

	// Styles is inline CSS placed in <head>.
	Styles string

	// ClientScript is the path of the page-session client script.
	ClientScript string

	// Body is the initial content of the application container.
	Body *vdom.VNode
}

// RenderPage writes a complete HTML document. The application container is
// <div id="app"> holding Body.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.Title(vdom.Text(page.Title)),
		vdom.If(page.Styles != "", vdom.Style(vdom.Text(page.Styles))),
	)

	body := vdom.Body(
		vdom.ClassIf(page.DarkMode, "dark-mode"),
		vdom.Div(vdom.ID("app"), page.Body),
		vdom.If(page.ClientScript != "", vdom.Script(vdom.Src(page.ClientScript), vdom.Defer_())),
	)

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, vdom.Html(vdom.Lang(lang), head, body))
}
