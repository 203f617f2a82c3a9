// Package render converts view node trees into HTML.
//
// A page session renders its mounted container to a string and ships it to
// the browser; the server renders the shell document once per page load.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// All text content and attribute values are escaped. KindRaw nodes and the
// contents of <script> and <style> are written verbatim and must only carry
// trusted content.
package render
