// Package vdom provides the view node tree mounted by page sessions.
//
// A VNode is an element, text, fragment or raw HTML node. Props holds the
// element's attributes. Views are built either with the element and
// attribute builders:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Contracts")),
//	    P(Text("Nothing here yet")),
//	)
//
// or by parsing markup with ParseMarkup, which yields the same node kinds so
// that both forms mount and render identically.
//
// Walk, FindByID and TextContent inspect a mounted tree; tests use them to
// assert on what a page shows without string matching on HTML.
package vdom
