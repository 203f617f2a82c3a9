// Package app assembles a ContractFlow page session: the state store, auth
// manager, hash router and component registry for one browser, plus the
// route table and the form actions the page can send.
//
// A session is driven from two sides. Location changes are handled one at a
// time by Session.Run; actions arrive through Session.Dispatch on whatever
// goroutine the transport uses and reach the router only by changing the
// location.
package app
