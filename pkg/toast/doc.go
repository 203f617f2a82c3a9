// Package toast sends transient notifications to the browser of a page
// session.
//
// Toasts go through an Emitter, which the server implements per connection:
//
//	toast.Success(session, "Contract created successfully")
//	toast.Error(session, "Please fill in all required fields")
//
// The browser receives a "toast" message carrying the level, optional title
// and message, and shows it for a few seconds.
package toast
