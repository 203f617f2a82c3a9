// Package server hosts ContractFlow page sessions over HTTP and WebSocket.
//
// GET / serves the document shell and issues the contractflow_client
// cookie. The embedded client script then opens /ws?hash=<fragment>, and
// the server starts an app.Session whose local storage is the shared
// backend scoped to that client id. From then on the browser reports
// location changes and form actions, and the server pushes rendered HTML,
// navigations, toasts and dark-mode state:
//
//	client → server   {"type":"hashchange","hash":"/contracts"}
//	                  {"type":"action","name":"login","fields":{...}}
//	server → client   {"type":"mount","html":"..."}
//	                  {"type":"navigate","hash":"/login?redirect=%2F"}
//	                  {"type":"toast","level":"success","message":"..."}
//	                  {"type":"state","key":"darkMode","darkMode":true}
//
// Each connection has exactly one writer goroutine; everything else queues
// messages to it.
//
// # Usage
//
//	srv := server.New(app.New(app.Config{}), storage.NewMemory(), nil)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
