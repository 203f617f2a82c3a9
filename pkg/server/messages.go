package server

// Client message types.
const (
	MsgHashChange = "hashchange"
	MsgAction     = "action"
)

// Server message types.
const (
	MsgMount    = "mount"
	MsgNavigate = "navigate"
	MsgToast    = "toast"
	MsgState    = "state"
)

// ClientMessage is a JSON message sent by the browser.
//
//	{"type":"hashchange","hash":"/contracts?page=2"}
//	{"type":"action","name":"login","fields":{"email":"admin@example.com"}}
type ClientMessage struct {
	Type   string            `json:"type"`
	Hash   string            `json:"hash,omitempty"`
	Name   string            `json:"name,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ServerMessage is a JSON message pushed to the browser. Only the fields
// of its Type are set.
type ServerMessage struct {
	Type string `json:"type"`

	// mount
	HTML string `json:"html,omitempty"`

	// navigate
	Hash string `json:"hash,omitempty"`

	// toast
	Level   string `json:"level,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`

	// state
	Key      string `json:"key,omitempty"`
	DarkMode *bool  `json:"darkMode,omitempty"`
}
