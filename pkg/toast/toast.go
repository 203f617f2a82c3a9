package toast

// EventName is the event name under which toasts are emitted.
const EventName = "toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast is the payload emitted for one notification.
type Toast struct {
	Level   Type   `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Emitter delivers named events to the browser.
type Emitter interface {
	Emit(event string, data any)
}

// EmitterFunc is a function adapter for Emitter.
type EmitterFunc func(event string, data any)

// Emit implements Emitter.
func (f EmitterFunc) Emit(event string, data any) {
	f(event, data)
}

// Show displays a toast notification. A nil emitter drops it.
func Show(e Emitter, level Type, message string) {
	emit(e, Toast{Level: level, Message: message})
}

// Success shows a success toast.
//
//	toast.Success(e, "Changes saved!")
func Success(e Emitter, message string) {
	Show(e, TypeSuccess, message)
}

// Error shows an error toast.
func Error(e Emitter, message string) {
	Show(e, TypeError, message)
}

// Warning shows a warning toast.
func Warning(e Emitter, message string) {
	Show(e, TypeWarning, message)
}

// Info shows an info toast.
func Info(e Emitter, message string) {
	Show(e, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
//
//	toast.WithTitle(e, toast.TypeSuccess, "Settings", "Your changes have been saved.")
func WithTitle(e Emitter, level Type, title, message string) {
	emit(e, Toast{Level: level, Title: title, Message: message})
}

func emit(e Emitter, t Toast) {
	if e == nil {
		return
	}
	if t.Level == "" {
		t.Level = TypeInfo
	}
	e.Emit(EventName, t)
}
