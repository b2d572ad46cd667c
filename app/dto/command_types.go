package dto

// SendMessage asks a bot to deliver a message to a thread.
type SendMessage struct {
	Text       string `json:"text" validate:"required"`
	ThreadID   string `json:"thread_id,omitempty"`
	ThreadType string `json:"thread_type,omitempty"`
}

// Restart asks a bot to restart itself.
type Restart struct {
	DelaySec int `json:"delay_sec,omitempty" validate:"omitempty,min=0"`
}

// Stop asks a bot to shut down.
type Stop struct {
	Reason string `json:"reason,omitempty"`
}

// CommandRegistry maps well-known command types to payload schemas. Types
// not listed here pass through unvalidated: command types are free-form and
// the core never interprets payloads, so the registry is a courtesy check at
// the API edge, not a gate.
var CommandRegistry = map[string]interface{}{
	"send_message": SendMessage{},
	"restart":      Restart{},
	"stop":         Stop{},
}
