package dto

// RegisterBotRequest represents bot registration.
type RegisterBotRequest struct {
	BotID    string                 `json:"bot_id" validate:"required"`
	Name     string                 `json:"name,omitempty"`
	Status   string                 `json:"status,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// StatusReportRequest represents a bot status report. Data is a metadata
// patch merged into the stored record.
type StatusReportRequest struct {
	Status string                 `json:"status" validate:"required"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// SubmitCommandRequest represents operator command submission.
type SubmitCommandRequest struct {
	BotID   string                 `json:"bot_id" validate:"required"`
	Type    string                 `json:"type" validate:"required"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// AckCommandRequest represents a bot acknowledging a dispatched command.
type AckCommandRequest struct {
	Status string                 `json:"status,omitempty" validate:"omitempty,oneof=completed failed"`
	Result map[string]interface{} `json:"result,omitempty"`
}

// LogEntryRequest represents one log entry pushed by a bot. Bots may post a
// single entry or a batch.
type LogEntryRequest struct {
	Type     string                 `json:"type,omitempty"`
	Message  string                 `json:"message" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MessageRequest represents a chat-style message reported by a bot.
type MessageRequest struct {
	Message    string                 `json:"message" validate:"required"`
	AuthorID   string                 `json:"author_id,omitempty"`
	AuthorName string                 `json:"author_name,omitempty"`
	ThreadID   string                 `json:"thread_id,omitempty"`
	ThreadType string                 `json:"thread_type,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SyncDataRequest represents a bot data sync upload. The blob is opaque to
// the core.
type SyncDataRequest struct {
	Data map[string]interface{} `json:"data" validate:"required"`
}

// SocketSendMessageRequest is a send_message command submitted over the live
// event stream instead of the HTTP API.
type SocketSendMessageRequest struct {
	BotID      string `json:"bot_id" validate:"required"`
	Text       string `json:"text" validate:"required"`
	ThreadID   string `json:"thread_id,omitempty"`
	ThreadType string `json:"thread_type,omitempty"`
}
