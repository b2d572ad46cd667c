package domains

import "time"

// Broadcast event kinds, one per observer-facing notification.
const (
	EventNewCommand    = "new_command"
	EventCommandUpdate = "command_update"
	EventNewLog        = "new_log"
	EventNewMessage    = "new_message"
	EventBotUpdate     = "bot_update"
	EventBotDataSync   = "bot_data_sync"
	EventConnected     = "connection_established"
	EventMessageSent   = "message_sent"
	EventError         = "error"
)

// Event is one record pushed to live observers. Events are immutable once
// created.
type Event struct {
	Kind      string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// LogEntry is one entry in the bounded log ring. BotID is optional; entries
// not tied to a bot carry an empty one.
type LogEntry struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	BotID     string                 `json:"bot_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Message is one chat-style message reported by a bot.
type Message struct {
	BotID      string                 `json:"bot_id"`
	Message    string                 `json:"message"`
	AuthorID   string                 `json:"author_id,omitempty"`
	AuthorName string                 `json:"author_name,omitempty"`
	ThreadID   string                 `json:"thread_id,omitempty"`
	ThreadType string                 `json:"thread_type,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}
