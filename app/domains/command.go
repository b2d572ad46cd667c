package domains

import "time"

// CommandState is the lifecycle state of a command.
type CommandState string

const (
	CommandPending    CommandState = "pending"
	CommandDispatched CommandState = "dispatched"
	CommandCompleted  CommandState = "completed"
	CommandFailed     CommandState = "failed"
)

// Terminal reports whether the state is a terminal one.
func (s CommandState) Terminal() bool {
	return s == CommandCompleted || s == CommandFailed
}

// Command origins.
const (
	OriginAPI      = "api"
	OriginSocket   = "socket"
	OriginInternal = "internal"
)

// Command represents one instruction destined for exactly one bot.
// ID, BotID, Type, Payload, Origin and CreatedAt never change after creation;
// only State, DispatchedAt, Result and CompletedAt mutate, and only through
// the command table.
type Command struct {
	ID           string                 `json:"id"`
	BotID        string                 `json:"bot_id"`
	Type         string                 `json:"type"`
	Payload      map[string]interface{} `json:"payload"`
	State        CommandState           `json:"status"`
	Origin       string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	DispatchedAt *time.Time             `json:"dispatched_at,omitempty"`
	Result       map[string]interface{} `json:"result,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
}
