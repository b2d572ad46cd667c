package dto

import "botops-svc/app/domains"

// RegisterBotResponse carries the stored record plus the bot's access token.
type RegisterBotResponse struct {
	Status    string      `json:"status"`
	Bot       domains.Bot `json:"bot"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
}

// BotStatusResponse is returned after a status report.
type BotStatusResponse struct {
	Status string      `json:"status"`
	Bot    domains.Bot `json:"bot"`
}

// ListBotsResponse lists all known bots.
type ListBotsResponse struct {
	Bots  []domains.Bot `json:"bots"`
	Count int           `json:"count"`
}

// SubmitCommandResponse is returned on command submission.
type SubmitCommandResponse struct {
	Status  string          `json:"status"`
	Command domains.Command `json:"command"`
}

// CommandListResponse carries a command snapshot list.
type CommandListResponse struct {
	Commands []domains.Command `json:"commands"`
	Count    int               `json:"count"`
}

// AckCommandResponse is returned on acknowledgement.
type AckCommandResponse struct {
	Status  string          `json:"status"`
	Command domains.Command `json:"command"`
}

// LogsResponse carries a log ring query result.
type LogsResponse struct {
	Logs  []domains.LogEntry `json:"logs"`
	Count int                `json:"count"`
}

// IngestResponse acknowledges a batch ingestion.
type IngestResponse struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
}

// MessagesResponse carries a message ring query result.
type MessagesResponse struct {
	Messages []domains.Message `json:"messages"`
	Count    int               `json:"count"`
}

// SyncDataResponse acknowledges a data sync.
type SyncDataResponse struct {
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}
