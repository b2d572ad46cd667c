package clients

import (
	"errors"

	"botops-svc/app/domains"
)

// ErrNotFound is the miss condition for command and bot lookups. It is a
// result value, not a failure: handlers map it to a 404 response.
var ErrNotFound = errors.New("not found")

// CommandStore is the authoritative store of all in-flight and historical
// commands, indexed by bot and by command ID.
type CommandStore interface {
	Create(botID, commandType string, payload map[string]interface{}, origin string) domains.Command
	PollPending(botID string, limit int) []domains.Command
	Acknowledge(commandID string, status domains.CommandState, result map[string]interface{}) (domains.Command, error)
	Get(commandID string) (domains.Command, error)
	ListByBot(botID string) []domains.Command
	ListAll() []domains.Command
}

// BotStore tracks last-known bot status, metadata and synced data.
type BotStore interface {
	UpsertStatus(botID, name, status string, metadataPatch map[string]interface{}) domains.Bot
	UpsertData(botID string, data map[string]interface{}) domains.BotData
	Get(botID string) (domains.Bot, error)
	Data(botID string) (domains.BotData, error)
	List() []domains.Bot
}

// EventSink receives bounded-log appends.
type EventSink interface {
	Append(entry domains.LogEntry)
	Query(botID string, limit int) []domains.LogEntry
	Len() int
}

// MessageSink receives chat-style messages.
type MessageSink interface {
	Append(msg domains.Message)
	Query(botID string, limit int) []domains.Message
	Len() int
}

// Publisher enqueues an event for fan-out to live observers. Enqueueing is
// best-effort: a saturated queue drops the event rather than blocking the
// producer.
type Publisher interface {
	Publish(kind string, payload interface{})
}

// TokenIssuer is the authentication collaborator. Token verification decides
// which bot a caller speaks for; the core trusts the result.
type TokenIssuer interface {
	Issue(botID string) (string, error)
	Verify(token string) (string, error)
}
