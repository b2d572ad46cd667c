package services

import (
	"fmt"
	"time"

	"botops-svc/app/clients"
	"botops-svc/app/domains"
)

// IngestService handles everything bots report back: status updates, log
// entries, chat messages and data syncs. Each ingestion updates the relevant
// store and broadcasts the matching event; none of it touches command flow.
type IngestService struct {
	bots      clients.BotStore
	logs      clients.EventSink
	messages  clients.MessageSink
	publisher clients.Publisher
}

// NewIngestService creates a new ingest service.
func NewIngestService(bots clients.BotStore, logs clients.EventSink, messages clients.MessageSink, publisher clients.Publisher) *IngestService {
	return &IngestService{
		bots:      bots,
		logs:      logs,
		messages:  messages,
		publisher: publisher,
	}
}

// RegisterBot upserts the bot record with status online and announces it.
func (s *IngestService) RegisterBot(botID, name, status string, metadata map[string]interface{}) (domains.Bot, error) {
	if botID == "" {
		return domains.Bot{}, fmt.Errorf("bot_id is required")
	}
	if status == "" {
		status = domains.BotStatusOnline
	}

	bot := s.bots.UpsertStatus(botID, name, status, metadata)
	s.publisher.Publish(domains.EventBotUpdate, map[string]interface{}{
		"action": "register",
		"bot":    bot,
	})
	s.AddLog("event", fmt.Sprintf("Bot registered: %s", botID), map[string]interface{}{"bot_id": botID}, botID)
	return bot, nil
}

// ReportStatus records a status report, merging the metadata patch into the
// stored record, and broadcasts the update.
func (s *IngestService) ReportStatus(botID, status string, metadata map[string]interface{}) (domains.Bot, error) {
	if botID == "" {
		return domains.Bot{}, fmt.Errorf("bot_id is required")
	}
	if status == "" {
		status = domains.BotStatusUnknown
	}

	bot := s.bots.UpsertStatus(botID, "", status, metadata)
	update := map[string]interface{}{
		"action": "status_update",
		"bot_id": botID,
		"status": status,
		"data":   metadata,
	}
	s.publisher.Publish(domains.EventBotUpdate, update)
	s.AddLog("event", fmt.Sprintf("Bot %s status: %s", botID, status), update, botID)
	return bot, nil
}

// SyncData stores a bot's uploaded data blob and broadcasts the sync.
func (s *IngestService) SyncData(botID string, data map[string]interface{}) (domains.BotData, error) {
	if botID == "" {
		return domains.BotData{}, fmt.Errorf("bot_id is required")
	}

	stored := s.bots.UpsertData(botID, data)
	s.publisher.Publish(domains.EventBotDataSync, map[string]interface{}{
		"bot_id": botID,
		"data":   stored.Data,
	})
	s.AddLog("event", fmt.Sprintf("Bot %s synced data", botID), map[string]interface{}{"bot_id": botID}, botID)
	return stored, nil
}

// AddLog appends a log entry to the bounded log and broadcasts it.
func (s *IngestService) AddLog(logType, message string, metadata map[string]interface{}, botID string) domains.LogEntry {
	entry := domains.LogEntry{
		Type:      logType,
		Message:   message,
		Metadata:  metadata,
		BotID:     botID,
		Timestamp: time.Now().UTC(),
	}
	s.logs.Append(entry)
	s.publisher.Publish(domains.EventNewLog, entry)
	return entry
}

// AddMessage appends a chat message to the message ring, broadcasts it, and
// mirrors it into the log so message traffic shows up in log queries too.
func (s *IngestService) AddMessage(msg domains.Message) domains.Message {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.messages.Append(msg)
	s.publisher.Publish(domains.EventNewMessage, msg)

	logMeta := map[string]interface{}{
		"author_id":   msg.AuthorID,
		"author_name": msg.AuthorName,
		"thread_id":   msg.ThreadID,
		"thread_type": msg.ThreadType,
	}
	for k, v := range msg.Metadata {
		logMeta[k] = v
	}
	s.AddLog("message", msg.Message, logMeta, msg.BotID)
	return msg
}

// QueryLogs returns the most recent log entries, optionally per bot.
func (s *IngestService) QueryLogs(botID string, limit int) []domains.LogEntry {
	if limit <= 0 {
		limit = 100
	}
	return s.logs.Query(botID, limit)
}

// QueryMessages returns the most recent messages, optionally per bot.
func (s *IngestService) QueryMessages(botID string, limit int) []domains.Message {
	if limit <= 0 {
		limit = 100
	}
	return s.messages.Query(botID, limit)
}
