package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"botops-svc/app/clients"
	"botops-svc/app/domains"
	"botops-svc/app/dto"
	"botops-svc/app/services"
	"botops-svc/app/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler handles log and message ingestion, queries, stats and exports
type EventHandler struct {
	ingest *services.IngestService
	stats  *services.StatsService
	bots   clients.BotStore
	tokens clients.TokenIssuer
}

// NewEventHandler creates a new event handler
func NewEventHandler(ingest *services.IngestService, stats *services.StatsService, bots clients.BotStore, tokens clients.TokenIssuer) *EventHandler {
	return &EventHandler{
		ingest: ingest,
		stats:  stats,
		bots:   bots,
		tokens: tokens,
	}
}

// GetLogs handles querying the bounded log
func (h *EventHandler) GetLogs(c *gin.Context) {
	logs := h.ingest.QueryLogs(c.Query("bot_id"), queryLimit(c, 100))
	respondJSON(c, http.StatusOK, dto.LogsResponse{Logs: logs, Count: len(logs)})
}

// PushLogs handles log ingestion from a bot. The body may be a single entry
// or a batch.
func (h *EventHandler) PushLogs(c *gin.Context) {
	botID := c.Param("bot_id")
	if botIDFromToken(c, h.tokens) != botID {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	var entries []dto.LogEntryRequest
	if err := json.Unmarshal(raw, &entries); err != nil {
		var single dto.LogEntryRequest
		if err := json.Unmarshal(raw, &single); err != nil {
			respondError(c, http.StatusBadRequest, "invalid payload", nil)
			return
		}
		entries = []dto.LogEntryRequest{single}
	}

	for _, entry := range entries {
		if err := utils.ValidateStruct(&entry); err != nil {
			respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
			return
		}
	}
	for _, entry := range entries {
		logType := entry.Type
		if logType == "" {
			logType = "info"
		}
		h.ingest.AddLog(logType, entry.Message, entry.Metadata, botID)
	}

	respondJSON(c, http.StatusOK, dto.IngestResponse{Status: "ok", Received: len(entries)})
}

// GetMessages handles querying the message ring
func (h *EventHandler) GetMessages(c *gin.Context) {
	messages := h.ingest.QueryMessages(c.Query("bot_id"), queryLimit(c, 100))
	respondJSON(c, http.StatusOK, dto.MessagesResponse{Messages: messages, Count: len(messages)})
}

// PushMessage handles message ingestion from a bot
func (h *EventHandler) PushMessage(c *gin.Context) {
	botID := c.Param("bot_id")
	if botIDFromToken(c, h.tokens) != botID {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	h.ingest.AddMessage(domains.Message{
		BotID:      botID,
		Message:    req.Message,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		ThreadID:   req.ThreadID,
		ThreadType: req.ThreadType,
		Metadata:   req.Metadata,
	})

	respondJSON(c, http.StatusOK, dto.IngestResponse{Status: "ok", Received: 1})
}

// StatsOverview handles the fleet-wide stats endpoint
func (h *EventHandler) StatsOverview(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.stats.Overview())
}

// StatsBot handles the per-bot stats endpoint
func (h *EventHandler) StatsBot(c *gin.Context) {
	stats, err := h.stats.BotStats(c.Param("bot_id"))
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "bot not found", nil)
		return
	}
	respondJSON(c, http.StatusOK, stats)
}

// ExportLogs handles downloading the retained logs as a JSON attachment
func (h *EventHandler) ExportLogs(c *gin.Context) {
	logs := h.ingest.QueryLogs(c.Query("bot_id"), queryLimit(c, 1000))
	exportJSON(c, "logs", dto.LogsResponse{Logs: logs, Count: len(logs)})
}

// ExportMessages handles downloading the retained messages as a JSON attachment
func (h *EventHandler) ExportMessages(c *gin.Context) {
	messages := h.ingest.QueryMessages(c.Query("bot_id"), queryLimit(c, 1000))
	exportJSON(c, "messages", dto.MessagesResponse{Messages: messages, Count: len(messages)})
}

// ExportBotData handles downloading one bot's last synced data blob as a
// JSON attachment
func (h *EventHandler) ExportBotData(c *gin.Context) {
	botID := c.Param("bot_id")
	data, err := h.bots.Data(botID)
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no data for bot", nil)
		return
	}
	exportJSON(c, "bot_data_"+botID, data)
}

func exportJSON(c *gin.Context, name string, data interface{}) {
	filename := fmt.Sprintf("%s_%s.json", name, time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.JSON(http.StatusOK, data)
}

func queryLimit(c *gin.Context, fallback int) int {
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
