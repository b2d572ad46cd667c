package handlers

import (
	"errors"
	"net/http"
	"time"

	"botops-svc/app/clients"
	"botops-svc/app/dto"
	"botops-svc/app/services"
	"botops-svc/app/utils"

	"github.com/gin-gonic/gin"
)

// respondJSON sends a JSON response
func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// respondError sends an error response
func respondError(c *gin.Context, status int, message string, details map[string]string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// botIDFromToken extracts the bot ID from the Bearer token in the
// Authorization header. Empty means unauthenticated.
func botIDFromToken(c *gin.Context, tokens clients.TokenIssuer) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
		return ""
	}
	botID, err := tokens.Verify(authHeader[7:])
	if err != nil {
		return ""
	}
	return botID
}

// BotHandler handles bot-facing registry endpoints
type BotHandler struct {
	ingest         *services.IngestService
	bots           clients.BotStore
	tokens         clients.TokenIssuer
	tokenExpiresIn int64
}

// NewBotHandler creates a new bot handler
func NewBotHandler(ingest *services.IngestService, bots clients.BotStore, tokens clients.TokenIssuer, tokenExpiresIn int64) *BotHandler {
	return &BotHandler{
		ingest:         ingest,
		bots:           bots,
		tokens:         tokens,
		tokenExpiresIn: tokenExpiresIn,
	}
}

// Register handles bot registration and issues the bot's access token
func (h *BotHandler) Register(c *gin.Context) {
	var req dto.RegisterBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	bot, err := h.ingest.RegisterBot(req.BotID, req.Name, req.Status, req.Metadata)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	token, err := h.tokens.Issue(req.BotID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate token", nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.RegisterBotResponse{
		Status:    "ok",
		Bot:       bot,
		Token:     token,
		ExpiresIn: h.tokenExpiresIn,
	})
}

// List handles listing all known bots
func (h *BotHandler) List(c *gin.Context) {
	bots := h.bots.List()
	respondJSON(c, http.StatusOK, dto.ListBotsResponse{
		Bots:  bots,
		Count: len(bots),
	})
}

// GetStatus handles fetching one bot's record
func (h *BotHandler) GetStatus(c *gin.Context) {
	bot, err := h.bots.Get(c.Param("bot_id"))
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "bot not found", nil)
		return
	}
	respondJSON(c, http.StatusOK, bot)
}

// ReportStatus handles a bot status report
func (h *BotHandler) ReportStatus(c *gin.Context) {
	botID := c.Param("bot_id")
	if botIDFromToken(c, h.tokens) != botID {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	var req dto.StatusReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	bot, err := h.ingest.ReportStatus(botID, req.Status, req.Data)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.BotStatusResponse{Status: "ok", Bot: bot})
}

// Sync handles a bot data sync upload
func (h *BotHandler) Sync(c *gin.Context) {
	botID := c.Param("bot_id")
	if botIDFromToken(c, h.tokens) != botID {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	var req dto.SyncDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	stored, err := h.ingest.SyncData(botID, req.Data)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.SyncDataResponse{
		Status:    "ok",
		UpdatedAt: stored.UpdatedAt.Format(time.RFC3339),
	})
}

// GetData handles fetching a bot's last synced data blob
func (h *BotHandler) GetData(c *gin.Context) {
	data, err := h.bots.Data(c.Param("bot_id"))
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no data for bot", nil)
		return
	}
	respondJSON(c, http.StatusOK, data)
}
