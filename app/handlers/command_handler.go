package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"botops-svc/app/clients"
	"botops-svc/app/domains"
	"botops-svc/app/dto"
	"botops-svc/app/services"
	"botops-svc/app/utils"

	"github.com/gin-gonic/gin"
)

// CommandHandler handles command submission, polling and acknowledgement
type CommandHandler struct {
	dispatcher *services.DispatcherService
	tokens     clients.TokenIssuer
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(dispatcher *services.DispatcherService, tokens clients.TokenIssuer) *CommandHandler {
	return &CommandHandler{
		dispatcher: dispatcher,
		tokens:     tokens,
	}
}

// Submit handles operator command submission
func (h *CommandHandler) Submit(c *gin.Context) {
	var req dto.SubmitCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}
	if err := utils.ValidateCommandPayload(req.Type, req.Payload); err != nil {
		respondError(c, http.StatusBadRequest, "payload validation failed", map[string]string{"error": err.Error()})
		return
	}

	cmd, err := h.dispatcher.Submit(req.BotID, req.Type, req.Payload, domains.OriginAPI)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(c, http.StatusCreated, dto.SubmitCommandResponse{
		Status:  "queued",
		Command: cmd,
	})
}

// List handles listing commands, optionally filtered by bot
func (h *CommandHandler) List(c *gin.Context) {
	commands := h.dispatcher.List(c.Query("bot_id"))
	respondJSON(c, http.StatusOK, dto.CommandListResponse{
		Commands: commands,
		Count:    len(commands),
	})
}

// Get handles fetching one command by ID
func (h *CommandHandler) Get(c *gin.Context) {
	cmd, err := h.dispatcher.Get(c.Param("command_id"))
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "command not found", nil)
		return
	}
	respondJSON(c, http.StatusOK, cmd)
}

// Poll handles a bot polling for pending commands. Returned commands are
// now dispatched; a second poll will not see them again.
func (h *CommandHandler) Poll(c *gin.Context) {
	botID := c.Param("bot_id")
	if botIDFromToken(c, h.tokens) != botID {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	commands := h.dispatcher.Poll(botID, limit)
	respondJSON(c, http.StatusOK, dto.CommandListResponse{
		Commands: commands,
		Count:    len(commands),
	})
}

// Ack handles a bot acknowledging a dispatched command
func (h *CommandHandler) Ack(c *gin.Context) {
	commandID := c.Param("command_id")

	botID := botIDFromToken(c, h.tokens)
	if botID == "" {
		respondError(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	var req dto.AckCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	// Verify the command belongs to the acknowledging bot before mutating.
	existing, err := h.dispatcher.Get(commandID)
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "command not found", nil)
		return
	}
	if existing.BotID != botID {
		respondError(c, http.StatusForbidden, "command does not belong to bot", nil)
		return
	}

	status := domains.CommandState(req.Status)
	if status == "" {
		status = domains.CommandCompleted
	}

	cmd, err := h.dispatcher.Acknowledge(commandID, status, req.Result)
	if errors.Is(err, clients.ErrNotFound) {
		respondError(c, http.StatusNotFound, "command not found", nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.AckCommandResponse{
		Status:  "ok",
		Command: cmd,
	})
}
