package memory

import (
	"fmt"
	"sync"
	"time"

	"botops-svc/app/clients"
	"botops-svc/app/domains"

	"github.com/google/uuid"
)

// CommandTable is the in-memory authoritative command store. Each bot keeps a
// bounded history in insertion order; a global index maps command IDs to
// their entries. All mutation happens under one lock, held only for the
// duration of the index update, never across I/O.
type CommandTable struct {
	mu          sync.Mutex
	perBotLimit int
	seq         uint64
	byBot       map[string][]*domains.Command
	byID        map[string]*domains.Command
}

// NewCommandTable creates a command table keeping at most perBotLimit
// commands per bot. Oldest commands are evicted first once the limit is
// exceeded.
func NewCommandTable(perBotLimit int) *CommandTable {
	return &CommandTable{
		perBotLimit: perBotLimit,
		byBot:       make(map[string][]*domains.Command),
		byID:        make(map[string]*domains.Command),
	}
}

// Create allocates a fresh command in state pending and appends it to the
// bot's history. Validation of botID and commandType is the caller's job.
func (t *CommandTable) Create(botID, commandType string, payload map[string]interface{}, origin string) domains.Command {
	if payload == nil {
		payload = map[string]interface{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	cmd := &domains.Command{
		ID:        fmt.Sprintf("cmd_%d_%s", t.seq, uuid.New().String()[:6]),
		BotID:     botID,
		Type:      commandType,
		Payload:   payload,
		State:     domains.CommandPending,
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	}

	history := append(t.byBot[botID], cmd)
	for len(history) > t.perBotLimit {
		evicted := history[0]
		history = history[1:]
		delete(t.byID, evicted.ID)
	}
	t.byBot[botID] = history
	t.byID[cmd.ID] = cmd

	return copyCommand(cmd)
}

// PollPending hands out up to limit pending commands for a bot in insertion
// order, transitioning each to dispatched. A command is returned to at most
// one caller: commands already dispatched or terminal are skipped, so
// concurrent polls never see the same command twice.
func (t *CommandTable) PollPending(botID string, limit int) []domains.Command {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	dispatched := make([]domains.Command, 0, limit)
	for _, cmd := range t.byBot[botID] {
		if len(dispatched) >= limit {
			break
		}
		if cmd.State != domains.CommandPending {
			continue
		}
		cmd.State = domains.CommandDispatched
		at := now
		cmd.DispatchedAt = &at
		dispatched = append(dispatched, copyCommand(cmd))
	}
	return dispatched
}

// Acknowledge records a terminal status and result for a command. The write
// is a permissive overwrite: acknowledging a command that is not currently
// dispatched (including re-acknowledging a terminal one) is accepted and the
// newest report wins.
func (t *CommandTable) Acknowledge(commandID string, status domains.CommandState, result map[string]interface{}) (domains.Command, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd, ok := t.byID[commandID]
	if !ok {
		return domains.Command{}, clients.ErrNotFound
	}

	cmd.State = status
	cmd.Result = result
	at := time.Now().UTC()
	cmd.CompletedAt = &at

	return copyCommand(cmd), nil
}

// Get returns a snapshot of one command by ID.
func (t *CommandTable) Get(commandID string) (domains.Command, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd, ok := t.byID[commandID]
	if !ok {
		return domains.Command{}, clients.ErrNotFound
	}
	return copyCommand(cmd), nil
}

// ListByBot returns a snapshot of one bot's history in insertion order.
func (t *CommandTable) ListByBot(botID string) []domains.Command {
	t.mu.Lock()
	defer t.mu.Unlock()

	history := t.byBot[botID]
	out := make([]domains.Command, 0, len(history))
	for _, cmd := range history {
		out = append(out, copyCommand(cmd))
	}
	return out
}

// ListAll returns a snapshot of every stored command, grouped by bot.
func (t *CommandTable) ListAll() []domains.Command {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []domains.Command
	for _, history := range t.byBot {
		for _, cmd := range history {
			out = append(out, copyCommand(cmd))
		}
	}
	return out
}

// copyCommand snapshots a command so callers can never mutate table-owned
// state. Caller must hold the table lock.
func copyCommand(cmd *domains.Command) domains.Command {
	out := *cmd
	out.Payload = copyMap(cmd.Payload)
	out.Result = copyMap(cmd.Result)
	return out
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
