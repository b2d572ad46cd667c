package memory

import (
	"sort"
	"sync"
	"time"

	"botops-svc/app/clients"
	"botops-svc/app/domains"
)

// Registry tracks last-known bot status and metadata. Records are created
// lazily on first status report or sync and never deleted here; removal is
// an ownership concern that lives outside the core.
type Registry struct {
	mu   sync.Mutex
	bots map[string]*domains.Bot
	data map[string]*domains.BotData
}

// NewRegistry creates an empty bot registry.
func NewRegistry() *Registry {
	return &Registry{
		bots: make(map[string]*domains.Bot),
		data: make(map[string]*domains.BotData),
	}
}

// UpsertStatus creates the bot record if absent, then overwrites status and
// timestamp and merges metadataPatch into the stored metadata. Patch
// semantics: keys present in the patch overwrite, absent keys are preserved.
// The newest report always wins.
func (r *Registry) UpsertStatus(botID, name, status string, metadataPatch map[string]interface{}) domains.Bot {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	bot, ok := r.bots[botID]
	if !ok {
		bot = &domains.Bot{
			ID:           botID,
			Name:         botID,
			Status:       domains.BotStatusUnknown,
			RegisteredAt: now,
			Metadata:     map[string]interface{}{},
		}
		r.bots[botID] = bot
	}

	if name != "" {
		bot.Name = name
	}
	if status != "" {
		bot.Status = status
	}
	bot.LastUpdate = &now
	for k, v := range metadataPatch {
		bot.Metadata[k] = v
	}

	return copyBot(bot)
}

// UpsertData stores the bot's synced data blob, creating the bot record
// lazily if it has never reported before.
func (r *Registry) UpsertData(botID string, data map[string]interface{}) domains.BotData {
	r.mu.Lock()

	now := time.Now().UTC()
	if _, ok := r.bots[botID]; !ok {
		r.bots[botID] = &domains.Bot{
			ID:           botID,
			Name:         botID,
			Status:       domains.BotStatusUnknown,
			RegisteredAt: now,
			Metadata:     map[string]interface{}{},
		}
	}
	stored := &domains.BotData{Data: copyMap(data), UpdatedAt: now}
	r.data[botID] = stored
	r.mu.Unlock()

	return domains.BotData{Data: copyMap(stored.Data), UpdatedAt: stored.UpdatedAt}
}

// Get returns a snapshot of one bot record.
func (r *Registry) Get(botID string) (domains.Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[botID]
	if !ok {
		return domains.Bot{}, clients.ErrNotFound
	}
	return copyBot(bot), nil
}

// Data returns a snapshot of one bot's last synced data blob.
func (r *Registry) Data(botID string) (domains.BotData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.data[botID]
	if !ok {
		return domains.BotData{}, clients.ErrNotFound
	}
	return domains.BotData{Data: copyMap(d.Data), UpdatedAt: d.UpdatedAt}, nil
}

// List returns a snapshot of all known bots, ordered by ID for stable
// output.
func (r *Registry) List() []domains.Bot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domains.Bot, 0, len(r.bots))
	for _, bot := range r.bots {
		out = append(out, copyBot(bot))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyBot(bot *domains.Bot) domains.Bot {
	out := *bot
	out.Metadata = copyMap(bot.Metadata)
	return out
}
