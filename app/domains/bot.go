package domains

import "time"

// Bot statuses. Status is open-ended: bots may report any string and the
// registry stores it verbatim; these are the values the system itself uses.
const (
	BotStatusUnknown = "unknown"
	BotStatusOnline  = "online"
	BotStatusOffline = "offline"
)

// Bot represents one known bot and its last-known status. Metadata is merged
// patch-wise on each status report: reported keys overwrite, absent keys are
// preserved.
type Bot struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Status       string                 `json:"status"`
	RegisteredAt time.Time              `json:"registered_at"`
	LastUpdate   *time.Time             `json:"last_update,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// BotData is the opaque data blob a bot uploads on sync (groups, friends,
// whatever the bot tracks). The core stores and relays it without
// interpretation.
type BotData struct {
	Data      map[string]interface{} `json:"data"`
	UpdatedAt time.Time              `json:"updated_at"`
}
