package memory

import (
	"testing"

	"botops-svc/app/clients"
	"botops-svc/app/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUpsertStatus(t *testing.T) {
	t.Run("creates the record lazily on first report", func(t *testing.T) {
		reg := NewRegistry()
		bot := reg.UpsertStatus("botA", "", domains.BotStatusOnline, nil)

		assert.Equal(t, "botA", bot.ID)
		assert.Equal(t, "botA", bot.Name)
		assert.Equal(t, domains.BotStatusOnline, bot.Status)
		assert.NotNil(t, bot.LastUpdate)
	})

	t.Run("merges metadata patch-wise", func(t *testing.T) {
		reg := NewRegistry()
		reg.UpsertStatus("botA", "", domains.BotStatusOnline, map[string]interface{}{"a": 1, "b": 2})
		bot := reg.UpsertStatus("botA", "", domains.BotStatusOnline, map[string]interface{}{"b": 3, "c": 4})

		assert.Equal(t, map[string]interface{}{"a": 1, "b": 3, "c": 4}, bot.Metadata)
	})

	t.Run("newest status report wins", func(t *testing.T) {
		reg := NewRegistry()
		reg.UpsertStatus("botA", "", domains.BotStatusOnline, nil)
		bot := reg.UpsertStatus("botA", "", "degraded", nil)

		assert.Equal(t, "degraded", bot.Status)
	})

	t.Run("empty status preserves the previous one", func(t *testing.T) {
		reg := NewRegistry()
		reg.UpsertStatus("botA", "", domains.BotStatusOnline, nil)
		bot := reg.UpsertStatus("botA", "", "", map[string]interface{}{"k": "v"})

		assert.Equal(t, domains.BotStatusOnline, bot.Status)
	})

	t.Run("name set only when provided", func(t *testing.T) {
		reg := NewRegistry()
		reg.UpsertStatus("botA", "Alpha", domains.BotStatusOnline, nil)
		bot := reg.UpsertStatus("botA", "", domains.BotStatusOffline, nil)

		assert.Equal(t, "Alpha", bot.Name)
	})
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()
	reg.UpsertStatus("botA", "", domains.BotStatusOnline, nil)

	t.Run("returns a snapshot", func(t *testing.T) {
		bot, err := reg.Get("botA")
		require.NoError(t, err)

		bot.Metadata["injected"] = true
		fresh, err := reg.Get("botA")
		require.NoError(t, err)
		assert.NotContains(t, fresh.Metadata, "injected")
	})

	t.Run("unknown bot is an explicit miss", func(t *testing.T) {
		_, err := reg.Get("ghost")
		assert.ErrorIs(t, err, clients.ErrNotFound)
	})
}

func TestRegistryData(t *testing.T) {
	reg := NewRegistry()

	t.Run("sync creates the bot record lazily", func(t *testing.T) {
		stored := reg.UpsertData("botA", map[string]interface{}{"groups": []interface{}{"g1"}})
		assert.False(t, stored.UpdatedAt.IsZero())

		bot, err := reg.Get("botA")
		require.NoError(t, err)
		assert.Equal(t, domains.BotStatusUnknown, bot.Status)
	})

	t.Run("data is retrievable", func(t *testing.T) {
		data, err := reg.Data("botA")
		require.NoError(t, err)
		assert.Contains(t, data.Data, "groups")
	})

	t.Run("no data is an explicit miss", func(t *testing.T) {
		reg.UpsertStatus("botB", "", domains.BotStatusOnline, nil)
		_, err := reg.Data("botB")
		assert.ErrorIs(t, err, clients.ErrNotFound)
	})
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	reg.UpsertStatus("zeta", "", domains.BotStatusOnline, nil)
	reg.UpsertStatus("alpha", "", domains.BotStatusOffline, nil)

	bots := reg.List()
	require.Len(t, bots, 2)
	assert.Equal(t, "alpha", bots[0].ID)
	assert.Equal(t, "zeta", bots[1].ID)
}
