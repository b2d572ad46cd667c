package botclient

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"botops-svc/app"
	"botops-svc/app/domains"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*app.App, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	application, err := app.BootstrapWithConfig(&app.Config{
		TokenSecret:        "test-secret",
		TokenExpirationSec: 3600,
		MaxLogs:            500,
		MaxMessages:        500,
		MaxCommandsPerBot:  200,
		BroadcastQueueSize: 64,
		BroadcastWait:      10 * time.Millisecond,
		SubscriberBuffer:   16,
		CORSOrigins:        []string{"http://localhost:5173"},
	})
	require.NoError(t, err)
	t.Cleanup(application.Close)

	server := httptest.NewServer(application.Router)
	t.Cleanup(server.Close)
	return application, server
}

func TestClientRegisterAndReport(t *testing.T) {
	application, server := newTestBackend(t)
	ctx := context.Background()

	client := NewClient(server.URL, "botA")

	t.Run("unregistered client is rejected", func(t *testing.T) {
		err := client.ReportStatus(ctx, domains.BotStatusOnline, nil)
		assert.Error(t, err)
	})

	t.Run("register obtains a token", func(t *testing.T) {
		require.NoError(t, client.Register(ctx, "Alpha", map[string]interface{}{"version": "1.0"}))
		assert.NotEmpty(t, client.token)
	})

	t.Run("status report lands in the registry", func(t *testing.T) {
		require.NoError(t, client.ReportStatus(ctx, domains.BotStatusOnline, map[string]interface{}{"uptime": 12}))

		bot, err := application.Bots.Get("botA")
		require.NoError(t, err)
		assert.Equal(t, domains.BotStatusOnline, bot.Status)
	})

	t.Run("logs, messages and sync round-trip", func(t *testing.T) {
		require.NoError(t, client.PushLog(ctx, "info", "client started", nil))
		require.NoError(t, client.PushMessage(ctx, domains.Message{Message: "hi there"}))
		require.NoError(t, client.SyncData(ctx, map[string]interface{}{"groups": []string{"g1"}}))

		assert.NotEmpty(t, application.Logs.Query("botA", 10))
		assert.NotEmpty(t, application.Messages.Query("botA", 10))
	})
}

func TestClientCommandLoop(t *testing.T) {
	application, server := newTestBackend(t)
	ctx := context.Background()

	client := NewClient(server.URL, "botA")
	require.NoError(t, client.Register(ctx, "botA", nil))

	submitted, err := application.Dispatcher.Submit("botA", "send_message",
		map[string]interface{}{"text": "hi"}, domains.OriginAPI)
	require.NoError(t, err)

	t.Run("poll hands out the command", func(t *testing.T) {
		commands, err := client.PollCommands(ctx, 10)
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, submitted.ID, commands[0].ID)
		assert.Equal(t, domains.CommandDispatched, commands[0].State)
	})

	t.Run("acknowledge completes it server-side", func(t *testing.T) {
		err := client.Acknowledge(ctx, submitted.ID, domains.CommandCompleted,
			map[string]interface{}{"delivered": true})
		require.NoError(t, err)

		cmd, err := application.Dispatcher.Get(submitted.ID)
		require.NoError(t, err)
		assert.Equal(t, domains.CommandCompleted, cmd.State)
	})
}

func TestRunnerPollOnce(t *testing.T) {
	application, server := newTestBackend(t)
	ctx := context.Background()

	client := NewClient(server.URL, "botA")
	require.NoError(t, client.Register(ctx, "botA", nil))

	cfg := &Config{BotID: "botA", PollLimit: 10, PollIntervalSec: 1, StatusIntervalSec: 30}
	runner := NewRunner(client, cfg)

	handled := make([]string, 0)
	runner.Handle("send_message", func(ctx context.Context, cmd domains.Command) (map[string]interface{}, error) {
		handled = append(handled, cmd.ID)
		return map[string]interface{}{"delivered": true}, nil
	})

	okCmd, err := application.Dispatcher.Submit("botA", "send_message",
		map[string]interface{}{"text": "hi"}, domains.OriginAPI)
	require.NoError(t, err)
	badCmd, err := application.Dispatcher.Submit("botA", "mystery", nil, domains.OriginAPI)
	require.NoError(t, err)

	runner.pollOnce(ctx)

	t.Run("handled command is acknowledged completed", func(t *testing.T) {
		assert.Equal(t, []string{okCmd.ID}, handled)

		cmd, err := application.Dispatcher.Get(okCmd.ID)
		require.NoError(t, err)
		assert.Equal(t, domains.CommandCompleted, cmd.State)
		assert.Equal(t, true, cmd.Result["delivered"])
	})

	t.Run("unknown command type is acknowledged failed", func(t *testing.T) {
		cmd, err := application.Dispatcher.Get(badCmd.ID)
		require.NoError(t, err)
		assert.Equal(t, domains.CommandFailed, cmd.State)
		assert.Contains(t, cmd.Result["error"], "unknown command type")
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing bot_id fails", func(t *testing.T) {
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("yaml file with defaults applied", func(t *testing.T) {
		path := t.TempDir() + "/agent.yaml"
		content := "server_url: http://example.test:5000\nbot_id: botA\nname: Alpha\npoll_limit: 5\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://example.test:5000", cfg.ServerURL)
		assert.Equal(t, "Alpha", cfg.Name)
		assert.Equal(t, 5, cfg.PollLimit)
		assert.Equal(t, 3, cfg.PollIntervalSec)
	})
}
