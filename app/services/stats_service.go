package services

import (
	"botops-svc/app/clients"
	"botops-svc/app/domains"
)

// StatsService derives fleet-wide and per-bot counts from store snapshots.
// Commands stuck in dispatched show up here, which is what an external
// reaper would watch.
type StatsService struct {
	commands clients.CommandStore
	bots     clients.BotStore
	logs     clients.EventSink
	messages clients.MessageSink
}

// NewStatsService creates a new stats service.
func NewStatsService(commands clients.CommandStore, bots clients.BotStore, logs clients.EventSink, messages clients.MessageSink) *StatsService {
	return &StatsService{
		commands: commands,
		bots:     bots,
		logs:     logs,
		messages: messages,
	}
}

// Overview summarizes the whole deployment.
func (s *StatsService) Overview() map[string]interface{} {
	bots := s.bots.List()
	online := 0
	for _, bot := range bots {
		if bot.Status == domains.BotStatusOnline {
			online++
		}
	}

	return map[string]interface{}{
		"bots": map[string]interface{}{
			"total":  len(bots),
			"online": online,
		},
		"commands": s.countByState(s.commands.ListAll()),
		"logs":     s.logs.Len(),
		"messages": s.messages.Len(),
	}
}

// BotStats summarizes one bot's command history.
func (s *StatsService) BotStats(botID string) (map[string]interface{}, error) {
	bot, err := s.bots.Get(botID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"bot":      bot,
		"commands": s.countByState(s.commands.ListByBot(botID)),
	}, nil
}

func (s *StatsService) countByState(cmds []domains.Command) map[string]interface{} {
	counts := map[domains.CommandState]int{}
	for _, cmd := range cmds {
		counts[cmd.State]++
	}
	return map[string]interface{}{
		"total":      len(cmds),
		"pending":    counts[domains.CommandPending],
		"dispatched": counts[domains.CommandDispatched],
		"completed":  counts[domains.CommandCompleted],
		"failed":     counts[domains.CommandFailed],
	}
}
