package services

import (
	"errors"
	"fmt"
	"log"

	"botops-svc/app/clients"
	"botops-svc/app/domains"
)

// DispatcherService composes the command table with the broadcaster: it is
// the only way producers (operators) and consumers (bots) drive a command
// through its lifecycle.
type DispatcherService struct {
	commands  clients.CommandStore
	bots      clients.BotStore
	publisher clients.Publisher
}

// NewDispatcherService creates a new dispatcher service.
func NewDispatcherService(commands clients.CommandStore, bots clients.BotStore, publisher clients.Publisher) *DispatcherService {
	return &DispatcherService{
		commands:  commands,
		bots:      bots,
		publisher: publisher,
	}
}

// Submit validates inputs, creates the command in state pending and
// broadcasts a new_command event. The command is authoritative regardless of
// whether any observer saw the event: a saturated broadcast queue drops the
// event, never the command.
func (s *DispatcherService) Submit(botID, commandType string, payload map[string]interface{}, origin string) (domains.Command, error) {
	if botID == "" || commandType == "" {
		return domains.Command{}, fmt.Errorf("bot_id and type are required")
	}

	// Targeting a bot that has never reported in is allowed; the operator
	// may be ahead of the bot. Worth a warning, nothing more.
	if _, err := s.bots.Get(botID); errors.Is(err, clients.ErrNotFound) {
		log.Printf("dispatcher: command targets unknown bot %s", botID)
	}

	cmd := s.commands.Create(botID, commandType, payload, origin)
	s.publisher.Publish(domains.EventNewCommand, cmd)
	return cmd, nil
}

// Poll hands out up to limit pending commands for a bot, transitioning them
// to dispatched. No event is emitted on poll; passive polling by a fleet of
// bots would otherwise flood the stream.
func (s *DispatcherService) Poll(botID string, limit int) []domains.Command {
	if limit <= 0 {
		limit = 10
	}
	return s.commands.PollPending(botID, limit)
}

// Acknowledge records a terminal status and result for a command and
// broadcasts a command_update event with the updated command.
func (s *DispatcherService) Acknowledge(commandID string, status domains.CommandState, result map[string]interface{}) (domains.Command, error) {
	cmd, err := s.commands.Acknowledge(commandID, status, result)
	if err != nil {
		return domains.Command{}, err
	}
	s.publisher.Publish(domains.EventCommandUpdate, cmd)
	return cmd, nil
}

// Get returns one command by ID.
func (s *DispatcherService) Get(commandID string) (domains.Command, error) {
	return s.commands.Get(commandID)
}

// List returns all commands, or one bot's history when botID is non-empty.
func (s *DispatcherService) List(botID string) []domains.Command {
	if botID != "" {
		return s.commands.ListByBot(botID)
	}
	return s.commands.ListAll()
}
