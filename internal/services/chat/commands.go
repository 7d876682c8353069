package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hmcleod/gamelobby/internal/model"
)

// CommandFunc executes a slash command with the channel, sender, the
// arguments after the command name, and the game id for game channels
type CommandFunc func(ctx context.Context, t model.ChannelType, sender model.UserID, args []string, gameID model.GameID) error

// Command is one registered slash command
type Command struct {
	Name       string
	Help       string
	Permission string // "all" or "creator", shown in help output
	Run        CommandFunc
}

// CommandRegistry looks up slash commands by name. Commands are wired
// at factory time so the chat service stays free of service cycles.
type CommandRegistry struct {
	order  []string
	byName map[string]Command
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{byName: make(map[string]Command)}
}

// Register adds a command, replacing any previous one with the same name
func (r *CommandRegistry) Register(cmd Command) {
	name := strings.ToLower(cmd.Name)
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = cmd
}

// Help returns one "/name - help" line per command, in registration order
func (r *CommandRegistry) Help() string {
	lines := make([]string, len(r.order))
	for i, name := range r.order {
		lines[i] = fmt.Sprintf("/%s - %s", name, r.byName[name].Help)
	}
	return strings.Join(lines, "\n")
}

// Dispatch parses a slash command out of text and runs it. Returns
// (false, nil) if text is not a command, (true, nil) when a command was
// handled, and ErrUnknownCommand for an unrecognized name.
func (r *CommandRegistry) Dispatch(ctx context.Context, t model.ChannelType, sender model.UserID, text string, gameID model.GameID) (bool, error) {
	if !strings.HasPrefix(text, "/") {
		return false, nil
	}

	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return false, model.ErrUnknownCommand
	}

	cmd, ok := r.byName[strings.ToLower(parts[0])]
	if !ok {
		return false, model.ErrUnknownCommand
	}

	if err := cmd.Run(ctx, t, sender, parts[1:], gameID); err != nil {
		return false, err
	}
	return true, nil
}

// NicknameChanger is the cascade entry point for /nick; implemented by
// the account service
type NicknameChanger interface {
	ChangeNickname(ctx context.Context, userID model.UserID, nickname string) (*model.User, error)
}

// Kicker removes a member from a room on the creator's behalf;
// implemented by the room service
type Kicker interface {
	Kick(ctx context.Context, gameID model.GameID, requester, target model.UserID) (*model.GameRoom, error)
}

// RegisterDefaultCommands wires the built-in slash commands. The
// nickname and kick collaborators come from outside the chat package to
// keep the cascade single-sourced.
func RegisterDefaultCommands(s *Service, nicknames NicknameChanger, kicker Kicker) {
	reg := s.Commands()

	reg.Register(Command{
		Name:       "help",
		Help:       "Show available commands",
		Permission: "all",
		Run: func(ctx context.Context, t model.ChannelType, sender model.UserID, args []string, gameID model.GameID) error {
			_, err := s.Send(ctx, t, sender, "Available commands:\n"+reg.Help(), gameID)
			return err
		},
	})

	reg.Register(Command{
		Name:       "nick",
		Help:       "Change nickname: /nick <new_nickname>",
		Permission: "all",
		Run: func(ctx context.Context, t model.ChannelType, sender model.UserID, args []string, gameID model.GameID) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: new nickname required", model.ErrValidation)
			}
			_, err := nicknames.ChangeNickname(ctx, sender, strings.Join(args, " "))
			return err
		},
	})

	reg.Register(Command{
		Name:       "msg",
		Help:       "Send private message: /msg <user> <message>",
		Permission: "all",
		Run: func(ctx context.Context, t model.ChannelType, sender model.UserID, args []string, gameID model.GameID) error {
			if len(args) < 2 {
				return fmt.Errorf("%w: recipient and message required", model.ErrValidation)
			}
			recipient, err := s.users.FindOneActive(ctx, args[0])
			if err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					return model.ErrRecipientNotFound
				}
				return err
			}
			senderUser, err := s.users.FindByID(ctx, sender)
			if err != nil {
				return err
			}
			_, err = s.sendPrivate(ctx, t, senderUser, recipient.UserID, strings.Join(args[1:], " "), gameID)
			return err
		},
	})

	reg.Register(Command{
		Name:       "kick",
		Help:       "Kick user from game: /kick <user>",
		Permission: "creator",
		Run: func(ctx context.Context, t model.ChannelType, sender model.UserID, args []string, gameID model.GameID) error {
			if t != model.ChannelGame {
				return fmt.Errorf("%w: /kick only works in game chat", model.ErrValidation)
			}
			if len(args) == 0 {
				return fmt.Errorf("%w: user to kick required", model.ErrValidation)
			}
			target, err := s.users.FindOneActive(ctx, args[0])
			if err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					return model.ErrRecipientNotFound
				}
				return err
			}
			if _, err := kicker.Kick(ctx, gameID, sender, target.UserID); err != nil {
				return err
			}
			_, err = s.Send(ctx, model.ChannelGame, model.SystemUserID,
				fmt.Sprintf("%s was kicked from the game", target.Nickname), gameID)
			return err
		},
	})
}
