package models

import "strings"

// CommandType enumerates the bot commands understood over Telegram.
type CommandType string

const (
	CommandHola    CommandType = "hola"
	CommandStatus  CommandType = "status"
	CommandStock   CommandType = "stock"
	CommandVentas  CommandType = "ventas"
	CommandUnknown CommandType = "unknown"
)

// Command is a parsed bot instruction extracted from a chat message.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form chat text. Only messages
// starting with "/" are commands; plain text that happens to begin with a
// command word stays unknown. The command word is case-insensitive;
// arguments keep their original casing so product-name lookups stay
// readable in replies.
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	cmd := Command{Raw: message, Type: CommandUnknown}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return cmd
	}
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	if !strings.HasPrefix(tokens[0], "/") {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	// Telegram appends the bot name in group chats: /stock@MiBot.
	if at := strings.Index(head, "@"); at >= 0 {
		head = head[:at]
	}

	switch head {
	case string(CommandHola):
		cmd.Type = CommandHola
	case string(CommandStatus):
		cmd.Type = CommandStatus
	case string(CommandStock):
		cmd.Type = CommandStock
	case string(CommandVentas):
		cmd.Type = CommandVentas
	}

	return cmd
}
