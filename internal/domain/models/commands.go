package models

import "strings"

// CommandType enumerates supported operator command categories.
type CommandType string

const (
	CommandCashIn     CommandType = "cashin"
	CommandCashOut    CommandType = "cashout"
	CommandBalance    CommandType = "balance"
	CommandProduction CommandType = "production"
	CommandSummary    CommandType = "summary"
	CommandUnknown    CommandType = "unknown"
)

var knownCommands = map[string]CommandType{
	string(CommandCashIn):     CommandCashIn,
	string(CommandCashOut):    CommandCashOut,
	string(CommandBalance):    CommandBalance,
	string(CommandProduction): CommandProduction,
	string(CommandSummary):    CommandSummary,
}

// Command represents a parsed operator instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return cmd
	}

	if t, ok := knownCommands[strings.TrimPrefix(tokens[0], "/")]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}

// IsSlashCommand reports whether text looks like an explicit command.
func IsSlashCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}
