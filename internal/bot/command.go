package bot

import (
	"strings"
	"unicode"
)

const (
	cmdStart     = "/start"
	cmdHelp      = "/help"
	cmdAyuda     = "/ayuda"
	cmdCancel    = "/cancelar"
	cmdHousehold = "/mihogar"
	cmdRegister  = "/registrar"
	cmdLatest    = "/ultimos"
	cmdInvite    = "/invitar"
)

// Command is a slash command split from its arguments
type Command struct {
	Name string
	Args string
}

// parseCommand returns nil for text that is not a command. The command is the
// first whitespace-delimited token; a trailing @botname on it is dropped.
func parseCommand(text string) *Command {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	name, args := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i > 0 {
		name, args = trimmed[:i], trimmed[i:]
	}
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	if name == "/" {
		return nil
	}

	return &Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
}

func commandName(text string) string {
	if cmd := parseCommand(text); cmd != nil {
		return cmd.Name
	}
	return ""
}
