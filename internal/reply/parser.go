// Package reply splits an assistant text reply into an explanation block and
// an ordered list of command strings.
package reply

import "strings"

// Parsed is the result of splitting a reply.
type Parsed struct {
	// Commands holds command strings in reply order.
	Commands []string
	// Explanation is the reply text preceding the command block, trimmed.
	Explanation string
}

// commandMarkers switch the parser into command-collection mode. Matched
// case-insensitively against whole trimmed lines.
var commandMarkers = []string{
	"commands to run",
	"suggested commands",
}

// Parse scans a reply line by line. Before the command marker every line,
// blank ones included, accumulates into the explanation. From the marker on,
// "- " bullets contribute commands and everything else is dropped. The mode
// switch is one-directional: an explanation continuing below the command
// block is intentionally discarded.
func Parse(text string) Parsed {
	var explanation []string
	var commands []string
	inCommands := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inCommands && isCommandMarker(trimmed) {
			inCommands = true
			continue
		}

		if inCommands {
			if rest, ok := strings.CutPrefix(trimmed, "-"); ok {
				if cmd := strings.TrimSpace(rest); cmd != "" {
					commands = append(commands, cmd)
				}
			}
			continue
		}

		explanation = append(explanation, line)
	}

	return Parsed{
		Commands:    commands,
		Explanation: strings.TrimSpace(strings.Join(explanation, "\n")),
	}
}

func isCommandMarker(line string) bool {
	lower := strings.ToLower(strings.TrimSuffix(line, ":"))
	for _, marker := range commandMarkers {
		if lower == marker {
			return true
		}
	}
	return false
}
