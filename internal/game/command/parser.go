package command

import "strings"

// ParseResult holds the parsed command name and arguments from a console line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the text after the command with inner spacing preserved.
	RawArgs string
}

// Arg returns the i-th argument, or "" when there are fewer arguments.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Parse splits a console line into a command and arguments.
//
// Postcondition: If line is blank, Command is empty and Args is nil.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}
	head, rest, _ := strings.Cut(line, " ")
	res := ParseResult{Command: strings.ToLower(head)}
	if rest = strings.TrimSpace(rest); rest != "" {
		res.Args = strings.Fields(rest)
		res.RawArgs = rest
	}
	return res
}
