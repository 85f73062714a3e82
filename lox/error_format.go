package lox

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// formatCodeFrame renders the line at pos, preceded by the line before it
// when there is one, with a caret under the reported column.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	target := strings.TrimRight(lines[pos.Line-1], "\r")
	column := min(max(pos.Column, 1), utf8.RuneCountInString(target)+1)
	width := len(fmt.Sprint(pos.Line))

	var b strings.Builder
	if pos.Line > 1 {
		if prev := strings.TrimRight(lines[pos.Line-2], "\r"); strings.TrimSpace(prev) != "" {
			fmt.Fprintf(&b, "   %*d | %s\n", width, pos.Line-1, prev)
		}
	}
	fmt.Fprintf(&b, " > %*d | %s\n", width, pos.Line, target)
	fmt.Fprintf(&b, "   %*s | %s^", width, "", strings.Repeat(" ", column-1))
	return b.String()
}
