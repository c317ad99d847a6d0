package chatlog

import "strings"

// NormalizeForDedup canonicalizes a message body for fingerprinting:
// 1. Canonicalize line endings (CRLF/CR -> LF)
// 2. Strip trailing spaces and tabs per line
//
// Leading whitespace and blank interior lines are preserved; they are part
// of what the sender typed.
func NormalizeForDedup(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
