// Package session implements the program modes: the scripted demo,
// the synthetic benchmarks, the interactive REPL, and the replay
// driver.
package session

import "strings"

func trimmed(line string) string {
	return strings.TrimSpace(line)
}

func startsWith(line string, c byte) bool {
	t := trimmed(line)
	return len(t) > 0 && t[0] == c
}

func isQuit(line string) bool {
	switch trimmed(line) {
	case "q", "Q", "quit", "QUIT":
		return true
	}
	return false
}
