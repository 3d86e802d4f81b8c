package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind string

const (
	statusInfo  statusKind = "INFO"
	statusOK    statusKind = "OK"
	statusWarn  statusKind = "WARN"
	statusError statusKind = "ERROR"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const statusIndent = "  "

// statusTagWidth pads the bracketed kind tag so labels line up in a column.
const statusTagWidth = 8

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiCyan
	}
	return ""
}

// renderStatusLine formats one check result as an indented, tag-first line,
// e.g. `  [OK]    Database: ready`. Padding happens before coloring so
// escape codes never skew the columns.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := "[" + string(kind) + "]"
	if pad := statusTagWidth - len(tag); pad > 0 {
		tag += strings.Repeat(" ", pad)
	}
	if colorize {
		if color := kind.color(); color != "" {
			tag = color + tag + ansiReset
		}
	}
	line := statusIndent + tag + label
	if message != "" {
		line += ": " + message
	}
	return line
}

// renderSectionHeader returns the title plus a dashed rule of matching width.
func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("-", len(title))
	if colorize {
		title = ansiBold + title + ansiReset
	}
	return []string{title, rule}
}

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
