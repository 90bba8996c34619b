package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

var statusColors = map[statusKind]*color.Color{
	statusOK:    color.New(color.FgGreen),
	statusWarn:  color.New(color.FgYellow),
	statusError: color.New(color.FgRed, color.Bold),
}

// statusPainter colours short status words when stdout is a terminal.
type statusPainter struct {
	enabled bool
}

func newStatusPainter(w io.Writer, noColor bool) statusPainter {
	return statusPainter{enabled: !noColor && shouldColorize(w)}
}

func (p statusPainter) paint(kind statusKind, s string) string {
	if !p.enabled {
		return s
	}
	c := statusColors[kind]
	c.EnableColor()
	return c.Sprint(s)
}

func (p statusPainter) validity(valid bool) string {
	if valid {
		return p.paint(statusOK, "valid")
	}
	return p.paint(statusError, "invalid")
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
