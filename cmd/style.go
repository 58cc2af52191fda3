package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printOK(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, okStyle.Render("✓"), fmt.Sprintf(format, a...))
}

func printWarn(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, warnStyle.Render("⚠"), fmt.Sprintf(format, a...))
}
