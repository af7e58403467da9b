package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives status lines, keeping stdout free for artifacts.
var statusOut io.Writer = os.Stderr

// Palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Text styles shared by status output and the tree browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// statusKind pairs a status glyph with its color.
type statusKind struct {
	glyph string
	style lipgloss.Style
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

var (
	kindSuccess = statusKind{iconSuccess, lipgloss.NewStyle().Foreground(colorGreen)}
	kindError   = statusKind{iconError, lipgloss.NewStyle().Foreground(colorRed)}
	kindWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	kindInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func status(k statusKind, msg string) {
	fmt.Fprintln(statusOut, k.style.Render(k.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { status(kindSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { status(kindError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { status(kindInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	status(kindWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints "N files · M imports · cached|fresh".
func printStats(files, imports int, cached bool) {
	state := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		state = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d files", files)),
		StyleDim.Render(fmt.Sprintf("%d imports", imports)),
		state,
	}
	fmt.Fprintln(statusOut, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}
