package ui

import (
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // registered, success
	ColorWarning   = lipgloss.Color("#FFB800") // pending, warning
	ColorError     = lipgloss.Color("#FF4444") // disputed, error
	ColorInfo      = lipgloss.Color("#4EA8DE") // progress
	ColorAddress   = lipgloss.Color("#00B4D8") // addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // ETH values
	ColorMeta      = lipgloss.Color("#555555") // dates, descriptions
	ColorBorder    = lipgloss.Color("#1E3A5F") // card chrome
	ColorChain     = lipgloss.Color("#9B5DE5") // chain names, titles
	ColorHighlight = lipgloss.Color("#F15BB5") // selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleBadge = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#000000"))
)

// Banner returns the lcurate banner.
func Banner() string {
	art := `
  ██╗      ██████╗██╗   ██╗██████╗  █████╗ ████████╗███████╗
  ██║     ██╔════╝██║   ██║██╔══██╗██╔══██╗╚══██╔══╝██╔════╝
  ██║     ██║     ██║   ██║██████╔╝███████║   ██║   █████╗
  ██║     ██║     ██║   ██║██╔══██╗██╔══██║   ██║   ██╔══╝
  ███████╗╚██████╗╚██████╔╝██║  ██║██║  ██║   ██║   ███████╗
  ╚══════╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝`

	tagline := StyleMeta.Render("     Curated registry of decentralized frontends")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats a progress message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// DangerBox frames content that must not be missed, like a private key.
func DangerBox(content string) string {
	return StyleBorder.BorderForeground(ColorError).Render(content)
}

// Hint formats a suggestion.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// StatusBadge renders an item status as a colored pill. A disputed pending
// request is shown as "Challenged".
func StatusBadge(s tcr.Status, disputed bool) string {
	label := s.Label()
	color := ColorMeta
	switch {
	case s.Pending() && disputed:
		label, color = "Challenged", ColorError
	case s == tcr.Registered:
		color = ColorSuccess
	case s.Pending():
		color = ColorWarning
	}
	return StyleBadge.Background(color).Render(label)
}

// TruncateMiddle keeps the first start and last end characters of s, joined
// by "...". Strings that already fit are returned unchanged.
func TruncateMiddle(s string, start, end int) string {
	if len(s) <= start+end {
		return s
	}
	return s[:start] + "..." + s[len(s)-end:]
}

// TruncateID shortens an item id or tx hash for display.
func TruncateID(id string) string { return TruncateMiddle(id, 6, 4) }

// FormatDate renders t as "Jan 2, 2006", or "Unknown" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Jan 2, 2006")
}
