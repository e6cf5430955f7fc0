package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"spesedesk/internal/core"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	sectionStyle  = lipgloss.NewStyle().Foreground(special).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(highlight).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(subtle)
	errorStyle    = lipgloss.NewStyle().Foreground(warning)
)

const descriptionWidth = 32

// Accepted date input layouts, tried in order.
var dateInputLayouts = []string{core.DisplayDateLayout, "2006-01-02", "1/2/2006"}

// RenderHeader returns the title bar.
func RenderHeader(title string) string {
	return headerStyle.Render(title)
}

// RenderRecords lists records one per line. The selected record is marked.
func RenderRecords(records []core.Record, selectedID, symbol string) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("EXPENSES"))
	b.WriteString("\n")
	if len(records) == 0 {
		b.WriteString(mutedStyle.Render("  (none yet)"))
		return b.String()
	}
	for i, r := range records {
		line := RecordLine(r, symbol)
		if r.ID == selectedID && selectedID != "" {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RecordLine renders a record as "date  description  amount".
func RecordLine(r core.Record, symbol string) string {
	return fmt.Sprintf("%s  %-*s  %12s",
		r.DisplayDate(), descriptionWidth, truncate(r.Description, descriptionWidth),
		core.FormatCurrency(symbol, r.Amount))
}

// RenderSummary renders the monthly summary block.
func RenderSummary(summary string) string {
	return sectionStyle.Render("MONTHLY TOTALS") + "\n" + summary
}

// RenderMessage renders a status line; failures are highlighted.
func RenderMessage(msg string, failed bool) string {
	if msg == "" {
		return ""
	}
	if failed {
		return errorStyle.Render("✗ " + msg)
	}
	return sectionStyle.Render("✓ " + msg)
}

// ParseDate reads a form date. Blank input yields now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date must look like MM/DD/YYYY")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
