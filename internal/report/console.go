package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stocklens/internal/analytics"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Italic(true)

	bullishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	bearishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))
)

// ConsolePrinter writes the full analytics run to a terminal, one numbered
// section per module.
type ConsolePrinter struct {
	out io.Writer
}

func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{out: out}
}

// Print renders every module section in canonical order.
func (p *ConsolePrinter) Print(res *analytics.Results) {
	fmt.Fprintln(p.out, bannerStyle.Render("COMPREHENSIVE STOCK ANALYTICS"))
	fmt.Fprintln(p.out)

	for i, module := range analytics.ConsoleOrder {
		heading := fmt.Sprintf("=== %d. %s ===", i+1, analytics.ModuleTitles[module])
		fmt.Fprintln(p.out, sectionStyle.Render(heading))

		if err, failed := res.Failed(module); failed {
			fmt.Fprintln(p.out, skippedStyle.Render(
				fmt.Sprintf("skipped: %s [%s]", err.Detail, err.Kind)))
			fmt.Fprintln(p.out)
			continue
		}

		for _, line := range ModuleLines(module, res) {
			fmt.Fprintln(p.out, p.styleLine(module, line, res))
		}
		fmt.Fprintln(p.out)
	}
}

// styleLine highlights directional signal lines; everything else passes
// through unstyled.
func (p *ConsolePrinter) styleLine(module, line string, res *analytics.Results) string {
	var signal analytics.Signal
	switch module {
	case analytics.ModuleTechnical:
		if res.Technical != nil {
			signal = res.Technical.Signal
		}
	case analytics.ModulePredictive:
		if res.Predictive != nil {
			signal = res.Predictive.Trend
		}
	case analytics.ModuleSentiment:
		if res.Sentiment != nil {
			signal = res.Sentiment.Signal
		}
	default:
		return line
	}

	switch {
	case signal == analytics.SignalBullish && strings.Contains(line, string(analytics.SignalBullish)):
		return bullishStyle.Render(line)
	case signal == analytics.SignalBearish && strings.Contains(line, string(analytics.SignalBearish)):
		return bearishStyle.Render(line)
	}
	return line
}
