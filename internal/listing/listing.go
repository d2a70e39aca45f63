// Package listing renders compiled channel programs for the terminal.
package listing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	pulseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73daca"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)

// Render draws one bordered panel per channel, listing every entry of each
// mini sequence with its kind, label, length and phase.
func Render(prog *compiler.Program) string {
	if prog == nil || len(prog.Channels) == 0 {
		return dimStyle.Render("no channels")
	}
	panels := make([]string, 0, len(prog.Channels))
	for _, cp := range prog.Channels {
		panels = append(panels, renderChannel(cp))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func renderChannel(cp *compiler.ChannelProgram) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", cp.Channel.Label, cp.Channel.Kind)))
	for i, seq := range cp.Seqs {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(fmt.Sprintf("seq %d: %d entries, %g long", i, len(seq), total(seq))))
		for _, e := range seq {
			b.WriteString("\n")
			b.WriteString(row(e))
		}
	}
	return panelStyle.Render(b.String())
}

func row(e sequence.Entry) string {
	p, ok := e.(*sequence.Pulse)
	if !ok {
		return dimStyle.Render(fmt.Sprintf("  %-10s %s", sequence.KindOf(e), sequence.LabelOf(e)))
	}
	line := fmt.Sprintf("  %-10s %-8s %12g %8.4f", "pulse", p.Label, p.Length, p.Phase)
	if p.IsZero {
		return dimStyle.Render(line)
	}
	return pulseStyle.Render(line)
}

func total(seq []sequence.Entry) float64 {
	var sum float64
	for _, e := range seq {
		sum += sequence.Duration(e)
	}
	return sum
}
