package detection

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stackscan/pkg/detection/types"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type model struct {
	result   *types.DetectionResult
	quitting bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "enter":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Detection Results"))
	s.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#01FAC6")).
		Padding(1, 2).
		Width(70)

	var content strings.Builder

	content.WriteString(focusedStyle.Render("Confidence: "))
	content.WriteString(selectedItemStyle.Render(fmt.Sprintf("%.2f (%s)", m.result.Confidence.Score, m.result.Confidence.Level)))
	content.WriteString("\n\n")

	if len(m.result.Frameworks) > 0 {
		content.WriteString(focusedStyle.Render("Frameworks:"))
		content.WriteString("\n")
		for _, fw := range m.result.Frameworks {
			line := fmt.Sprintf("%s (%s, %.2f)", fw.Name, fw.Ecosystem, fw.Confidence)
			if fw.Version != "" {
				line = fmt.Sprintf("%s %s (%s, %.2f)", fw.Name, fw.Version, fw.Ecosystem, fw.Confidence)
			}
			content.WriteString(successStyle.Render("  ✓ "))
			content.WriteString(descriptionStyle.Render(line))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	if len(m.result.BuildTools) > 0 {
		content.WriteString(focusedStyle.Render("Build tools:"))
		content.WriteString("\n")
		for _, bt := range m.result.BuildTools {
			content.WriteString(successStyle.Render("  ✓ "))
			content.WriteString(descriptionStyle.Render(fmt.Sprintf("%s (%.2f)", bt.Name, bt.Confidence)))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	if len(m.result.Warnings) > 0 {
		content.WriteString(focusedStyle.Render("Warnings:"))
		content.WriteString("\n")
		for _, w := range m.result.Warnings {
			style := warnStyle
			if w.Severity == types.SeverityError || w.Severity == types.SeverityCritical {
				style = errorStyle
			}
			content.WriteString(style.Render(fmt.Sprintf("  %s ", severityMark(w.Severity))))
			content.WriteString(descriptionStyle.Render(w.Title))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	if len(m.result.Alternatives) > 0 {
		content.WriteString(focusedStyle.Render("Also worth checking:"))
		content.WriteString("\n")
		for _, alt := range m.result.Alternatives {
			content.WriteString(helpStyle.Render(fmt.Sprintf("  · %s (%.2f): %s\n", alt.Name, alt.Confidence, alt.Reason)))
		}
	}

	s.WriteString(box.Render(content.String()))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press "))
	s.WriteString(focusedStyle.Render("q"))
	s.WriteString(helpStyle.Render(" or "))
	s.WriteString(focusedStyle.Render("enter"))
	s.WriteString(helpStyle.Render(" to exit"))

	return s.String()
}

func severityMark(s types.WarningSeverity) string {
	switch s {
	case types.SeverityCritical, types.SeverityError:
		return "✗"
	case types.SeverityWarning:
		return "!"
	default:
		return "·"
	}
}

// ShowDetectionResults displays the detection result interactively
func ShowDetectionResults(result *types.DetectionResult) error {
	p := tea.NewProgram(model{result: result}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error showing detection results: %w", err)
	}
	return nil
}
