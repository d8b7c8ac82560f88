package tui

import "github.com/charmbracelet/lipgloss"

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleQuestion = lipgloss.NewStyle().
			Bold(true)

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// lineKind identifies the type of a transcript line for styling.
type lineKind int

const (
	kindDialogue lineKind = iota
	kindQuestion
	kindOption
	kindNarration
	kindSystem
	kindWarning
)

// transcriptLine is one unstyled transcript entry; styling is applied at
// render time so lines survive terminal resizes.
type transcriptLine struct {
	kind lineKind
	text string
}

func (l transcriptLine) render() string {
	switch l.kind {
	case kindDialogue:
		return styleDialogue.Render(l.text)
	case kindQuestion:
		return styleQuestion.Render(l.text)
	case kindOption:
		return styleOption.Render(l.text)
	case kindSystem:
		return styleSystem.Render(l.text)
	case kindWarning:
		return styleWarning.Render(l.text)
	default:
		return styleNarration.Render(l.text)
	}
}
