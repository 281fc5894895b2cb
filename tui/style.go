package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/tutorcore/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleSpeaker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleFieldLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleFieldActive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleContinue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// lineKind identifies the type of a transcript line for styling.
type lineKind int

const (
	kindDialogue lineKind = iota
	kindNarration
	kindPrompt
	kindInput
	kindSystem
	kindError
	kindSuccess
)

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindNarration:
		return styleNarration.Render(line)
	case kindPrompt:
		return stylePrompt.Render(line)
	case kindInput:
		return stylePlayerInput.Render(line)
	case kindSystem:
		return styleSystem.Render("[" + line + "]")
	case kindError:
		return styleError.Render(line)
	case kindSuccess:
		return styleSuccess.Render(line)
	default:
		return styleDialogue.Render(line)
	}
}

// verdictKind maps a verdict to its transcript styling.
func verdictKind(v types.Verdict) lineKind {
	switch v.Kind {
	case types.VerdictCorrect:
		return kindSuccess
	case types.VerdictMalformed:
		return kindError
	default:
		return kindSystem
	}
}

// renderSpeakerLine renders "speaker: text" with the speaker highlighted.
// Narration lines have no speaker.
func renderSpeakerLine(speaker types.Speaker, text string) string {
	if speaker == "" {
		return styleNarration.Render(text)
	}
	return styleSpeaker.Render(string(speaker)+": ") + styleDialogue.Render(text)
}
