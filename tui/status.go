package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// lesson title, tier, phase, question progress, and score.
func (m Model) renderStatusBar() string {
	l := m.lesson

	left := fmt.Sprintf(" %s | %s", m.title, l.Tier())
	right := fmt.Sprintf("%s ", l.Phase())

	if l.QuestionCount() > 0 {
		qIndex := l.QuestionIndex() + 1
		if qIndex > l.QuestionCount() {
			qIndex = l.QuestionCount()
		}
		candidate := fmt.Sprintf("Q %d/%d | Attempts: %d | Correct: %d | %s ",
			qIndex, l.QuestionCount(), l.AttemptsUsed(), l.CorrectCount(), l.Phase())
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Q %d/%d | %s ", qIndex, l.QuestionCount(), l.Phase())
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
