package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/tutorcore/engine"
	"github.com/nathoo/tutorcore/engine/editor"
	"github.com/nathoo/tutorcore/engine/sequence"
	"github.com/nathoo/tutorcore/types"
)

// frameInterval is the tick driving typewriter pacing.
const frameInterval = time.Second / 30

// tickMsg carries one animation frame into the Update loop.
type tickMsg time.Time

// rawLine stores an unstyled transcript line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	speaker  types.Speaker
	isSpeech bool
}

// Model is the Bubble Tea model for a TutorCore lesson.
type Model struct {
	lesson *engine.Lesson
	title  string

	viewport viewport.Model
	history  *History

	rawLines []rawLine // completed transcript lines (unstyled, for re-wrapping)

	width           int
	height          int
	ready           bool
	quitting        bool
	lastPromptIndex int
}

// New creates a TUI model wired to an already-begun lesson.
func New(lesson *engine.Lesson, title string) Model {
	return Model{
		lesson:          lesson,
		title:           title,
		history:         NewHistory(100),
		lastPromptIndex: -1,
	}
}

// Run begins the lesson at the given tier and starts the Bubble Tea
// program.
func Run(lesson *engine.Lesson, title string, tier types.Tier) error {
	if err := lesson.Begin(tier); err != nil {
		return err
	}
	m := New(lesson, title)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return frameTick()
}

// Update handles messages (frames, key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 6 // status bar, reveal area, input form
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tickMsg:
		m.lesson.Tick(frameInterval.Seconds())
		m = m.syncPrompt()
		return m, frameTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key press according to the lesson phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		return m.handleEnter()

	case "tab":
		if form := m.lesson.Form(); form != nil && form.Len() > 1 {
			form.Focus((form.ActiveIndex() + 1) % form.Len())
		}
		return m, nil

	case "backspace":
		if form := m.lesson.Form(); form != nil {
			form.Backspace()
		}
		return m, nil

	case "up":
		if form := m.lesson.Form(); form != nil {
			if prev, ok := m.history.Prev(); ok {
				setFieldText(form, prev)
			}
		}
		return m, nil

	case "down":
		if form := m.lesson.Form(); form != nil {
			if next, ok := m.history.Next(); ok {
				setFieldText(form, next)
			} else {
				form.Active().Reset()
				m.history.ResetCursor()
			}
		}
		return m, nil

	case "pgup", "pgdown":
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		if form := m.lesson.Form(); form != nil {
			runes := msg.Runes
			if msg.Type == tea.KeySpace {
				runes = []rune{' '}
			}
			for _, r := range runes {
				form.Insert(r)
			}
			return m, nil
		}
	}
	return m, nil
}

// handleEnter advances dialogue, acknowledges feedback, or submits the
// current answer, depending on where the lesson stands.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.lesson.DialogueState() {
	case sequence.Playing:
		m.lesson.Skip()
		return m, nil

	case sequence.AwaitingAdvance:
		line := m.lesson.Line()
		m = m.appendLine(rawLine{text: line.Text, speaker: line.Speaker, isSpeech: true})
		m.lesson.Advance()
		m = m.syncPrompt()
		return m, nil
	}

	switch m.lesson.Phase() {
	case types.PhaseReviewingFeedback:
		if err := m.lesson.AcknowledgeFeedback(); err == nil {
			m = m.syncPrompt()
		}
		return m, nil

	case types.PhaseAskingQuestion:
		return m.submitAnswer()

	case types.PhaseFinished, types.PhaseRemediating:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// submitAnswer handles enter on the input form: advance to the next field,
// or grade the combined answer on the last one.
func (m Model) submitAnswer() (tea.Model, tea.Cmd) {
	form := m.lesson.Form()
	if form == nil {
		return m, nil
	}
	if !form.Submit() {
		return m, nil // moved focus to the next field
	}

	answer := strings.Join(form.Values(), "\n")
	m.history.Push(answer)
	m.history.ResetCursor()
	m = m.appendLine(rawLine{text: "> " + strings.ReplaceAll(answer, "\n", " / "), kind: kindInput})

	verdict, err := m.lesson.SubmitAnswer(answer)
	if err != nil {
		m = m.appendLine(rawLine{text: err.Error(), kind: kindError})
		return m, nil
	}
	if verdict.Message != "" {
		m = m.appendLine(rawLine{text: verdict.Message, kind: verdictKind(verdict)})
	}
	return m, nil
}

// syncPrompt appends the question prompt to the transcript the first time
// each question opens.
func (m Model) syncPrompt() Model {
	if m.lesson.Phase() != types.PhaseAskingQuestion {
		return m
	}
	if m.lesson.QuestionIndex() == m.lastPromptIndex {
		return m
	}
	m.lastPromptIndex = m.lesson.QuestionIndex()
	m.history.SetQuestion(m.lastPromptIndex)
	m = m.appendLine(rawLine{})
	return m.appendLine(rawLine{text: m.lesson.Question().Prompt, kind: kindPrompt})
}

// appendLine adds one line to the transcript and refreshes the viewport.
func (m Model) appendLine(rl rawLine) Model {
	m.rawLines = append(m.rawLines, rl)
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all transcript lines at the
// current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		if rl.isSpeech {
			styled = append(styled, renderSpeakerLine(rl.speaker, wrapped))
		} else {
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full layout: transcript, active reveal, status bar, and
// the input form.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" +
		m.renderRevealArea() + "\n" +
		m.renderStatusBar() + "\n" +
		m.renderInputArea()
}

// renderRevealArea shows the line currently typing out, or the advance
// affordance once it has fully revealed.
func (m Model) renderRevealArea() string {
	switch m.lesson.DialogueState() {
	case sequence.Playing:
		line := m.lesson.Line()
		return renderSpeakerLine(line.Speaker, m.lesson.Visible()) + "\n"
	case sequence.AwaitingAdvance:
		line := m.lesson.Line()
		return renderSpeakerLine(line.Speaker, line.Text) + "\n" +
			styleContinue.Render("  press enter to continue")
	default:
		return "\n"
	}
}

// renderInputArea shows the question form while answering, or the final
// outcome once the lesson ends.
func (m Model) renderInputArea() string {
	switch m.lesson.Phase() {
	case types.PhaseAskingQuestion:
		form := m.lesson.Form()
		if form == nil {
			return ""
		}
		var lines []string
		for i := 0; i < form.Len(); i++ {
			f := form.Field(i)
			label := f.Label()
			if label != "" {
				label += "> "
			} else {
				label = "> "
			}
			text := f.Text()
			if i == form.ActiveIndex() {
				lines = append(lines, styleFieldActive.Render(label+text+"█"))
			} else {
				lines = append(lines, styleFieldLabel.Render(label+text))
			}
		}
		return strings.Join(lines, "\n")

	case types.PhaseFinished:
		return styleSuccess.Render("Lesson complete!") +
			styleContinue.Render("  press enter to exit")

	case types.PhaseRemediating:
		return styleSystem.Render("[Let's go over this again in the review lesson.]") +
			styleContinue.Render("  press enter to exit")
	}
	return ""
}

// setFieldText replaces the active field's buffer with a recalled answer.
// Characters the field's predicate rejects are dropped, same as typed
// input. Multi-line history entries land in the active field with the
// line breaks flattened.
func setFieldText(form *editor.Form, text string) {
	active := form.Active()
	if active == nil {
		return
	}
	active.Reset()
	for _, r := range strings.ReplaceAll(text, "\n", " ") {
		active.Insert(r)
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for answer history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
