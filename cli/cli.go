// Package cli provides a plain stdio host for the TutorCore lesson engine.
// Dialogue reveals instantly, questions become line prompts, and
// meta-commands start with '/'. Suitable for script playback and tests.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/tutorcore/engine"
	"github.com/nathoo/tutorcore/engine/sequence"
	"github.com/nathoo/tutorcore/types"
)

// CLI handles terminal interaction with the learner.
type CLI struct {
	Lesson    *engine.Lesson
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given lesson.
func New(lesson *engine.Lesson) *CLI {
	return &CLI{
		Lesson: lesson,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run drives the lesson end to end for the given tier: intro and teaching
// dialogue, then prompt → submit → feedback per question, then the
// conclusion. Returns once the lesson finishes or input runs out.
func (c *CLI) Run(tier types.Tier) error {
	c.Lesson.SetRevealRate(0) // plain host: no typewriter pacing
	if err := c.Lesson.Begin(tier); err != nil {
		return err
	}
	c.drainDialogue()

	scanner := bufio.NewScanner(c.In)
	for {
		switch c.Lesson.Phase() {
		case types.PhaseAskingQuestion:
			if quit := c.askQuestion(scanner); quit {
				return nil
			}
			c.drainDialogue()
			if c.Lesson.Phase() == types.PhaseReviewingFeedback {
				if err := c.Lesson.AcknowledgeFeedback(); err != nil {
					return err
				}
				c.drainDialogue()
			}

		case types.PhaseFinished:
			c.printSystem(fmt.Sprintf("Lesson complete: %d/%d correct.",
				c.Lesson.CorrectCount(), c.Lesson.QuestionCount()))
			return nil

		case types.PhaseRemediating:
			c.printSystem(fmt.Sprintf("Lesson needs review: %d/%d correct.",
				c.Lesson.CorrectCount(), c.Lesson.QuestionCount()))
			return nil

		default:
			return fmt.Errorf("lesson stalled in phase %s", c.Lesson.Phase())
		}
	}
}

// drainDialogue plays out any active script: each line is skipped to full
// visibility, printed, and advanced.
func (c *CLI) drainDialogue() {
	for {
		switch c.Lesson.DialogueState() {
		case sequence.Playing:
			c.Lesson.Skip()
		case sequence.AwaitingAdvance:
			c.printDialogueLine(c.Lesson.Line())
			c.Lesson.Advance()
		default:
			return
		}
	}
}

// askQuestion prompts for every field of the current question and submits
// the combined answer. Returns true when the learner quits or input ends.
func (c *CLI) askQuestion(scanner *bufio.Scanner) bool {
	q := c.Lesson.Question()
	c.printLine("")
	c.printLine(q.Prompt)

	form := c.Lesson.Form()
	for {
		label := ""
		if f := form.Active(); f != nil {
			label = f.Label()
		}
		if label != "" {
			c.print(label + "> ")
		} else {
			c.print("> ")
		}

		input, ok := c.readLine(scanner)
		if !ok {
			return true
		}
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return true
			}
			continue
		}

		for _, r := range input {
			form.Insert(r)
		}
		if form.Submit() {
			break
		}
	}

	answer := strings.Join(form.Values(), "\n")
	verdict, err := c.Lesson.SubmitAnswer(answer)
	if err != nil {
		c.printSystem(err.Error())
		return false
	}

	switch verdict.Kind {
	case types.VerdictAlmostCorrect:
		c.printSystem("So close! " + verdict.Message)
	case types.VerdictIncorrect:
		c.printSystem("Not quite. " + verdict.Message)
	case types.VerdictMalformed:
		c.printSystem(verdict.Message)
		// The free-correction path leaves the form untouched. A line host
		// cannot edit the old buffer in place, so clear it for the retry.
		if f := c.Lesson.Form(); f != nil {
			f.Reset()
		}
	}
	return false
}

// readLine reads the next meaningful input line, skipping blanks and
// comment lines (for script files). Returns false on EOF.
func (c *CLI) readLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}
		return input, true
	}
	return "", false
}

// handleMeta dispatches meta-commands. Returns true if the lesson should
// exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/skip":
		c.Lesson.Skip()

	case "/hint":
		hint := c.Lesson.Question().Hint
		if hint == "" {
			hint = "No hint for this one."
		}
		c.printSystem(hint)

	case "/state":
		c.cmdState()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}
	return false
}

func (c *CLI) cmdState() {
	l := c.Lesson
	c.printSystem(fmt.Sprintf("Phase: %s", l.Phase()))
	c.printSystem(fmt.Sprintf("Tier: %s", l.Tier()))
	c.printSystem(fmt.Sprintf("Question: %d/%d", l.QuestionIndex()+1, l.QuestionCount()))
	c.printSystem(fmt.Sprintf("Attempts: %d", l.AttemptsUsed()))
	c.printSystem(fmt.Sprintf("Correct: %d", l.CorrectCount()))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"Commands:",
		"  /hint   - Show the current question's hint",
		"  /state  - Show lesson progress",
		"  /skip   - Skip the current dialogue reveal",
		"  /quit   - Exit the lesson",
		"  /help   - Show this help",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printDialogueLine(line types.DialogueLine) {
	if line.Speaker != "" {
		c.printLine(fmt.Sprintf("%s: %s", line.Speaker, line.Text))
		return
	}
	c.printLine(line.Text)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
