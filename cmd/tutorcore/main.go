// TutorCore is a scripted lesson engine for terminal tutoring.
// Usage: tutorcore [--version] [--plain] [--script <file>] [--settings <file>]
// [--export <file>] [--import <file>] <lesson_directory> [lesson_id]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/tutorcore/cli"
	"github.com/nathoo/tutorcore/engine"
	"github.com/nathoo/tutorcore/engine/progress"
	"github.com/nathoo/tutorcore/engine/save"
	"github.com/nathoo/tutorcore/loader"
	"github.com/nathoo/tutorcore/store"
	"github.com/nathoo/tutorcore/tui"
	"github.com/nathoo/tutorcore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// settings is the optional YAML host configuration.
type settings struct {
	CharsPerSecond float64 `yaml:"chars_per_second"`
	DataDir        string  `yaml:"data_dir"`
	Session        string  `yaml:"session"`
}

func defaultSettings() settings {
	dataDir := ".tutorcore"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".tutorcore")
	}
	return settings{
		CharsPerSecond: engine.DefaultRevealRate,
		DataDir:        dataDir,
	}
}

func loadSettings(path string) (settings, error) {
	cfg := defaultSettings()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	plain := false
	var lessonDir string
	var lessonID string
	var scriptFile string
	var settingsFile string
	var exportFile string
	var importFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("tutorcore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--settings":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--settings requires a file path\n")
				os.Exit(1)
			}
			i++
			settingsFile = args[i]
		case "--export":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--export requires a file path\n")
				os.Exit(1)
			}
			i++
			exportFile = args[i]
		case "--import":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--import requires a file path\n")
				os.Exit(1)
			}
			i++
			importFile = args[i]
		default:
			if lessonDir == "" {
				lessonDir = args[i]
			} else if lessonID == "" {
				lessonID = args[i]
			}
		}
	}

	if lessonDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: tutorcore [--version] [--plain] [--script <file>] [--settings <file>] <lesson_directory> [lesson_id]\n")
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "tutorcore",
	})

	cfg, err := loadSettings(settingsFile)
	if err != nil {
		logger.Fatal("loading settings", "err", err)
	}

	// Load and compile Lua lesson content.
	lessons, err := loader.Load(lessonDir)
	if err != nil {
		logger.Fatal("loading lessons", "err", err)
	}

	def, err := pickLesson(lessons, lessonID)
	if err != nil {
		logger.Fatal("selecting lesson", "err", err)
	}

	ctx := context.Background()

	st, err := store.Open(filepath.Join(cfg.DataDir, "tutorcore.db"))
	if err != nil {
		logger.Fatal("opening store", "err", err)
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal("preparing store", "err", err)
	}

	sessionID, err := resolveSession(ctx, st, cfg.Session)
	if err != nil {
		logger.Fatal("resolving session", "err", err)
	}

	record, err := st.LoadRecord(ctx, sessionID)
	if err != nil {
		logger.Fatal("loading progress", "err", err)
	}
	if importFile != "" {
		data, err := os.ReadFile(importFile)
		if err != nil {
			logger.Fatal("reading import", "err", err)
		}
		snap, err := save.Load(data)
		if err != nil {
			logger.Fatal("parsing import", "err", err)
		}
		save.Apply(record, snap)
		logger.Info("imported progress", "file", importFile, "lessons", len(snap.Record.Correct))
	}
	tier := record.Tier(progress.DefaultThresholds)
	logger.Debug("session ready", "session", sessionID, "tier", tier)

	lesson := engine.New(def, record, engine.Hooks{})
	if cfg.CharsPerSecond > 0 {
		lesson.SetRevealRate(cfg.CharsPerSecond)
	}

	// Script mode: open file, force plain, echo answers.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			logger.Fatal("opening script", "err", err)
		}
		defer f.Close()
		c := cli.New(lesson)
		c.In = f
		c.EchoInput = true
		runPlain(ctx, logger, st, c, lesson, def, sessionID, tier)
		exportRecord(logger, exportFile, sessionID, record)
		return
	}

	// Use the plain CLI if --plain or stdout is not a terminal.
	if plain || !isTerminal() {
		runPlain(ctx, logger, st, cli.New(lesson), lesson, def, sessionID, tier)
		exportRecord(logger, exportFile, sessionID, record)
		return
	}

	if err := tui.Run(lesson, def.Title, tier); err != nil {
		logger.Fatal("running lesson", "err", err)
	}
	saveOutcome(ctx, logger, st, lesson, def, sessionID, tier)
	exportRecord(logger, exportFile, sessionID, record)
}

// exportRecord writes the in-memory record to a JSON snapshot file.
func exportRecord(logger *log.Logger, path, sessionID string, rec *progress.Record) {
	if path == "" {
		return
	}
	data, err := save.Export(sessionID, rec)
	if err != nil {
		logger.Error("exporting progress", "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("writing export", "err", err)
	}
}

func runPlain(ctx context.Context, logger *log.Logger, st *store.SQLiteStore,
	c *cli.CLI, lesson *engine.Lesson, def types.LessonDef, sessionID string, tier types.Tier) {
	fmt.Printf("%s\n\n", def.Title)
	if err := c.Run(tier); err != nil {
		logger.Fatal("running lesson", "err", err)
	}
	saveOutcome(ctx, logger, st, lesson, def, sessionID, tier)
}

// saveOutcome records the lesson result if the lesson actually concluded.
// A mid-lesson quit leaves the stored record untouched.
func saveOutcome(ctx context.Context, logger *log.Logger, st *store.SQLiteStore,
	lesson *engine.Lesson, def types.LessonDef, sessionID string, tier types.Tier) {
	phase := lesson.Phase()
	if phase != types.PhaseFinished && phase != types.PhaseRemediating {
		return
	}
	err := st.SaveResult(ctx, store.Result{
		SessionID: sessionID,
		LessonID:  def.ID,
		Tier:      tier,
		Correct:   lesson.CorrectCount(),
		Total:     lesson.QuestionCount(),
		Passed:    phase == types.PhaseFinished,
	})
	if err != nil {
		logger.Error("saving result", "err", err)
	}
}

// pickLesson selects the named lesson, or the first one when no ID is given.
func pickLesson(lessons []types.LessonDef, id string) (types.LessonDef, error) {
	if len(lessons) == 0 {
		return types.LessonDef{}, fmt.Errorf("no lessons loaded")
	}
	if id == "" {
		return lessons[0], nil
	}
	for _, def := range lessons {
		if def.ID == id {
			return def, nil
		}
	}
	return types.LessonDef{}, fmt.Errorf("lesson %q not found", id)
}

// resolveSession reuses the configured session if it exists, otherwise
// creates a fresh one.
func resolveSession(ctx context.Context, st *store.SQLiteStore, configured string) (string, error) {
	if configured != "" {
		exists, err := st.SessionExists(ctx, configured)
		if err != nil {
			return "", err
		}
		if exists {
			return configured, nil
		}
	}
	return st.NewSession(ctx, "learner")
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
