package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/foveal/fovea/internal/config"
	"github.com/foveal/fovea/internal/history"
	"github.com/foveal/fovea/internal/rsvp"
	"github.com/foveal/fovea/internal/session"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Playback limits shared by the terminal and GUI front ends.
const (
	minWPM  = 100
	maxWPM  = 1500
	wpmStep = 50

	arrowDebounce = 500 * time.Millisecond
)

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

func readStdinText() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func defaultSessionStore() *session.Store {
	return session.NewStore(session.NewFileBackend(config.DefaultSessionPath()))
}

// settingsFromConfig builds playback settings from the config file, with the
// already-resolved WPM value. Keys absent from the file keep the zero values
// the effective-value accessors default.
func settingsFromConfig(wpm int, cfg config.ReadingConfig) rsvp.Settings {
	s := rsvp.Settings{WPM: wpm}
	if cfg.PauseOnPunctuation != nil {
		v := *cfg.PauseOnPunctuation
		s.PauseOnPunctuation = &v
	}
	if cfg.PunctuationMultiplier != nil {
		s.PunctuationPauseMultiplier = *cfg.PunctuationMultiplier
	}
	if cfg.PauseAfterWords != nil {
		s.PauseAfterWords = *cfg.PauseAfterWords
	}
	if cfg.PauseDuration != nil {
		s.PauseDuration = *cfg.PauseDuration
	}
	if cfg.WordLengthMultiplier != nil {
		s.WordLengthWPMMultiplier = *cfg.WordLengthMultiplier
	}
	return s
}

func autosaveEnabled(cfg config.SessionConfig) bool {
	return cfg.Autosave == nil || *cfg.Autosave
}

// saveSession persists the reading position so a later bare invocation can
// resume it. Failures are reported but never fatal.
func saveSession(store *session.Store, text string, r *rsvp.Reader) {
	settings := r.Settings
	sess := session.Session{
		Text:             text,
		CurrentWordIndex: r.CurrentIndex,
		TotalWords:       len(r.Words),
		Settings:         &settings,
	}
	if !store.Save(sess) {
		logErrln("failed to save reading session")
	}
}

// recordRun appends one row to the reading-history ledger. Failures are
// reported but never fatal.
func recordRun(source string, startedAt time.Time, startIndex int, r *rsvp.Reader) {
	if len(r.Words) == 0 {
		return
	}
	st, err := history.Open(config.DefaultHistoryPath())
	if err != nil {
		logErrf("failed to open history: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	endedAt := time.Now()
	wordsRead := r.CurrentIndex - startIndex + 1
	if wordsRead < 0 {
		wordsRead = 0
	}
	run := history.Run{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Source:     source,
		WordsRead:  wordsRead,
		TotalWords: len(r.Words),
		WPM:        r.Settings.EffectiveWPM(),
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	if _, err := st.RecordRun(context.Background(), run); err != nil {
		logErrf("failed to record run: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
