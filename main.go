//go:build !gui

// Package main provides the fovea CLI: an RSVP speed reader for the
// terminal that remembers where you left off.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/foveal/fovea/internal/config"
	"github.com/foveal/fovea/internal/extract"
	"github.com/foveal/fovea/internal/history"
	"github.com/foveal/fovea/internal/rsvp"
	"github.com/foveal/fovea/internal/session"
)

var (
	readWPM   int
	readFrame int
	readFresh bool

	resumeWPM   int
	resumeFrame int

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fovea [file]",
		Short: "RSVP speed reader for the terminal",
		Long: `Fovea presents a document one word at a time, anchored on the optimal
recognition point, at a configurable pace. It reads EPUB, Markdown and
plain text files, or text piped to stdin. Quitting saves the reading
position; running fovea with no input resumes it.`,
		Example: `  fovea book.epub           Read a book at the configured pace
  fovea -w 500 notes.md     Read at 500 words per minute
  cat README.md | fovea     Read from stdin
  fovea                     Resume the saved session`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.Flags().IntVarP(&readWPM, "wpm", "w", rsvp.DefaultWPM, "words per minute")
	rootCmd.Flags().IntVar(&readFrame, "frame", 1, "words shown at once")
	rootCmd.Flags().BoolVar(&readFresh, "fresh", false, "ignore the saved session")

	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reading.WPM)
	applyIntConfig(cmd, "frame", &readFrame, fileCfg.Reading.Frame)
	if err := validateReadFlags(readWPM, readFrame); err != nil {
		return err
	}

	store := defaultSessionStore()
	autosave := autosaveEnabled(fileCfg.Session)

	var text, source string
	var doc *extract.Document
	switch {
	case len(args) > 0:
		doc, err = extract.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		text, source = doc.Text, args[0]
	case stdinIsPiped():
		text, err = readStdinText()
		if err != nil {
			return err
		}
		source = "stdin"
	default:
		// Bare invocation: pick up the saved session when there is one.
		if !readFresh && store.Has() {
			return resumeSaved(cmd, store, fileCfg, readWPM, readFrame, autosave)
		}
		return fmt.Errorf("no input: pass a file, pipe text to stdin, or run 'fovea resume'")
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to read")
	}

	r := rsvp.NewReader(text, settingsFromConfig(readWPM, fileCfg.Reading))
	if doc != nil {
		r.SetChapters(doc.Chapters, doc.TOC)
	}

	// Reopening the document a saved session was reading picks the position
	// back up; the position comes from the session, the settings from flags
	// and config as usual.
	if !readFresh && len(args) > 0 {
		if saved, ok := store.Load(); ok && saved.Text == text && saved.CurrentWordIndex > 0 {
			r.SeekWord(saved.CurrentWordIndex)
			current, total := r.Progress()
			logErrf("Resuming at word %d of %d; use --fresh to start over\n", current, total)
		}
	}

	return runTUI(r, store, autosave, text, source, readFrame)
}

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume the saved reading session",
		Args:  cobra.NoArgs,
		RunE:  runResumeCmd,
	}
	cmd.Flags().IntVarP(&resumeWPM, "wpm", "w", rsvp.DefaultWPM, "words per minute")
	cmd.Flags().IntVar(&resumeFrame, "frame", 1, "words shown at once")
	return cmd
}

func runResumeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &resumeWPM, fileCfg.Reading.WPM)
	applyIntConfig(cmd, "frame", &resumeFrame, fileCfg.Reading.Frame)
	if err := validateReadFlags(resumeWPM, resumeFrame); err != nil {
		return err
	}
	return resumeSaved(cmd, defaultSessionStore(), fileCfg, resumeWPM, resumeFrame, autosaveEnabled(fileCfg.Session))
}

// resumeSaved rebuilds a reader from the saved session. Saved settings win
// over the config file; an explicit --wpm flag wins over both. The saved
// index is clamped against the re-tokenized text, so a record written
// against a different tokenization still lands on a valid word.
func resumeSaved(cmd *cobra.Command, store *session.Store, fileCfg config.FileConfig, wpm, frame int, autosave bool) error {
	saved, ok := store.Load()
	if !ok {
		if store.Has() {
			return fmt.Errorf("saved session is unreadable; run 'fovea clear' to discard it")
		}
		return fmt.Errorf("no saved session to resume")
	}

	settings := settingsFromConfig(wpm, fileCfg.Reading)
	if saved.Settings != nil {
		settings = *saved.Settings
		if cmd.Flags().Changed("wpm") {
			settings.WPM = wpm
		}
	}

	r := rsvp.NewReader(saved.Text, settings)
	r.SeekWord(saved.CurrentWordIndex)

	current, total := r.Progress()
	logErrf("Resuming at word %d of %d (saved %s)\n",
		current, total, time.UnixMilli(saved.SavedAt).Format("Jan 2 15:04"))

	return runTUI(r, store, autosave, saved.Text, "resume", frame)
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the saved reading session",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	store := defaultSessionStore()
	sum, sumOK := store.GetSummary()
	if !store.Has() {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved session.")
		return nil
	}
	if !store.Clear() {
		return fmt.Errorf("failed to clear saved session")
	}
	if sumOK && sum.TotalWords > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared saved session (was at word %d of %d).\n",
			sum.CurrentWordIndex+1, sum.TotalWords)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved session cleared.")
	return nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported document formats",
		Args:  cobra.NoArgs,
		RunE:  runFormatsCmd,
	}
}

func runFormatsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, f := range extract.SupportedFormats() {
		fmt.Fprintln(out, f)
	}
	fmt.Fprintln(out, "Files with other extensions are read as plain text.")
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 10, "number of recent runs to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := history.Open(config.DefaultHistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	runs, err := st.ListRuns(ctx, historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No reading history yet.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %-24s %6d words %5d WPM  %s\n",
			run.EndedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(run.Source),
			run.WordsRead,
			run.WPM,
			(time.Duration(run.DurationMs) * time.Millisecond).Round(time.Second),
		)
	}

	totals, err := st.GetTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load totals: %w", err)
	}
	fmt.Fprintf(out, "\n%d runs, %d words, %s total\n",
		totals.Runs, totals.WordsRead, totals.Duration.Round(time.Second))
	return nil
}

func runTUI(r *rsvp.Reader, store *session.Store, autosave bool, text, source string, frameSize int) error {
	startIndex := r.CurrentIndex
	startedAt := time.Now()

	p := tea.NewProgram(newModel(r, frameSize), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run reader: %w", err)
	}

	// The model mutates the shared Reader, so r now holds the final position.
	if autosave {
		saveSession(store, text, r)
	}
	recordRun(source, startedAt, startIndex, r)
	return nil
}

func validateReadFlags(wpm, frame int) error {
	if wpm <= 0 {
		return fmt.Errorf("--wpm must be > 0")
	}
	if frame < 1 {
		return fmt.Errorf("--frame must be >= 1")
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
