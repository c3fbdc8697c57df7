//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/foveal/fovea/internal/config"
	"github.com/foveal/fovea/internal/extract"
	"github.com/foveal/fovea/internal/rsvp"
	"github.com/foveal/fovea/internal/session"
)

type model struct {
	*rsvp.Reader
	fontSize   float32
	tocVisible bool
	store      *session.Store
	autosave   bool
	text       string
	source     string
	startedAt  time.Time
	startIndex int
}

func newModel(text string, settings rsvp.Settings, store *session.Store, autosave bool, source string) *model {
	r := rsvp.NewReader(text, settings)
	r.Paused = true // GUI starts paused
	return &model{
		Reader:    r,
		fontSize:  72,
		store:     store,
		autosave:  autosave,
		text:      text,
		source:    source,
		startedAt: time.Now(),
	}
}

func (m *model) adjustWPM(delta int) {
	wpm := m.Settings.EffectiveWPM() + delta
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}
	m.Settings.WPM = wpm
}

// pauseForJump pauses playback on a sentence jump unless the previous jump
// was within the debounce window, so holding an arrow key scans without
// re-pausing every repeat.
func (m *model) pauseForJump() {
	now := time.Now()
	if now.Sub(m.LastArrowPress) > arrowDebounce {
		m.Paused = true
	}
	m.LastArrowPress = now
}

func createWordDisplay(word string, fontSize float32, windowWidth float32) *fyne.Container {
	before, orp, after := rsvp.SplitWord(word)

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	orpText := canvas.NewText(orp, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	orpText.TextSize = fontSize
	orpText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	beforeSize := beforeText.MinSize()
	orpSize := orpText.MinSize()

	// Anchor the recognition point at the horizontal center.
	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			orpText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	orpText.Move(fyne.NewPos(centerX, 0))
	afterText.Move(fyne.NewPos(centerX+orpSize.Width, 0))

	return c
}

// centerVerticalLayout centers its objects vertically and leaves the X
// positions set by createWordDisplay untouched.
type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		if size := o.MinSize(); size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		if objSize := o.MinSize(); objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	for _, o := range objects {
		o.Move(fyne.NewPos(o.Position().X, y))
		o.Resize(o.MinSize())
	}
}

func main() {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("warning: ignoring config file: %v\n", err)
		fileCfg = config.FileConfig{}
	}
	defaultWPM := rsvp.DefaultWPM
	if fileCfg.Reading.WPM != nil {
		defaultWPM = *fileCfg.Reading.WPM
	}

	wpm := flag.Int("w", defaultWPM, "Words per minute")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	showTOC := flag.Bool("toc", false, "Show table of contents at startup")
	freshStart := flag.Bool("fresh", false, "Ignore the saved session")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fovea - GUI speed reader\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  fovea [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fovea file.txt            Read a file\n")
		fmt.Fprintf(os.Stderr, "  fovea -w 500 file.txt     Read at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  fovea -toc book.epub      Show the TOC panel at startup\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | fovea      Read from stdin\n")
		fmt.Fprintf(os.Stderr, "  fovea                     Resume the saved session\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("fovea %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}
	if *wpm <= 0 {
		logErrln("Error: -w must be > 0")
		os.Exit(1)
	}
	wpmFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			wpmFlagSet = true
		}
	})

	settings := settingsFromConfig(*wpm, fileCfg.Reading)
	store := defaultSessionStore()

	var (
		text    string
		source  string
		doc     *extract.Document
		restore = -1
	)

	switch {
	case flag.NArg() > 0:
		source = flag.Arg(0)
		var err error
		doc, err = extract.Load(source)
		if err != nil {
			logErrf("Error: failed to read %s: %v\n", source, err)
			os.Exit(1)
		}
		text = doc.Text

		// Reopening the document a saved session was reading picks the
		// position back up.
		if !*freshStart {
			if saved, ok := store.Load(); ok && saved.Text == text && saved.CurrentWordIndex > 0 {
				restore = saved.CurrentWordIndex
			}
		}

	case stdinIsPiped():
		var err error
		text, err = readStdinText()
		if err != nil {
			logErrf("Error: %v\n", err)
			os.Exit(1)
		}
		source = "stdin"

	default:
		saved, ok := store.Load()
		if !ok || *freshStart {
			logErrln("Error: no input: pass a file, pipe text to stdin, or run again after a saved session exists.")
			logErrln("Try: fovea -h")
			os.Exit(1)
		}
		text = saved.Text
		source = "resume"
		restore = saved.CurrentWordIndex
		if saved.Settings != nil {
			settings = *saved.Settings
		}
		if wpmFlagSet {
			settings.WPM = *wpm
		}
	}

	if strings.TrimSpace(text) == "" {
		logErrln("Error: no text to read.")
		os.Exit(1)
	}

	m := newModel(text, settings, store, autosaveEnabled(fileCfg.Session), source)
	if doc != nil {
		m.SetChapters(doc.Chapters, doc.TOC)
	}
	if restore >= 0 {
		m.SeekWord(restore)
	}
	m.startIndex = m.CurrentIndex
	if *showTOC && len(m.TOC) > 0 {
		m.tocVisible = true
	}

	runGUI(m)
}

func runGUI(m *model) {
	a := app.New()
	w := a.NewWindow("fovea - Speed Reader")

	status := func() string {
		current, total := m.Progress()
		s := fmt.Sprintf("Word %d/%d | %d%% | %d WPM | Font: %.0f",
			current, total, m.PercentComplete(), m.Settings.EffectiveWPM(), m.fontSize)
		if title := m.CurrentChapterTitle(); title != "" {
			s += " | " + title
		}
		if m.Paused {
			s += " [PAUSED]"
		}
		return s
	}

	statusLabel := widget.NewLabel(status())
	statusLabel.Alignment = fyne.TextAlignCenter

	tocHint := ""
	if len(m.TOC) > 0 {
		tocHint = "  T: TOC"
	}
	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  +/-: font  ←/→: sentence  R: restart" + tocHint + "  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	wordContainer := container.NewStack()

	updateDisplay := func() {
		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}
		wordContainer.Objects = []fyne.CanvasObject{createWordDisplay(m.CurrentWord(), m.fontSize, canvasWidth)}
		wordContainer.Refresh()
		statusLabel.SetText(status())
	}

	var tocList *widget.List
	var tocPanel *container.Split
	var mainContainer *fyne.Container

	if len(m.TOC) > 0 {
		tocList = widget.NewList(
			func() int { return len(m.TOC) },
			func() fyne.CanvasObject {
				return container.NewVBox(
					widget.NewLabel("Title"),
					widget.NewLabel("Preview"),
				)
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				entry := m.TOC[id]
				vbox := obj.(*fyne.Container)
				titleLabel := vbox.Objects[0].(*widget.Label)
				previewLabel := vbox.Objects[1].(*widget.Label)

				indent := strings.Repeat("  ", entry.Level)
				titleLabel.SetText(indent + entry.Title)
				titleLabel.TextStyle.Bold = true

				preview := entry.Preview
				if runes := []rune(preview); len(runes) > 50 {
					preview = string(runes[:50]) + "..."
				}
				previewLabel.SetText(indent + preview)
			},
		)

		tocList.OnSelected = func(id widget.ListItemID) {
			if id < len(m.TOC) {
				m.JumpToChapter(m.TOC[id].WordIndex)
				m.tocVisible = false
				tocPanel.Leading.Hide()
				tocPanel.Refresh()
				updateDisplay()
			}
		}
	}

	readingContent := container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		wordContainer,
	)

	if len(m.TOC) > 0 {
		tocContainer := container.NewBorder(
			widget.NewLabel("Table of Contents"),
			widget.NewLabel("Click to jump • T to close"),
			nil, nil,
			tocList,
		)

		tocPanel = container.NewHSplit(tocContainer, readingContent)
		tocPanel.Offset = 0.33

		if !m.tocVisible {
			tocContainer.Hide()
		}

		mainContainer = container.NewStack(tocPanel)
	} else {
		mainContainer = container.NewStack(readingContent)
	}

	// The timer is re-armed after every word so punctuation pauses and speed
	// changes take effect immediately. It starts disarmed because the GUI
	// starts paused.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	done := make(chan struct{})
	var closeOnce sync.Once

	shutdown := func() {
		closeOnce.Do(func() {
			close(done)
			if m.autosave {
				saveSession(m.store, m.text, m.Reader)
			}
			recordRun(m.source, m.startedAt, m.startIndex, m.Reader)
		})
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case <-timer.C:
				if m.Paused {
					continue
				}
				if m.Advance() {
					timer.Reset(m.GetDelay())
					fyne.Do(updateDisplay)
				} else {
					// Reached the end
					m.Paused = true
					fyne.Do(updateDisplay)
				}
			}
		}
	}()

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			m.Paused = !m.Paused
			if !m.Paused {
				timer.Reset(m.GetDelay())
			}
			updateDisplay()

		case fyne.KeyUp:
			m.adjustWPM(wpmStep)
			timer.Reset(m.GetDelay())
			updateDisplay()

		case fyne.KeyDown:
			m.adjustWPM(-wpmStep)
			timer.Reset(m.GetDelay())
			updateDisplay()

		case fyne.KeyLeft:
			m.pauseForJump()
			m.JumpToPrevSentence()
			updateDisplay()

		case fyne.KeyRight:
			m.pauseForJump()
			m.JumpToNextSentence()
			updateDisplay()

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			shutdown()
			a.Quit()
		}
	})

	// Handle T, R and font keys
	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			if tocPanel != nil && len(m.TOC) > 0 {
				m.tocVisible = !m.tocVisible
				if m.tocVisible {
					m.Paused = true
					tocPanel.Leading.Show()
				} else {
					tocPanel.Leading.Hide()
				}
				tocPanel.Refresh()
				updateDisplay()
			}

		case 'r', 'R':
			// Restart from the beginning and drop the saved position.
			m.SeekWord(0)
			m.store.Clear()
			updateDisplay()

		case '+', '=':
			if m.fontSize < 200 {
				m.fontSize += 5
				updateDisplay()
			}
		case '-':
			if m.fontSize > 20 {
				m.fontSize -= 5
				updateDisplay()
			}
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)

	// Pause and redraw on window resize so the word re-anchors.
	go func() {
		lastWidth := float32(800)
		for {
			select {
			case <-done:
				return
			default:
				time.Sleep(100 * time.Millisecond)
				currentWidth := w.Canvas().Size().Width
				if currentWidth > 0 && currentWidth != lastWidth {
					lastWidth = currentWidth
					m.Paused = true
					fyne.Do(updateDisplay)
				}
			}
		}
	}()

	w.SetOnClosed(shutdown)

	// Draw the first word once the window has a size.
	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(updateDisplay)
	}()

	w.ShowAndRun()
}
