// Package extract turns source documents into plain text for the reader,
// recovering chapter and table-of-contents structure from formats that
// carry it. Formats self-register; files with no registered format are
// read as plain text.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/foveal/fovea/internal/rsvp"
)

// Format defines a file format that can extract readable text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

// TOCProvider is an optional interface for formats that can list a table
// of contents.
type TOCProvider interface {
	TOC(filename string) ([]rsvp.TOCEntry, error)
}

// ChapterExtractor is an optional interface for formats that can extract
// text with chapter boundaries.
type ChapterExtractor interface {
	ExtractChapters(filename string) ([]rsvp.Chapter, []string, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func formatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// ExtractText extracts text from a file, using a registered format or a
// plain-text fallback for unknown extensions.
func ExtractText(filename string) (string, error) {
	if f := formatFor(filename); f != nil {
		return f.Extract(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// Document is a loaded source file: its full text plus whatever structure
// the format could recover. Chapters and TOC are nil for flat formats.
type Document struct {
	Text     string
	Chapters []rsvp.Chapter
	TOC      []rsvp.TOCEntry
}

// Load extracts a document, including chapters and TOC when the format
// supports them. Structure extraction failures degrade silently to flat
// text; only a failure to get any text at all is an error.
func Load(filename string) (*Document, error) {
	var doc Document
	f := formatFor(filename)

	if ce, ok := f.(ChapterExtractor); ok {
		if chapters, words, err := ce.ExtractChapters(filename); err == nil && len(words) > 0 {
			doc.Chapters = chapters
			doc.Text = strings.Join(words, " ")
		}
	}
	if tp, ok := f.(TOCProvider); ok {
		if toc, err := tp.TOC(filename); err == nil {
			doc.TOC = toc
		}
	}

	if doc.Text == "" {
		text, err := ExtractText(filename)
		if err != nil {
			return nil, err
		}
		doc.Text = text
	}
	return &doc, nil
}

const previewWords = 10

// preview returns the first few words as a TOC preview line.
func preview(words []string) string {
	if len(words) == 0 {
		return ""
	}
	if len(words) > previewWords {
		words = words[:previewWords]
	}
	return strings.Join(words, " ") + "..."
}
