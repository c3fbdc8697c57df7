package extract

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/foveal/fovea/internal/rsvp"
)

// MarkdownFormat implements Format for Markdown files. Extraction parses
// the document and walks the AST, so heading marks, emphasis markers,
// list bullets and link targets never show up as words on screen.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return strings.Join(parseMarkdown(data).words, " "), nil
}

// TOC extracts the table of contents from the headings.
func (f *MarkdownFormat) TOC(filename string) ([]rsvp.TOCEntry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseMarkdown(data).toc, nil
}

// ExtractChapters extracts text with chapter boundaries at the headings.
func (f *MarkdownFormat) ExtractChapters(filename string) ([]rsvp.Chapter, []string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	d := parseMarkdown(data)
	return d.chapters, d.words, nil
}

// mdDoc is one parsed Markdown document. words is the reading stream;
// heading text is part of it, and chapter and TOC indices point into it.
type mdDoc struct {
	words    []string
	chapters []rsvp.Chapter
	toc      []rsvp.TOCEntry
}

func parseMarkdown(data []byte) mdDoc {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(data))

	var d mdDoc
	var open *rsvp.Chapter

	closeChapter := func() {
		if open != nil && len(d.words) > open.WordStart {
			open.WordEnd = len(d.words) - 1
			d.chapters = append(d.chapters, *open)
		}
		open = nil
	}
	addText := func(s string) {
		d.words = append(d.words, strings.Fields(s)...)
	}
	addLines := func(lines *gmtext.Segments) {
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			addText(string(seg.Value(data)))
		}
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			closeChapter()
			title := headingText(n, data)
			open = &rsvp.Chapter{Title: title, WordStart: len(d.words)}
			d.toc = append(d.toc, rsvp.TOCEntry{
				Title:     title,
				WordIndex: len(d.words),
				Level:     n.Level - 1,
			})
			// The walk continues into the heading's text nodes, so
			// the title itself lands in the reading stream.
		case *ast.Text:
			addText(string(n.Segment.Value(data)))
		case *ast.String:
			addText(string(n.Value))
		case *ast.FencedCodeBlock:
			addLines(n.Lines())
		case *ast.CodeBlock:
			addLines(n.Lines())
		}
		return ast.WalkContinue, nil
	})
	closeChapter()

	if len(d.chapters) == 0 && len(d.words) > 0 {
		d.chapters = append(d.chapters, rsvp.Chapter{
			Title:     "Document",
			WordStart: 0,
			WordEnd:   len(d.words) - 1,
		})
	}

	// Previews start past the heading's own words.
	for i := range d.toc {
		start := d.toc[i].WordIndex + len(strings.Fields(d.toc[i].Title))
		if start > len(d.words) {
			start = len(d.words)
		}
		d.toc[i].Preview = preview(d.words[start:])
	}

	return d
}

// headingText concatenates the text content of a heading's children.
func headingText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(src))
		case *ast.String:
			sb.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
