package extract

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"

	"github.com/foveal/fovea/internal/rsvp"
)

// EPUBFormat implements Format for EPUB archives.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Extract(filename string) (string, error) {
	bk, err := readBook(filename)
	if err != nil {
		return "", err
	}
	var words []string
	for _, s := range bk.sections {
		words = append(words, s.words...)
	}
	return strings.Join(words, " "), nil
}

// ExtractChapters extracts text with one chapter per spine document,
// titled from the NCX when an entry matches, else by spine order.
func (f *EPUBFormat) ExtractChapters(filename string) ([]rsvp.Chapter, []string, error) {
	bk, err := readBook(filename)
	if err != nil {
		return nil, nil, err
	}

	titles := bk.titlesByHref()

	var allWords []string
	var chapters []rsvp.Chapter
	for i, s := range bk.sections {
		if len(s.words) == 0 {
			continue
		}

		start := len(allWords)
		allWords = append(allWords, s.words...)

		title := fmt.Sprintf("Section %d", i+1)
		if s.href != "" {
			if t, ok := titles[s.href]; ok {
				title = t
			} else if t, ok := titles[path.Base(s.href)]; ok {
				title = t
			}
		}

		chapters = append(chapters, rsvp.Chapter{
			Title:     title,
			WordStart: start,
			WordEnd:   len(allWords) - 1,
		})
	}

	return chapters, allWords, nil
}

// section is one spine document, already tokenized. wordStart is the
// index of its first word in the book-wide sequence.
type section struct {
	href      string
	words     []string
	wordStart int
}

func (s section) preview() string {
	return preview(s.words)
}

// book is the result of one pass over an EPUB archive. Extract, TOC and
// ExtractChapters all work from this, so the word indices they report
// agree with each other.
type book struct {
	sections []section
	ncx      []byte // raw NCX document, nil when the archive has none
}

func readBook(filename string) (*book, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	rootfile := rc.Rootfiles[0]

	bk := &book{}
	wordCount := 0
	for _, ref := range rootfile.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		words := rsvp.ParseText(htmlToText(string(data)))
		bk.sections = append(bk.sections, section{
			href:      ref.Item.HREF,
			words:     words,
			wordStart: wordCount,
		})
		wordCount += len(words)
	}

	// Missing NCX is not an error; the book just has no TOC.
	bk.ncx, _ = readNCX(filename, rootfile)

	return bk, nil
}

// htmlToText returns the text content of an HTML document, with tags
// stripped and text nodes joined by spaces. Script and style subtrees are
// skipped; their text is code, not prose.
func htmlToText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String()
}
