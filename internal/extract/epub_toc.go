package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/foveal/fovea/internal/rsvp"
)

// NCX document structure, the EPUB 2 navigation format. EPUB 3 books
// usually still ship one for compatibility.
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// TOC extracts the table of contents from the NCX, resolving each entry
// to a word index through the spine.
func (f *EPUBFormat) TOC(filename string) ([]rsvp.TOCEntry, error) {
	bk, err := readBook(filename)
	if err != nil {
		return nil, err
	}
	if bk.ncx == nil {
		return nil, fmt.Errorf("no table of contents in %s", filename)
	}

	var t ncx
	if err := xml.Unmarshal(bk.ncx, &t); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}

	return flattenNavPoints(t.NavMap.NavPoints, bk.sectionsByHref(), 0), nil
}

// sectionsByHref indexes sections by item href and by base name, the two
// spellings NCX content srcs use in practice.
func (b *book) sectionsByHref() map[string]section {
	m := make(map[string]section)
	for _, s := range b.sections {
		if s.href == "" {
			continue
		}
		m[s.href] = s
		m[path.Base(s.href)] = s
	}
	return m
}

// titlesByHref maps each NCX entry's content src to its title, keyed by
// every spelling chapter naming might look up.
func (b *book) titlesByHref() map[string]string {
	titles := make(map[string]string)
	if b.ncx == nil {
		return titles
	}
	var t ncx
	if err := xml.Unmarshal(b.ncx, &t); err != nil {
		return titles
	}

	var walk func(points []navPoint)
	walk = func(points []navPoint) {
		for _, np := range points {
			title := strings.TrimSpace(np.Label.Text)
			for _, key := range hrefKeys(np.Content.Src) {
				if _, exists := titles[key]; !exists {
					titles[key] = title
				}
			}
			walk(np.Children)
		}
	}
	walk(t.NavMap.NavPoints)
	return titles
}

// hrefKeys returns the lookup spellings for an NCX src: as written,
// without any #fragment, and the fragment-less base name.
func hrefKeys(href string) []string {
	keys := []string{href}
	base := href
	if idx := strings.Index(base, "#"); idx != -1 {
		base = base[:idx]
		keys = append(keys, base)
	}
	return append(keys, path.Base(base))
}

func flattenNavPoints(points []navPoint, bySrc map[string]section, level int) []rsvp.TOCEntry {
	var entries []rsvp.TOCEntry
	for _, np := range points {
		src := np.Content.Src
		if idx := strings.Index(src, "#"); idx != -1 {
			src = src[:idx]
		}

		var wordIndex int
		var prev string
		if s, ok := bySrc[src]; ok {
			wordIndex = s.wordStart
			prev = s.preview()
		} else if s, ok := bySrc[path.Base(src)]; ok {
			wordIndex = s.wordStart
			prev = s.preview()
		}

		entries = append(entries, rsvp.TOCEntry{
			Title:     strings.TrimSpace(np.Label.Text),
			Preview:   prev,
			WordIndex: wordIndex,
			Level:     level,
		})
		entries = append(entries, flattenNavPoints(np.Children, bySrc, level+1)...)
	}
	return entries
}

// readNCX locates the NCX document, preferring the manifest's declared
// media type and falling back to an extension scan. Manifest hrefs are
// relative to the package document, so archive paths are matched by
// suffix and base name as well as exactly.
func readNCX(filename string, rootfile *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range rootfile.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file in %s", filename)
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
