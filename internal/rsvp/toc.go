package rsvp

// TOCEntry is a table-of-contents entry addressing a position in the word
// sequence. Level is the heading depth, 0 for top-level entries.
type TOCEntry struct {
	Title     string
	Preview   string
	WordIndex int
	Level     int
}

// Chapter is a titled span of the word sequence. WordEnd is inclusive.
type Chapter struct {
	Title     string
	WordStart int
	WordEnd   int
}
