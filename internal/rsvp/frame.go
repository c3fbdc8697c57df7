package rsvp

// Frame is a contiguous window of words around the playback cursor, for
// display modes that show the current word with its neighbors.
type Frame struct {
	Words        []string
	CenterOffset int
}

// ExtractFrame returns a window of up to size words centered on the word at
// center. Near the document edges the window is truncated rather than
// padded, so it may be shorter than size and CenterOffset shifts toward the
// nearer edge; 0 <= CenterOffset < len(Words) always holds. A size of 1 or
// less yields just the center word, and an out-of-range center yields a
// single empty placeholder.
func ExtractFrame(words []string, center, size int) Frame {
	if center < 0 || center >= len(words) {
		return Frame{Words: []string{""}, CenterOffset: 0}
	}
	if size <= 1 {
		return Frame{Words: []string{words[center]}, CenterOffset: 0}
	}

	radius := size / 2
	left := center - radius
	if left < 0 {
		left = 0
	}
	right := center + radius + 1
	if right > len(words) {
		right = len(words)
	}

	return Frame{
		Words:        words[left:right],
		CenterOffset: center - left,
	}
}
