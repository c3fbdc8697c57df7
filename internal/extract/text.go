package extract

import "os"

// PlainTextFormat implements Format for plain text files. Unknown
// extensions get the same raw read through the registry fallback, so
// registering here mostly feeds the formats listing.
type PlainTextFormat struct{}

func init() {
	Register(&PlainTextFormat{})
}

func (f *PlainTextFormat) Name() string         { return "Plain text" }
func (f *PlainTextFormat) Extensions() []string { return []string{".txt", ".text"} }

func (f *PlainTextFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
