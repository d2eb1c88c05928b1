package segment

import (
	"regexp"
	"strings"

	"github.com/dgallion1/pharmadocs/internal/document"
)

// headingScanLines bounds how far into a section Heading looks.
const headingScanLines = 5

// A heading starts with a digit or 【 and has at least three more characters.
var headingRe = regexp.MustCompile(`^[\p{Nd}【].{3,50}`)

var (
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)
	manySpacesRe   = regexp.MustCompile(` {2,}`)
)

// Split turns page-marked text into sections, one per non-blank page chunk.
func Split(text, fileName string) []document.Section {
	var sections []document.Section

	for _, chunk := range splitPages(text) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		section := document.Section{FileName: fileName}
		body := chunk
		if page, rest, ok := parsePageChunk(chunk); ok {
			section.Page = document.IntPtr(page)
			body = rest
		}

		section.Text = Normalize(body)
		if h, ok := Heading(body); ok {
			section.Heading = document.StringPtr(h)
		}
		sections = append(sections, section)
	}

	return sections
}

// Heading returns the first heading-like line among the first few lines
// of body, trimmed.
func Heading(body string) (string, bool) {
	lines := strings.SplitN(body, "\n", headingScanLines+1)
	if len(lines) > headingScanLines {
		lines = lines[:headingScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if headingRe.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// Normalize tidies extracted text: at most one blank line in a row,
// fullwidth spaces folded to ASCII, runs of spaces collapsed, ends trimmed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "　", " ")
	text = manySpacesRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
