package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// The PDF extractor writes pageOpener+N+pageCloser in front of every page
// and Split consumes exactly that shape. Both sides live here so the two
// cannot drift apart.
const (
	pageOpener = "--- ページ "
	pageCloser = " ---"
)

var pageNumberRe = regexp.MustCompile(`^(\d+)` + regexp.QuoteMeta(pageCloser))

// PageMarker returns the separator written before page n (1-based).
func PageMarker(n int) string {
	return "\n" + pageOpener + strconv.Itoa(n) + pageCloser + "\n"
}

// JoinPages concatenates page texts, each preceded by its page marker.
func JoinPages(pages []string) string {
	var buf strings.Builder
	for i, text := range pages {
		buf.WriteString(PageMarker(i + 1))
		buf.WriteString(text)
	}
	return buf.String()
}

// splitPages cuts text on the marker opener. Chunks keep their "N ---"
// prefix; parsePageChunk strips it.
func splitPages(text string) []string {
	return strings.Split(text, pageOpener)
}

// parsePageChunk returns the page number encoded at the start of chunk and
// the remaining body. ok is false when the chunk carries no page number.
func parsePageChunk(chunk string) (page int, body string, ok bool) {
	loc := pageNumberRe.FindStringSubmatchIndex(chunk)
	if loc == nil {
		return 0, chunk, false
	}
	n, err := strconv.Atoi(chunk[loc[2]:loc[3]])
	if err != nil {
		return 0, chunk, false
	}
	return n, chunk[loc[1]:], true
}
