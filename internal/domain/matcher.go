// Package domain implements the rename engine: reference scanning, mutation,
// and the transaction that applies a rename with rollback.
package domain

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"

	m "github.com/mouse-blink/agentcli/internal/model"
)

// matcher finds whole-word occurrences of one identifier.
type matcher struct {
	name    string
	pattern *regexp.Regexp
}

func newMatcher(symbol m.Symbol) matcher {
	expr := regexp.QuoteMeta(symbol.OldName)
	if symbol.Kind == m.SymbolMethod {
		// Call and definition sites only.
		expr += `\s*\(`
	}

	return matcher{name: symbol.OldName, pattern: regexp.MustCompile(expr)}
}

// find returns the byte offsets of every occurrence of the name that is not
// part of a longer identifier. Only the name itself is covered by each span.
func (mt matcher) find(content []byte) [][2]int {
	var spans [][2]int

	for _, loc := range mt.pattern.FindAllIndex(content, -1) {
		start, end := loc[0], loc[0]+len(mt.name)

		if before, _ := utf8.DecodeLastRune(content[:start]); start > 0 && isIdentRune(before) {
			continue
		}

		if after, _ := utf8.DecodeRune(content[end:]); end < len(content) && isIdentRune(after) {
			continue
		}

		spans = append(spans, [2]int{start, end})
	}

	return spans
}

// replace substitutes newName for every span and returns the count.
func (mt matcher) replace(content []byte, newName string) ([]byte, int) {
	spans := mt.find(content)
	if len(spans) == 0 {
		return content, 0
	}

	out := make([]byte, 0, len(content)+len(spans)*(len(newName)-len(mt.name)))
	last := 0

	for _, span := range spans {
		out = append(out, content[last:span[0]]...)
		out = append(out, newName...)
		last = span[1]
	}

	out = append(out, content[last:]...)

	return out, len(spans)
}

// isIdentRune reports whether r can continue an identifier. Letters and
// digits from any script count, as Java and Kotlin allow them.
func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// computeLineStarts returns the byte offset at which each line begins.
func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

// lineOf returns the 1-based line containing offset.
func lineOf(lineStarts []int, offset int) int {
	return sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset })
}
