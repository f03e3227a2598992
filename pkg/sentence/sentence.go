// Package sentence segments plain English text into sentences.
package sentence

import (
	"strings"
	"unicode"
)

// Options control segmentation.
type Options struct {
	// MinLength drops fragments shorter than this many characters.
	MinLength int
}

// DefaultOptions returns the segmentation defaults used for study texts.
func DefaultOptions() Options {
	return Options{MinLength: 2}
}

// Split segments text into trimmed sentences in document order. Newlines
// are treated as hard breaks: a line never continues the previous
// sentence, so headings and list items become their own entries even
// without terminal punctuation.
func Split(text string, opts Options) []string {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultOptions().MinLength
	}

	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		for _, s := range splitLine(line) {
			s = strings.TrimSpace(s)
			if len([]rune(s)) >= opts.MinLength {
				sentences = append(sentences, s)
			}
		}
	}
	return sentences
}

func splitLine(line string) []string {
	runes := []rune(line)
	var out []string
	last := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if !isSentenceEnd(runes, i) {
			continue
		}

		// Swallow runs of terminal punctuation ("?!", "...") and a
		// single closing quote or bracket.
		end := i + 1
		for end < len(runes) && (runes[end] == '.' || runes[end] == '!' || runes[end] == '?') {
			end++
		}
		if end < len(runes) && isClosing(runes[end]) {
			end++
		}

		out = append(out, string(runes[last:end]))
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		last = end
		i = end - 1
	}

	if last < len(runes) {
		out = append(out, string(runes[last:]))
	}
	return out
}

// isSentenceEnd decides whether the punctuation at pos really terminates
// a sentence, filtering abbreviations, initials, decimals and ellipses.
func isSentenceEnd(runes []rune, pos int) bool {
	punct := runes[pos]

	if punct == '.' {
		// Ellipsis is not a boundary unless it ends the line.
		if pos+1 < len(runes) && runes[pos+1] == '.' {
			return false
		}

		word := wordBefore(runes, pos)
		if abbreviations[word] {
			return false
		}
		// Single capital initial ("J. K. Rowling") or dotted
		// abbreviation ("U.S.").
		if strings.Count(word, ".") > 0 {
			return false
		}
		if len(word) == 1 && unicode.IsUpper(runes[pos-1]) {
			return false
		}
		// Decimal number like 3.14.
		if pos > 0 && pos+1 < len(runes) && unicode.IsDigit(runes[pos-1]) && unicode.IsDigit(runes[pos+1]) {
			return false
		}
	}

	next := pos + 1
	for next < len(runes) && (runes[next] == '.' || runes[next] == '!' || runes[next] == '?') {
		next++
	}
	if next < len(runes) && isClosing(runes[next]) {
		next++
	}
	if next >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[next]) {
		return false
	}
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next >= len(runes) {
		return true
	}
	if punct == '!' || punct == '?' {
		return true
	}
	r := runes[next]
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\''
}

func wordBefore(runes []rune, pos int) string {
	start := pos - 1
	for start >= 0 && !unicode.IsSpace(runes[start]) {
		start--
	}
	if start+1 >= pos {
		return ""
	}
	return strings.ToLower(string(runes[start+1 : pos]))
}

func isClosing(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']'
}

var abbreviations = buildAbbreviations()

func buildAbbreviations() map[string]bool {
	words := []string{
		"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st",
		"inc", "ltd", "co", "corp", "dept",
		"etc", "vs", "cf", "al", "approx",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"mon", "tue", "wed", "thu", "fri", "sat", "sun",
		"no", "vol", "pp", "fig", "ch",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
