package core

import (
	"strings"
	"unicode"
)

// abbreviations are lowercase tokens ending in '.' that do not close a sentence.
var abbreviations = map[string]struct{}{
	"e.g.": {}, "i.e.": {}, "etc.": {}, "vs.": {}, "cf.": {},
	"dr.": {}, "mr.": {}, "mrs.": {}, "ms.": {}, "prof.": {}, "st.": {},
	"fig.": {}, "no.": {}, "approx.": {},
}

// SplitSentences splits text into trimmed sentences in their original order.
// A sentence ends at '.', '!' or '?' followed by whitespace or end of text,
// or at a line break. Known abbreviations and decimal points do not end a
// sentence. Empty sentences are dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Absorb runs like "?!" or "..." into the same sentence.
		for i+1 < len(runes) && strings.ContainsRune(".!?\"')", runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		atEnd := i+1 >= len(runes)
		if !atEnd && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && endsWithAbbreviation(current.String()) {
			continue
		}
		flush()
	}
	flush()
	return sentences
}

func endsWithAbbreviation(s string) bool {
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	last := strings.ToLower(s[idx+1:])
	_, ok := abbreviations[last]
	return ok
}

// NormalizeTag lowercases a tag and collapses internal whitespace.
func NormalizeTag(t Tag) Tag {
	return Tag(strings.Join(strings.Fields(strings.ToLower(string(t))), " "))
}

// DedupeTags normalizes tags and removes empties and duplicates,
// keeping the first occurrence of each.
func DedupeTags(tags []Tag) []Tag {
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
