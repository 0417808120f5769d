package openai

import "strings"

// repairJSON fixes the formatting slips small models make most often when
// asked for a single JSON object: prose around the object, trailing commas,
// and object keys missing their opening quote (`{question": "..."}`).
func repairJSON(s string) string {
	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		s = s[start : end+1]
	}

	in := []rune(s)
	out := make([]rune, 0, len(in)+8)
	inString := false
	for i := 0; i < len(in); i++ {
		ch := in[i]
		if inString {
			out = append(out, ch)
			switch ch {
			case '\\':
				if i+1 < len(in) {
					i++
					out = append(out, in[i])
				}
			case '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			out = append(out, ch)
		case ch == ',' && nextNonSpace(in, i+1) == '}' || ch == ',' && nextNonSpace(in, i+1) == ']':
			// drop trailing comma
		case (ch == '{' || ch == ',') && missingKeyQuote(in, i+1):
			out = append(out, ch)
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				out = append(out, in[j])
				j++
			}
			out = append(out, '"')
			for ; in[j] != '"'; j++ {
				out = append(out, in[j])
			}
			// closing quote is consumed as a string terminator by the
			// default branch, so emit it here and skip it
			out = append(out, '"')
			i = j
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// missingKeyQuote reports whether in[from:] starts (after spaces) with an
// identifier immediately followed by `":`.
func missingKeyQuote(in []rune, from int) bool {
	j := from
	for j < len(in) && isSpace(in[j]) {
		j++
	}
	start := j
	for j < len(in) && (isLetter(in[j]) || in[j] == '_') {
		j++
	}
	return j > start && j+1 < len(in) && in[j] == '"' && in[j+1] == ':'
}

func nextNonSpace(in []rune, from int) rune {
	for j := from; j < len(in); j++ {
		if !isSpace(in[j]) {
			return in[j]
		}
	}
	return 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
