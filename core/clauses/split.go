package clauses

import (
	"strings"
	"unicode"
)

func isTerminator(b byte) bool {
	return b == '.' || b == '?' || b == '!'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isDecimalPoint reports whether the dot at i sits between two digits, as in
// "3.5".
func isDecimalPoint(text string, i int) bool {
	return text[i] == '.' &&
		i > 0 && isDigit(text[i-1]) &&
		i+1 < len(text) && isDigit(text[i+1])
}

// mayBeDecimalPoint reports whether the run i..end is a single dot after a
// digit, as in "3." waiting for "5".
func mayBeDecimalPoint(text string, i, end int) bool {
	return i == end && text[i] == '.' && i > 0 && isDigit(text[i-1])
}

// IsPunctuationOnly reports whether text has nothing but punctuation and
// whitespace in it. Empty text counts.
func IsPunctuationOnly(text string) bool {
	for _, r := range text {
		if !unicode.IsPunct(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// splitClauses cuts every completed clause off the front of text and returns
// them trimmed, together with the remainder that still needs more input.
//
// A run of terminators ends one clause, and a run at the end of text ends it
// right away. Only a lone "." right after a digit is held back, since the next
// fragment may turn it into a decimal point ("3." + "5"). A span without any
// words is not emitted; it stays in front of the next clause.
func splitClauses(text string) (clauses []string, remainder string) {
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) || isDecimalPoint(text, i) {
			continue
		}

		end := i
		for end+1 < len(text) && isTerminator(text[end+1]) {
			end++
		}
		if end+1 == len(text) && mayBeDecimalPoint(text, i, end) {
			break
		}
		i = end

		clause := strings.TrimSpace(text[start : end+1])
		if IsPunctuationOnly(clause) {
			continue
		}
		clauses = append(clauses, clause)
		start = end + 1
	}
	return clauses, text[start:]
}

// flush turns the remainder left at the end of a stream into the last clause.
func flush(remainder string) (string, bool) {
	clause := strings.TrimSpace(remainder)
	if IsPunctuationOnly(clause) {
		return "", false
	}
	return clause, true
}
