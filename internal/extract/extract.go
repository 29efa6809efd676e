// Package extract provides pure, pattern-based fact extractors over client
// utterances: self-reported name, importance rating, evasion signals, and
// authorship-projection reframing. All functions are stateless and total;
// they never mutate session state.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// namePatterns is the ordered contract for name extraction. Earlier
// patterns are more reliable self-introductions; a later pattern is only
// consulted when no earlier one matched anywhere in the history.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcall me ([\p{L}]+)`),
	regexp.MustCompile(`(?i)\bmy name is ([\p{L}]+)`),
	regexp.MustCompile(`(?i)\bi am ([\p{L}]+)`),
	regexp.MustCompile(`(?i)\bi'?m ([\p{L}]+)`),
	regexp.MustCompile(`(?i)^(?:hi|hello|hey)[,!. ]+\s*(?:i'?m\s+|this is\s+)?([\p{L}]+)`),
}

// nameStopwords filters out words that match self-introduction patterns
// but are not names ("I am tired", "call me back").
var nameStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "so": true, "not": true, "now": true,
	"just": true, "here": true, "back": true, "later": true, "sure": true,
	"okay": true, "ok": true, "fine": true, "good": true, "sorry": true,
	"tired": true, "sad": true, "angry": true, "scared": true, "afraid": true,
	"anxious": true, "lost": true, "done": true, "stuck": true, "confused": true,
	"feeling": true, "trying": true, "going": true, "getting": true,
	"really": true, "very": true, "always": true, "never": true,
}

// Name scans the utterance history in pattern order and returns the first
// plausible self-reported name, capitalized. For each pattern the earliest
// matching message wins, so the result is stable as the history grows.
// Returns "" when nothing matches.
func Name(history []string) string {
	for _, pat := range namePatterns {
		for _, msg := range history {
			m := pat.FindStringSubmatch(msg)
			if m == nil {
				continue
			}
			candidate := strings.TrimSpace(m[1])
			n := utf8.RuneCountInString(candidate)
			if n < 2 || n > 20 {
				continue
			}
			if nameStopwords[strings.ToLower(candidate)] {
				continue
			}
			return capitalize(candidate)
		}
	}
	return ""
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ratingPatterns is tried in order; the first pattern producing an integer
// in [1,10] wins. The bare-numeral form is anchored so a number buried in
// a longer sentence (an age, a date) is not mistaken for a rating.
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:out of|/|of)\s*10\b`),
	regexp.MustCompile(`(?i)\brate(?:\s+it)?\s+(?:at\s+|a\s+)?(\d{1,2})\b`),
	regexp.MustCompile(`^\s*(\d{1,2})\s*$`),
}

// ImportanceRating extracts a 1-10 importance rating from the utterance.
// Returns (0, false) when no pattern yields a value in range.
func ImportanceRating(utterance string) (int, bool) {
	for _, pat := range ratingPatterns {
		m := pat.FindStringSubmatch(utterance)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 10 {
			continue
		}
		return n, true
	}
	return 0, false
}

// evasionPhrases are matched as case-insensitive substrings.
var evasionPhrases = []string{
	"i don't know",
	"i dont know",
	"don't really know",
	"no idea",
	"not sure",
	"can't feel",
	"cannot feel",
	"can't tell",
	"hard to say",
	"hard to tell",
	"don't understand",
	"it's unclear",
	"nothing comes",
	"nothing comes to mind",
}

// IsEvasive reports whether the utterance signals that the client cannot
// or will not answer directly.
func IsEvasive(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, phrase := range evasionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
