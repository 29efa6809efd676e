package extract

import (
	"fmt"
	"regexp"
)

// ReframeRule pairs a blame-externalizing pattern with an
// authorship-centered reformulation.
type ReframeRule struct {
	Pattern *regexp.Regexp
	Reframe string
}

// ReframeRules is a public contract: rules are evaluated in order and the
// first match wins, so more specific patterns MUST precede more general
// ones (a general pattern placed earlier would mask the precise reframing).
// Reordering this list is a reviewed decision, not an incidental edit.
var ReframeRules = []ReframeRule{
	{
		Pattern: regexp.MustCompile(`(?i)\b(?:he|she|they|it)\s+(?:always\s+)?makes?\s+me\s+feel\b`),
		Reframe: "I feel this way when that happens — the feeling arises in me",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\b(?:he|she|they|it)\s+(?:always\s+)?makes?\s+me\b`),
		Reframe: "I choose to respond this way when that happens",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\bi\s+(?:was|am|have been)\s+forced\b`),
		Reframe: "I agreed to this, even if the alternatives looked worse",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\b(?:they|he|she)\s+forced?\s+me\b`),
		Reframe: "I went along with it — what was I protecting by agreeing?",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\bi\s+(?:have|had|'ve got)\s+no\s+choice\b`),
		Reframe: "I am choosing the least bad option I can see right now",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\bbecause\s+of\s+(?:him|her|them|my\s+\p{L}+)`),
		Reframe: "this is the meaning I give to what they did",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\bi\s+had\s+to\b`),
		Reframe: "I decided to, because something mattered to me",
	},
	{
		Pattern: regexp.MustCompile(`(?i)\bit'?s\s+(?:his|her|their)\s+fault\b`),
		Reframe: "part of this situation is shaped by my own choices",
	},
}

// AuthorshipReframe scans the utterance against ReframeRules and, on the
// first match, returns a reflective statement pairing the client's phrase
// with an authorship-centered reformulation. Returns "" when no rule
// matches. The result is transient per-turn guidance for the generator;
// it is never persisted into the therapy context.
func AuthorshipReframe(utterance string) string {
	for _, rule := range ReframeRules {
		if loc := rule.Pattern.FindString(utterance); loc != "" {
			return fmt.Sprintf("the client said %q — gently offer the authorship view: %q", loc, rule.Reframe)
		}
	}
	return ""
}
