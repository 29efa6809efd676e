package extract

import (
	"strings"
	"testing"
)

func TestAuthorshipReframe_Matches(t *testing.T) {
	tests := []struct {
		utterance string
		wantPart  string // substring expected in the reframe, "" for no match
	}{
		{"he always makes me feel small", "the feeling arises in me"},
		{"she makes me do everything around here", "I choose to respond"},
		{"I was forced to take this job", "I agreed to this"},
		{"they forced me into it", "what was I protecting"},
		{"I have no choice", "least bad option"},
		{"I'm like this because of him", "the meaning I give"},
		{"I had to cancel my plans again", "I decided to"},
		{"it's her fault we're here", "my own choices"},
		{"I feel sad today", ""},
	}
	for _, tt := range tests {
		got := AuthorshipReframe(tt.utterance)
		if tt.wantPart == "" {
			if got != "" {
				t.Errorf("AuthorshipReframe(%q) = %q, want no match", tt.utterance, got)
			}
			continue
		}
		if !strings.Contains(got, tt.wantPart) {
			t.Errorf("AuthorshipReframe(%q) = %q, want substring %q", tt.utterance, got, tt.wantPart)
		}
	}
}

func TestAuthorshipReframe_QuotesOriginalPhrase(t *testing.T) {
	got := AuthorshipReframe("he always makes me feel small")
	if !strings.Contains(got, "makes me feel") {
		t.Errorf("reframe should quote the original phrase, got %q", got)
	}
}

// The specific makes-me-feel rule must win over the general makes-me rule:
// both match, and reordering them would silently change the output.
func TestAuthorshipReframe_SpecificBeforeGeneral(t *testing.T) {
	got := AuthorshipReframe("he makes me feel guilty")
	if !strings.Contains(got, "the feeling arises in me") {
		t.Errorf("expected the specific feel rule to win, got %q", got)
	}
}

func TestAuthorshipReframe_RuleOrderIsSpecificFirst(t *testing.T) {
	// Guard the documented contract: every makes-me-feel style rule comes
	// before its more general prefix rule in the list.
	feelIdx, makesIdx := -1, -1
	for i, r := range ReframeRules {
		p := r.Pattern.String()
		if strings.Contains(p, `me\s+feel`) && feelIdx == -1 {
			feelIdx = i
		}
		if strings.Contains(p, `makes?\s+me\b`) && makesIdx == -1 {
			makesIdx = i
		}
	}
	if feelIdx == -1 || makesIdx == -1 {
		t.Fatal("expected both specific and general makes-me rules to exist")
	}
	if feelIdx > makesIdx {
		t.Errorf("specific rule at %d must precede general rule at %d", feelIdx, makesIdx)
	}
}
