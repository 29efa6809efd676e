package models

import (
	"fmt"
	"strings"
)

// Directive is the structured, stage-conditioned instruction bundle handed
// to the external text generator. It is recomputed on every turn from the
// full accumulated session state, so the generator never loses facts that
// were established earlier in the session.
type Directive struct {
	Stage             Stage    `json:"stage"`
	Goal              string   `json:"goal"`
	Constraints       []string `json:"constraints,omitempty"`
	SeedQuestions     []string `json:"seed_questions,omitempty"`
	NameReminder      string   `json:"name_reminder,omitempty"`
	ImportanceNote    string   `json:"importance_note,omitempty"`
	EvasionHint       string   `json:"evasion_hint,omitempty"`
	AuthorshipReframe string   `json:"authorship_reframe,omitempty"`
	ScriptNote        string   `json:"script_note,omitempty"`
	Homework          string   `json:"homework,omitempty"`
	Summary           string   `json:"summary,omitempty"`
}

// Render serializes the directive into a single system-prompt string for
// the generator, one named section per block.
func (d *Directive) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "STAGE: %s\nGOAL: %s\n", d.Stage, d.Goal)
	if len(d.Constraints) > 0 {
		b.WriteString("CONSTRAINTS:\n")
		for _, c := range d.Constraints {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	if len(d.SeedQuestions) > 0 {
		b.WriteString("CANDIDATE QUESTIONS:\n")
		for _, q := range d.SeedQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if d.NameReminder != "" {
		fmt.Fprintf(&b, "CLIENT NAME: %s\n", d.NameReminder)
	}
	if d.ImportanceNote != "" {
		fmt.Fprintf(&b, "IMPORTANCE: %s\n", d.ImportanceNote)
	}
	if d.EvasionHint != "" {
		fmt.Fprintf(&b, "EVASION: %s\n", d.EvasionHint)
	}
	if d.AuthorshipReframe != "" {
		fmt.Fprintf(&b, "AUTHORSHIP: %s\n", d.AuthorshipReframe)
	}
	if d.ScriptNote != "" {
		fmt.Fprintf(&b, "SCRIPT: %s\n", d.ScriptNote)
	}
	if d.Homework != "" {
		fmt.Fprintf(&b, "HOMEWORK: %s\n", d.Homework)
	}
	if d.Summary != "" {
		fmt.Fprintf(&b, "PROGRESS:\n%s", d.Summary)
	}
	return b.String()
}
