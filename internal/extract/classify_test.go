package extract

import (
	"testing"

	"github.com/mindloom/theraflow/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		utterance string
		want      models.RequestCategory
	}{
		{"I keep putting off writing my thesis", models.CategoryProcrastination},
		{"I am so anxious about everything", models.CategoryFear},
		{"my partner and I fight constantly", models.CategoryRelationship},
		{"I feel like I'm not good enough", models.CategorySelfWorth},
		{"I'm completely burned out at work", models.CategoryBurnout},
		{"I've lost interest in everything I used to love", models.CategoryLostDesire},
		{"I'm torn between my career and my kids", models.CategoryRoleConflict},
		{"I can't make myself do what I planned", models.CategoryResistance},
		{"there was abuse in my childhood", models.CategoryTrauma},
		{"I don't know who am i anymore", models.CategoryIdentity},
		{"my chest tightens and I can't sleep", models.CategoryPsychosomatic},
		{"the weather is nice today", models.CategoryGeneral},
	}
	for _, tt := range tests {
		if got := Classify(tt.utterance); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.utterance, got, tt.want)
		}
	}
}

func TestClassify_FixedOrderResolvesOverlap(t *testing.T) {
	// Fear precedes relationship in the category order, so an utterance
	// hitting both keyword lists resolves to fear, every time.
	utterance := "I'm scared of talking to my partner"
	want := models.CategoryFear
	for i := 0; i < 10; i++ {
		if got := Classify(utterance); got != want {
			t.Fatalf("Classify(%q) = %q on run %d, want %q", utterance, got, i, want)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("I KEEP PUTTING OFF everything"); got != models.CategoryProcrastination {
		t.Errorf("expected case-insensitive match, got %q", got)
	}
}

func TestSelectScript(t *testing.T) {
	s, reason := SelectScript(models.CategoryProcrastination, "")
	if s.ID != "procrastination_intent" {
		t.Errorf("expected procrastination script, got %q", s.ID)
	}
	if reason == "" {
		t.Error("expected a non-empty rationale")
	}
}

func TestSelectScript_ScenarioOverridesCategory(t *testing.T) {
	s, reason := SelectScript(models.CategoryFear, "inner_child")
	if s.ID != "inner_child" {
		t.Errorf("expected scenario script to win, got %q", s.ID)
	}
	if reason == "" {
		t.Error("expected a non-empty rationale")
	}
}

func TestSelectScript_UnknownScenarioFallsBack(t *testing.T) {
	s, _ := SelectScript(models.CategoryFear, "nonexistent")
	if s.ID != "fear_dialogue" {
		t.Errorf("expected category script for unknown scenario, got %q", s.ID)
	}
}

func TestSelectScript_EveryCategoryHasScript(t *testing.T) {
	cats := append([]models.RequestCategory{models.CategoryGeneral}, categoryOrder...)
	for _, cat := range cats {
		s, _ := SelectScript(cat, "")
		if s.ID == "" || s.Description == "" {
			t.Errorf("category %q has no script", cat)
		}
	}
}
