package protocol

import (
	"testing"

	"github.com/mindloom/theraflow/internal/models"
)

func TestStageCatalog_CoversAllStagesInOrder(t *testing.T) {
	catalog := StageCatalog()
	if len(catalog) != len(models.StageOrder) {
		t.Fatalf("expected %d stage definitions, got %d", len(models.StageOrder), len(catalog))
	}
	for i, def := range catalog {
		if def.Stage != models.StageOrder[i] {
			t.Errorf("catalog[%d] = %q, want %q", i, def.Stage, models.StageOrder[i])
		}
	}
}

func TestStageDefinitions_AreComplete(t *testing.T) {
	for _, s := range models.StageOrder {
		def := Definition(s)
		if def.Stage != s {
			t.Errorf("stage %q has no registry entry", s)
		}
		if def.Goal == "" {
			t.Errorf("stage %q has no goal", s)
		}
		if len(def.SeedQuestions) == 0 {
			t.Errorf("stage %q has no seed questions", s)
		}
		if def.MinResponses < 1 {
			t.Errorf("stage %q min responses must be at least 1, got %d", s, def.MinResponses)
		}
		if len(def.Criteria) == 0 {
			t.Errorf("stage %q has no readiness criteria", s)
		}
		if s != models.StageFinish && def.ExtraTurns < 1 {
			t.Errorf("stage %q needs an extra-turn ceiling for liveness, got %d", s, def.ExtraTurns)
		}
	}
}

func TestEveryStageHasReadinessAndHints(t *testing.T) {
	for _, s := range models.StageOrder {
		if _, ok := readiness[s]; !ok {
			t.Errorf("stage %q has no readiness predicate", s)
		}
		if _, ok := evasionHints[s]; !ok {
			t.Errorf("stage %q has no evasion hint", s)
		}
		if _, ok := stageConstraints[s]; !ok {
			t.Errorf("stage %q has no constraints", s)
		}
	}
}
