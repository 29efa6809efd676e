package protocol

import (
	"log/slog"

	"github.com/mindloom/theraflow/internal/models"
)

// readinessFunc reports whether a stage's target fact has been gathered.
// Each stage has its own entry in the readiness table so the per-stage
// contract stays independently testable.
type readinessFunc func(s *models.SessionState) bool

var readiness = map[models.Stage]readinessFunc{
	models.StageStartSession: func(s *models.SessionState) bool {
		return s.Context.InitialRequest != ""
	},
	models.StageCollectContext: func(s *models.SessionState) bool {
		return s.ImportanceRating > 0
	},
	models.StageClarifyRequest: func(s *models.SessionState) bool {
		return s.Context.ClarifiedRequest != ""
	},
	models.StageExploreStrategy: func(s *models.SessionState) bool {
		return s.Context.Strategy != ""
	},
	models.StageFindNeed: func(s *models.SessionState) bool {
		return s.Context.DeepNeed != ""
	},
	models.StageBodywork: func(s *models.SessionState) bool {
		return s.Context.Body.Location != ""
	},
	models.StageMetaphor: func(s *models.SessionState) bool {
		return s.Context.Image != ""
	},
	models.StageMetaPosition: func(s *models.SessionState) bool {
		return s.Context.Insight != ""
	},
	models.StageIntegration: func(s *models.SessionState) bool {
		return s.IntegrationDone
	},
	models.StagePlanActions: func(s *models.SessionState) bool {
		return s.Context.FirstStep != ""
	},
	models.StageFinish: func(s *models.SessionState) bool {
		// No target fact: finish completes once its minimum is met.
		return true
	},
}

// ShouldAdvance decides, after a turn has been merged into the session,
// whether the session is ready to move to the next stage. Two tiers:
// the stage's minimum response count is a hard gate; past it, either the
// stage's target fact is present or the extra-turn ceiling forces the
// advance so a stage can never stall a session indefinitely.
func ShouldAdvance(s *models.SessionState) bool {
	if s.Completed {
		return false
	}
	def := Definition(s.Stage)
	if s.StageResponses < def.MinResponses {
		return false
	}
	if ready, ok := readiness[s.Stage]; ok && ready(s) {
		return true
	}
	return s.StageResponses >= def.MinResponses+def.ExtraTurns
}

// advance applies the transition action: the just-left stage is appended
// to the history log, the response counter resets, and the stage moves one
// step forward. Reaching the end of the order marks the session complete
// and leaves the stage at finish. Advancing a completed session is a
// no-op, not an error.
func advance(s *models.SessionState) {
	if s.Completed {
		return
	}
	s.StageHistory = append(s.StageHistory, s.Stage)
	s.StageResponses = 0
	next, ok := s.Stage.Next()
	if !ok {
		s.Completed = true
		slog.Info("protocol.advance: session complete", "sessionID", s.ID, "stage", s.Stage)
		return
	}
	slog.Info("protocol.advance: stage transition", "sessionID", s.ID, "from", s.Stage, "to", next)
	s.Stage = next
}
