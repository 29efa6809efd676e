// Package models defines the core data structures for theraflow.
//
// It includes the protocol stage order, the request category taxonomy,
// the per-session therapy context, and the directive handed to the
// text generator. These types are shared across modules.
package models

// Stage represents one phase of the session protocol.
type Stage string

// Protocol stages in their fixed order. The order is a contract: sessions
// move forward through this list one step at a time and never backward.
const (
	StageStartSession    Stage = "start_session"
	StageCollectContext  Stage = "collect_context"
	StageClarifyRequest  Stage = "clarify_request"
	StageExploreStrategy Stage = "explore_strategy"
	StageFindNeed        Stage = "find_need"
	StageBodywork        Stage = "bodywork"
	StageMetaphor        Stage = "metaphor"
	StageMetaPosition    Stage = "meta_position"
	StageIntegration     Stage = "integration"
	StagePlanActions     Stage = "plan_actions"
	StageFinish          Stage = "finish"
)

// StageOrder is the authoritative total order of protocol stages.
var StageOrder = []Stage{
	StageStartSession,
	StageCollectContext,
	StageClarifyRequest,
	StageExploreStrategy,
	StageFindNeed,
	StageBodywork,
	StageMetaphor,
	StageMetaPosition,
	StageIntegration,
	StagePlanActions,
	StageFinish,
}

// Index returns the position of the stage in StageOrder, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that follows s in StageOrder. The second return
// value is false when s is the final stage or unknown.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(StageOrder) {
		return s, false
	}
	return StageOrder[i+1], true
}

// IsValidStage checks if the given stage is part of the protocol.
func IsValidStage(s Stage) bool {
	return s.Index() >= 0
}
