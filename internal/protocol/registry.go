// Package protocol implements the session orchestration engine: the stage
// registry, the transition evaluator, the per-turn state machine, and the
// directive composer that conditions the external text generator.
package protocol

import "github.com/mindloom/theraflow/internal/models"

// StageDefinition describes one protocol stage. Instances are shared,
// read-only, and looked up by stage value; they are never owned or
// mutated by a session.
type StageDefinition struct {
	Stage         models.Stage `json:"stage"`
	Goal          string       `json:"goal"`
	SeedQuestions []string     `json:"seed_questions"`
	// MinResponses is the number of client responses required at this
	// stage before a transition may even be considered.
	MinResponses int `json:"min_responses"`
	// ExtraTurns is the safety valve: once MinResponses+ExtraTurns
	// responses have been seen, the stage advances even if its target
	// fact was never extracted. Liveness over completeness.
	ExtraTurns int `json:"extra_turns"`
	// Criteria documents the transition-readiness conditions for humans;
	// the actual readiness checks live in transition.go.
	Criteria []string `json:"criteria"`
}

var stageRegistry = map[models.Stage]StageDefinition{
	models.StageStartSession: {
		Stage: models.StageStartSession,
		Goal:  "welcome the client, establish safety, and hear what brings them here",
		SeedQuestions: []string{
			"What brings you here today?",
			"What would you like to work on?",
			"How would you like me to address you?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"the client has stated a request in their own words"},
	},
	models.StageCollectContext: {
		Stage: models.StageCollectContext,
		Goal:  "gather context around the request and gauge how much it matters",
		SeedQuestions: []string{
			"How long has this been going on?",
			"On a scale of 1 to 10, how important is resolving this for you?",
			"Where in your life does this show up the most?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"an importance rating from 1 to 10 has been given"},
	},
	models.StageClarifyRequest: {
		Stage: models.StageClarifyRequest,
		Goal:  "reformulate the request into something concrete the client owns",
		SeedQuestions: []string{
			"If this were resolved, what would be different?",
			"How would you phrase what you actually want?",
			"What would you like instead of what is happening now?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"the client has restated the request as a want, not a complaint"},
	},
	models.StageExploreStrategy: {
		Stage: models.StageExploreStrategy,
		Goal:  "surface the current strategy and the intention hiding behind it",
		SeedQuestions: []string{
			"What do you usually do when this happens?",
			"What does doing that give you, even a little?",
			"What is that behavior trying to take care of?",
		},
		MinResponses: 2,
		ExtraTurns:   4,
		Criteria: []string{
			"the habitual strategy has been named",
			"its positive intention has been touched",
		},
	},
	models.StageFindNeed: {
		Stage: models.StageFindNeed,
		Goal:  "descend from the strategy to the deep need it serves",
		SeedQuestions: []string{
			"And if you had that, what would it give you?",
			"What do you really long for underneath all this?",
			"What need has been waiting the longest?",
		},
		MinResponses: 2,
		ExtraTurns:   4,
		Criteria:     []string{"a deep need has been named in the client's words"},
	},
	models.StageBodywork: {
		Stage: models.StageBodywork,
		Goal:  "anchor the need in the body and describe the sensation precisely",
		SeedQuestions: []string{
			"Where in your body do you feel this right now?",
			"What size and shape does it have?",
			"Is it warm or cold? Moving or still?",
			"If it could move you, what would it make you do?",
		},
		MinResponses: 3,
		ExtraTurns:   4,
		Criteria:     []string{"a body location has been found", "the sensation has texture: size, shape, temperature or movement"},
	},
	models.StageMetaphor: {
		Stage: models.StageMetaphor,
		Goal:  "let the sensation become an image and rate its energy",
		SeedQuestions: []string{
			"If this sensation were an image, what would it be?",
			"What does the image look like, in detail?",
			"From 1 to 10, how much energy does this image hold?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"an image or metaphor has appeared"},
	},
	models.StageMetaPosition: {
		Stage: models.StageMetaPosition,
		Goal:  "step outside and look at self, life and strategy from above",
		SeedQuestions: []string{
			"Looking at yourself from the outside, what do you see?",
			"How does your life look from up here?",
			"What do you understand now that you could not see before?",
			"What would you tell the you who is down there?",
		},
		MinResponses: 3,
		ExtraTurns:   4,
		Criteria:     []string{"an insight has been voiced from the meta position"},
	},
	models.StageIntegration: {
		Stage: models.StageIntegration,
		Goal:  "bring the insight back into the body and settle the new state",
		SeedQuestions: []string{
			"How does this feel in the body now?",
			"Would you like to let the body move with this new feeling?",
			"What is different in you compared to the start?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"the client reports a changed, settled state"},
	},
	models.StagePlanActions: {
		Stage: models.StagePlanActions,
		Goal:  "translate the new state into chosen actions and a first step",
		SeedQuestions: []string{
			"From this new place, what do you want to do differently?",
			"What would be the very first small step?",
			"When will you take it?",
		},
		MinResponses: 2,
		ExtraTurns:   3,
		Criteria:     []string{"at least one action and a concrete first step have been chosen"},
	},
	models.StageFinish: {
		Stage: models.StageFinish,
		Goal:  "close the session: summarize, assign practice, and part warmly",
		SeedQuestions: []string{
			"What are you taking with you from today?",
			"How was this hour for you?",
		},
		MinResponses: 1,
		ExtraTurns:   0,
		Criteria:     []string{"the session has been summarized and homework assigned"},
	},
}

// Definition returns the shared definition for a stage. Unknown stages get
// a zero definition; callers are expected to hold a valid stage.
func Definition(s models.Stage) StageDefinition {
	return stageRegistry[s]
}

// StageCatalog returns all stage definitions in protocol order, for
// read-only introspection by external surfaces.
func StageCatalog() []StageDefinition {
	out := make([]StageDefinition, 0, len(models.StageOrder))
	for _, s := range models.StageOrder {
		out = append(out, stageRegistry[s])
	}
	return out
}
