package protocol

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mindloom/theraflow/internal/extract"
	"github.com/mindloom/theraflow/internal/models"
)

// minSubstantiveRunes is the shortest client answer treated as a usable
// stage fact. Shorter or evasive answers never populate context fields;
// the extra-turn ceiling keeps the session moving regardless.
const minSubstantiveRunes = 8

// NewSession creates a fresh session at the initial stage with all context
// fields at their zero values.
func NewSession() *models.SessionState {
	now := time.Now()
	s := &models.SessionState{
		ID:        uuid.NewString(),
		Stage:     models.StageStartSession,
		CreatedAt: now,
		UpdatedAt: now,
	}
	slog.Debug("protocol.NewSession: created session", "sessionID", s.ID)
	return s
}

// NewSessionWithScenario creates a session with an externally chosen
// scenario id pinned before the first turn. The scenario overrides the
// category-based script selection.
func NewSessionWithScenario(scenarioID string) *models.SessionState {
	s := NewSession()
	if scenarioID != "" {
		script, reason := extract.SelectScript(models.CategoryGeneral, scenarioID)
		s.ScriptID = script.ID
		s.ScriptReason = reason
		slog.Debug("protocol.NewSessionWithScenario: pinned scenario", "sessionID", s.ID, "scriptID", s.ScriptID)
	}
	return s
}

// AdvanceTurn is the single entry point for processing a client utterance.
// It validates the input, merges extracted facts into the session under
// the write-once rule, evaluates the stage transition, and composes the
// directive for the external generator. A rejected utterance leaves the
// session untouched. The caller must serialize turns for a given session.
func AdvanceTurn(s *models.SessionState, utterance string) (*models.Directive, error) {
	if err := models.ValidateUtterance(utterance); err != nil {
		slog.Warn("protocol.AdvanceTurn: rejected utterance", "sessionID", s.ID, "error", err)
		return nil, err
	}

	s.Started = true
	s.LastResponse = utterance
	s.StageResponses++
	s.EvasionDetected = extract.IsEvasive(utterance)
	s.AppendMessage("user", utterance)

	// Category and script are pinned exactly once, on the first turn.
	if s.Category == "" {
		s.Category = extract.Classify(utterance)
		if s.ScriptID == "" {
			script, reason := extract.SelectScript(s.Category, "")
			s.ScriptID = script.ID
			s.ScriptReason = reason
		}
		slog.Info("protocol.AdvanceTurn: classified session", "sessionID", s.ID, "category", s.Category, "scriptID", s.ScriptID)
	}

	// The name may arrive on any turn; scanning the full history keeps
	// the extraction stable once a name has been seen.
	if s.Context.ClientName == "" {
		if name := extract.Name(s.UserUtterances()); name != "" {
			s.Context.ClientName = name
			slog.Debug("protocol.AdvanceTurn: extracted client name", "sessionID", s.ID, "name", name)
		}
	}

	mergeRating(s, utterance)
	mergeStageFact(s, utterance)

	// The authorship reframe is transient per-turn guidance for the
	// generator; it is deliberately not persisted into the context.
	reframe := extract.AuthorshipReframe(utterance)

	if ShouldAdvance(s) {
		advance(s)
	}

	d := Compose(s, reframe)

	if s.Stage == models.StageIntegration && !s.MovementOffered {
		s.MovementOffered = true
	}
	if d.Homework != "" && s.Context.Homework == "" {
		s.Context.Homework = d.Homework
	}
	s.UpdatedAt = time.Now()

	slog.Debug("protocol.AdvanceTurn: turn processed",
		"sessionID", s.ID,
		"stage", s.Stage,
		"stageResponses", s.StageResponses,
		"evasion", s.EvasionDetected,
		"completed", s.Completed)
	return d, nil
}

// RecordReply appends the generated assistant reply to the session history
// so later turns can hand the full exchange to the generator.
func RecordReply(s *models.SessionState, reply string) {
	if reply == "" {
		return
	}
	s.AppendMessage("assistant", reply)
	s.UpdatedAt = time.Now()
}

// mergeRating feeds the importance extractor. Outside the metaphor stage a
// detected rating becomes the session's importance rating; during metaphor,
// once an image exists, a rating is read as the image's energy instead.
func mergeRating(s *models.SessionState, utterance string) {
	n, ok := extract.ImportanceRating(utterance)
	if !ok {
		return
	}
	if s.Stage == models.StageMetaphor && s.Context.Image != "" {
		if s.Context.ImageEnergy == 0 {
			s.Context.ImageEnergy = n
		}
		return
	}
	s.ImportanceRating = n
}

// substantive reports whether an utterance is usable as a stage fact:
// not an evasion, not a bare rating, and long enough to carry content.
func substantive(s *models.SessionState, utterance string) bool {
	if s.EvasionDetected {
		return false
	}
	if _, isRating := extract.ImportanceRating(utterance); isRating && utf8.RuneCountInString(strings.TrimSpace(utterance)) <= 12 {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(utterance)) >= minSubstantiveRunes
}

var insightMarkers = []string{
	"i realize", "i realise", "i see now", "now i see", "i understand now", "it hits me", "i get it now",
}

var movementMarkers = []string{
	"stretch", "moved", "moving", "movement", "shook", "shaking", "swaying", "breathing deeper",
}

var settledMarkers = []string{
	"calm", "calmer", "lighter", "warm", "warmer", "better", "settled", "relieved", "relief", "easier", "free", "peaceful", "quiet inside",
}

// mergeStageFact routes the utterance into the current stage's target
// fields under the write-once rule: a populated field is never replaced,
// and only the bodywork sub-fields are refined across multiple turns.
func mergeStageFact(s *models.SessionState, utterance string) {
	c := &s.Context
	lower := strings.ToLower(utterance)

	switch s.Stage {
	case models.StageStartSession:
		if c.InitialRequest == "" {
			c.InitialRequest = utterance
		}
	case models.StageCollectContext:
		// The target fact here is the importance rating, handled by mergeRating.
	case models.StageClarifyRequest:
		if c.ClarifiedRequest == "" && substantive(s, utterance) {
			c.ClarifiedRequest = utterance
		}
	case models.StageExploreStrategy:
		if !substantive(s, utterance) {
			return
		}
		if c.Strategy == "" {
			c.Strategy = utterance
		} else if c.StrategyIntention == "" {
			c.StrategyIntention = utterance
		}
	case models.StageFindNeed:
		if c.DeepNeed == "" && substantive(s, utterance) {
			c.DeepNeed = utterance
		}
	case models.StageBodywork:
		if !substantive(s, utterance) {
			return
		}
		// Sub-fields fill in a fixed order, one per descriptive answer.
		switch {
		case c.Body.Location == "":
			c.Body.Location = utterance
		case c.Body.Size == "":
			c.Body.Size = utterance
		case c.Body.Shape == "":
			c.Body.Shape = utterance
		case c.Body.Density == "":
			c.Body.Density = utterance
		case c.Body.Temperature == "":
			c.Body.Temperature = utterance
		case c.Body.Movement == "":
			c.Body.Movement = utterance
		case c.Body.Impulse == "":
			c.Body.Impulse = utterance
		}
	case models.StageMetaphor:
		if c.Image == "" && substantive(s, utterance) {
			c.Image = utterance
		}
	case models.StageMetaPosition:
		if !substantive(s, utterance) {
			return
		}
		if c.Insight == "" && containsAny(lower, insightMarkers) {
			c.Insight = utterance
			return
		}
		switch {
		case c.SelfView == "":
			c.SelfView = utterance
		case c.LifeView == "":
			c.LifeView = utterance
		case c.StrategyView == "":
			c.StrategyView = utterance
		case c.Message == "":
			c.Message = utterance
		}
	case models.StageIntegration:
		if containsAny(lower, movementMarkers) {
			c.MovementDone = true
		}
		if c.NewFeeling == "" && substantive(s, utterance) {
			c.NewFeeling = utterance
		}
		if containsAny(lower, settledMarkers) {
			if c.IntegratedState == "" {
				c.IntegratedState = utterance
			}
			s.IntegrationDone = true
		}
	case models.StagePlanActions:
		if !substantive(s, utterance) {
			return
		}
		if c.FirstStep == "" {
			c.FirstStep = utterance
		}
		c.Actions = append(c.Actions, utterance)
	case models.StageFinish:
		// Nothing left to gather; the closing turn is conversational.
	}
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
