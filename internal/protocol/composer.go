package protocol

import (
	"fmt"
	"strings"

	"github.com/mindloom/theraflow/internal/extract"
	"github.com/mindloom/theraflow/internal/models"
)

// deepenThreshold is the importance rating below which the generator is
// told to seek more context before pressing forward.
const deepenThreshold = 8

// stageConstraints lists per-stage behavioral constraints for the generator.
var stageConstraints = map[models.Stage][]string{
	models.StageStartSession: {
		"ask one question at a time",
		"do not interpret or advise yet; only listen and reflect",
	},
	models.StageCollectContext: {
		"stay with the client's story; do not jump to solutions",
		"ask for an importance rating from 1 to 10 if none has been given",
	},
	models.StageClarifyRequest: {
		"help the client phrase a want, not a complaint",
		"mirror their words back before reformulating",
	},
	models.StageExploreStrategy: {
		"treat the current behavior with respect: it has been protecting something",
		"ask what the behavior gives, not why it is wrong",
	},
	models.StageFindNeed: {
		"keep asking what that would give them, one layer at a time",
		"slow down; the deep need often arrives quietly",
	},
	models.StageBodywork: {
		"keep attention in the body; one descriptor per question",
		"never argue with what the body reports",
	},
	models.StageMetaphor: {
		"accept any image without interpreting it",
		"ask about detail and energy, not meaning",
	},
	models.StageMetaPosition: {
		"invite the client to look from outside, as an observer",
		"collect what they see about self, life and the old strategy",
	},
	models.StageIntegration: {
		"bring the insight back into the body",
		"offer a small physical movement to anchor the new state",
	},
	models.StagePlanActions: {
		"actions come from the new state, not from pressure",
		"insist gently on one concrete first step with a moment in time",
	},
	models.StageFinish: {
		"summarize the path walked today in the client's own words",
		"assign the homework practice and close warmly",
	},
}

// evasionHints gives each stage its own fallback phrasing for when the
// client answers with "I don't know" on the current turn.
var evasionHints = map[models.Stage]string{
	models.StageStartSession:    "if they cannot say what brings them, ask what made today the day they came",
	models.StageCollectContext:  "if they cannot rate it, ask: closer to 'mildly annoying' or 'changes everything'?",
	models.StageClarifyRequest:  "offer: if you did know what you wanted, what might it sound like?",
	models.StageExploreStrategy: "ask them to simply describe what they did the last time this happened",
	models.StageFindNeed:        "offer: if the need had a voice, what would be its first word?",
	models.StageBodywork:        "suggest scanning head to toe and naming the first place attention snags",
	models.StageMetaphor:        "offer: if an image were to appear anyway, what might it be?",
	models.StageMetaPosition:    "ask them to imagine watching a film of their day from the back row",
	models.StageIntegration:     "invite one slow breath and ask only what is different, however small",
	models.StagePlanActions:     "shrink the step until it sounds almost too easy, then ask again",
	models.StageFinish:          "name one thing you noticed them discover today and ask if it lands",
}

// Compose renders the current session state into the directive for the
// external generator. It never discards previously known facts: the
// trailing summary re-states the full accumulated context every turn.
func Compose(s *models.SessionState, authorshipReframe string) *models.Directive {
	def := Definition(s.Stage)
	d := &models.Directive{
		Stage:         s.Stage,
		Goal:          def.Goal,
		Constraints:   stageConstraints[s.Stage],
		SeedQuestions: def.SeedQuestions,
	}

	if s.Context.ClientName != "" {
		d.NameReminder = fmt.Sprintf("address the client by name: %s", s.Context.ClientName)
	}
	if s.ImportanceRating > 0 {
		d.ImportanceNote = fmt.Sprintf("stated importance is %d/10", s.ImportanceRating)
		if s.ImportanceRating < deepenThreshold {
			d.ImportanceNote += "; below the working threshold, seek deeper context for why this matters"
		}
	}
	if s.EvasionDetected {
		d.EvasionHint = evasionHints[s.Stage]
	}
	d.AuthorshipReframe = authorshipReframe
	if s.Category != "" {
		script, _ := extract.SelectScript(s.Category, "")
		if s.ScriptID != "" && s.ScriptID != script.ID {
			// An externally pinned scenario overrides the category script.
			d.ScriptNote = fmt.Sprintf("%s: %s", s.ScriptID, s.ScriptReason)
		} else {
			d.ScriptNote = fmt.Sprintf("%s: %s", script.ID, script.Description)
		}
	}
	if s.Stage == models.StageFinish {
		d.Homework = homeworkFor(&s.Context)
	}
	d.Summary = summarize(s)
	return d
}

// homeworkFor selects the closing practice by a fixed priority over which
// context fields were actually gathered during the session.
func homeworkFor(c *models.TherapyContext) string {
	switch {
	case c.Image != "":
		return "each morning, recall the image from the session, observe how it has changed, and breathe with it for two minutes"
	case c.Body.Location != "":
		return "twice a day, place attention on the body sensation found in the session and describe it to yourself without changing it"
	case c.FirstStep != "":
		return "track the first step daily: note whether it happened, what helped, and what got in the way"
	default:
		return "once a day, pause for five slow breaths and name one thing you need right now"
	}
}

// summarize enumerates the stage history and all known context fields so
// the generator keeps continuity across the whole session.
func summarize(s *models.SessionState) string {
	var b strings.Builder
	if len(s.StageHistory) > 0 {
		stages := make([]string, 0, len(s.StageHistory))
		for _, st := range s.StageHistory {
			stages = append(stages, string(st))
		}
		fmt.Fprintf(&b, "- stages done: %s\n", strings.Join(stages, ", "))
	}
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}
	c := &s.Context
	line("client name", c.ClientName)
	line("initial request", c.InitialRequest)
	line("clarified request", c.ClarifiedRequest)
	line("current strategy", c.Strategy)
	line("strategy intention", c.StrategyIntention)
	line("deep need", c.DeepNeed)
	line("body location", c.Body.Location)
	line("body size", c.Body.Size)
	line("body shape", c.Body.Shape)
	line("body density", c.Body.Density)
	line("body temperature", c.Body.Temperature)
	line("body movement", c.Body.Movement)
	line("body impulse", c.Body.Impulse)
	line("image", c.Image)
	if c.ImageEnergy > 0 {
		fmt.Fprintf(&b, "- image energy: %d/10\n", c.ImageEnergy)
	}
	line("view of self", c.SelfView)
	line("view of life", c.LifeView)
	line("view of strategy", c.StrategyView)
	line("insight", c.Insight)
	line("message to self", c.Message)
	line("new feeling", c.NewFeeling)
	if c.MovementDone {
		b.WriteString("- integrative movement: done\n")
	}
	line("integrated state", c.IntegratedState)
	if len(c.Actions) > 0 {
		fmt.Fprintf(&b, "- chosen actions: %s\n", strings.Join(c.Actions, "; "))
	}
	line("first step", c.FirstStep)
	line("homework", c.Homework)
	return b.String()
}
