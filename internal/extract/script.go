package extract

import (
	"fmt"

	"github.com/mindloom/theraflow/internal/models"
)

// Script identifies a guidance script for the generator, with a short
// human-readable description of its focus.
type Script struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// categoryScripts maps every request category to its default script.
var categoryScripts = map[models.RequestCategory]Script{
	models.CategoryFear:            {ID: "fear_dialogue", Description: "work with the fear as a protective part: what is it guarding, what does it need"},
	models.CategoryProcrastination: {ID: "procrastination_intent", Description: "uncover the positive intention behind the delay and the need it protects"},
	models.CategoryRelationship:    {ID: "relationship_authorship", Description: "return authorship: explore the client's own contribution and need in the relationship"},
	models.CategorySelfWorth:       {ID: "self_worth_support", Description: "find the inner critic's intention and the deeper need for acceptance"},
	models.CategoryBurnout:         {ID: "burnout_recovery", Description: "locate what drains and what restores; reconnect with the body's signals"},
	models.CategoryLostDesire:      {ID: "desire_recovery", Description: "search for the buried want underneath the flatness, without pushing"},
	models.CategoryRoleConflict:    {ID: "role_integration", Description: "give each role a voice, then look for the need both roles serve"},
	models.CategoryResistance:      {ID: "resistance_respect", Description: "treat the resistance as an ally; ask what it protects before moving on"},
	models.CategoryTrauma:          {ID: "trauma_stabilize", Description: "slow pace, body anchoring, no pressure to retell events"},
	models.CategoryIdentity:        {ID: "identity_exploration", Description: "explore who the client is beneath the roles and expectations"},
	models.CategoryPsychosomatic:   {ID: "body_first", Description: "start from the body sensation and let it speak before interpreting"},
	models.CategoryGeneral:         {ID: "general_protocol", Description: "follow the standard protocol, staying close to what the client brings"},
}

// scenarioScripts are externally selectable scenarios that override the
// category mapping when the caller pins a scenario id on the session.
var scenarioScripts = map[string]Script{
	"inner_child": {ID: "inner_child", Description: "meet the younger self behind the reaction and ask what it needed then"},
	"parts_work":  {ID: "parts_work", Description: "separate the conflicting inner parts and negotiate between them"},
	"future_self": {ID: "future_self", Description: "consult the client's future self who has already resolved this"},
	"grief_work":  {ID: "grief_work", Description: "make room for the loss; do not rush toward meaning or action"},
}

// SelectScript resolves the script for a session. A recognized scenario id
// wins over the category mapping; otherwise the category's default script
// is used. The second return value is the rationale for the choice.
func SelectScript(category models.RequestCategory, scenarioID string) (Script, string) {
	if scenarioID != "" {
		if s, ok := scenarioScripts[scenarioID]; ok {
			return s, fmt.Sprintf("scenario %q was chosen explicitly for this session", scenarioID)
		}
	}
	if s, ok := categoryScripts[category]; ok {
		return s, fmt.Sprintf("selected for request category %q", category)
	}
	return categoryScripts[models.CategoryGeneral], "no category assigned yet, using the general protocol"
}
