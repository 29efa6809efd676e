package extract

import (
	"strings"

	"github.com/mindloom/theraflow/internal/models"
)

// categoryOrder fixes the order in which categories are tested. The first
// category with a keyword hit wins, so the order is part of the classifier
// contract. CategoryGeneral is deliberately absent: it is the fallback.
var categoryOrder = []models.RequestCategory{
	models.CategoryFear,
	models.CategoryProcrastination,
	models.CategoryRelationship,
	models.CategorySelfWorth,
	models.CategoryBurnout,
	models.CategoryLostDesire,
	models.CategoryRoleConflict,
	models.CategoryResistance,
	models.CategoryTrauma,
	models.CategoryIdentity,
	models.CategoryPsychosomatic,
}

// categoryKeywords maps each category to the substrings that select it.
// Matching is case-insensitive substring membership over the utterance.
var categoryKeywords = map[models.RequestCategory][]string{
	models.CategoryFear: {
		"afraid", "fear", "scared", "anxious", "anxiety", "panic", "worried", "terrified",
	},
	models.CategoryProcrastination: {
		"procrastinat", "putting off", "put off", "postpon", "can't start", "cannot start", "keep delaying", "avoid doing",
	},
	models.CategoryRelationship: {
		"relationship", "partner", "husband", "wife", "boyfriend", "girlfriend", "marriage", "divorce", "my mother", "my father", "conflict with",
	},
	models.CategorySelfWorth: {
		"not good enough", "worthless", "self-esteem", "self esteem", "hate myself", "don't like myself", "impostor", "imposter", "compare myself",
	},
	models.CategoryBurnout: {
		"burnout", "burned out", "burnt out", "exhausted", "no energy", "drained", "overworked",
	},
	models.CategoryLostDesire: {
		"don't want anything", "lost interest", "nothing excites", "no desire", "apathy", "apathetic", "don't enjoy",
	},
	models.CategoryRoleConflict: {
		"torn between", "have to choose", "both roles", "as a mother", "as a father", "work and family", "pulled in",
	},
	models.CategoryResistance: {
		"resist", "sabotage", "can't make myself", "cannot make myself", "something stops me", "blocking myself",
	},
	models.CategoryTrauma: {
		"trauma", "abuse", "abused", "violence", "assault", "ptsd", "flashback", "childhood",
	},
	models.CategoryIdentity: {
		"who am i", "don't know who", "lost myself", "my identity", "real me", "find myself",
	},
	models.CategoryPsychosomatic: {
		"headache", "stomach", "psychosomatic", "body hurts", "tension in", "chest tight", "can't sleep", "insomnia",
	},
}

// Classify maps an utterance to a request category by testing each
// category's keywords in the fixed order, returning the first hit.
// CategoryGeneral is returned when nothing matches. Classification is
// performed once per session, on the first client utterance; the result
// is pinned for the rest of the session.
func Classify(utterance string) models.RequestCategory {
	lower := strings.ToLower(utterance)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return models.CategoryGeneral
}
