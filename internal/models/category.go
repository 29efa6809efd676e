package models

// RequestCategory classifies the client's presenting issue. Exactly one
// category is assigned per session, on the first client utterance, and it
// never changes afterwards.
type RequestCategory string

// Request categories. CategoryGeneral is the deterministic fallback when
// no keyword matches.
const (
	CategoryFear            RequestCategory = "fear"
	CategoryProcrastination RequestCategory = "procrastination"
	CategoryRelationship    RequestCategory = "relationship"
	CategorySelfWorth       RequestCategory = "self_worth"
	CategoryBurnout         RequestCategory = "burnout"
	CategoryLostDesire      RequestCategory = "lost_desire"
	CategoryRoleConflict    RequestCategory = "role_conflict"
	CategoryResistance      RequestCategory = "resistance"
	CategoryTrauma          RequestCategory = "trauma"
	CategoryIdentity        RequestCategory = "identity"
	CategoryPsychosomatic   RequestCategory = "psychosomatic"
	CategoryGeneral         RequestCategory = "general"
)

// IsValidCategory checks if the given request category is part of the taxonomy.
func IsValidCategory(c RequestCategory) bool {
	switch c {
	case CategoryFear, CategoryProcrastination, CategoryRelationship,
		CategorySelfWorth, CategoryBurnout, CategoryLostDesire,
		CategoryRoleConflict, CategoryResistance, CategoryTrauma,
		CategoryIdentity, CategoryPsychosomatic, CategoryGeneral:
		return true
	default:
		return false
	}
}
