package models

import (
	"errors"
	"strings"
	"time"
)

// Validation constants for input validation
const (
	// MaxUtteranceLength defines the maximum allowed length for a client utterance
	MaxUtteranceLength = 4096
	// MaxHistoryMessages caps the stored conversation history per session
	MaxHistoryMessages = 50
)

// Error variables for better error handling and testability
var (
	ErrEmptyUtterance   = errors.New("utterance cannot be empty")
	ErrUtteranceTooLong = errors.New("utterance exceeds maximum length")
	ErrSessionNotFound  = errors.New("session not found")
)

// ValidateUtterance checks an incoming client utterance before any state
// mutation happens. A rejected utterance must leave session state untouched.
func ValidateUtterance(utterance string) error {
	if strings.TrimSpace(utterance) == "" {
		return ErrEmptyUtterance
	}
	if len(utterance) > MaxUtteranceLength {
		return ErrUtteranceTooLong
	}
	return nil
}

// BodySense holds the body-sensation descriptor accumulated during the
// bodywork stage. Sub-fields are filled one at a time as the client
// describes the sensation; each is set once and then kept.
type BodySense struct {
	Location    string `json:"location,omitempty"`
	Size        string `json:"size,omitempty"`
	Shape       string `json:"shape,omitempty"`
	Density     string `json:"density,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Movement    string `json:"movement,omitempty"`
	Impulse     string `json:"impulse,omitempty"`
}

// TherapyContext is the append-only-by-field record accumulated over a
// session. Once a field holds a non-zero value it is never overwritten by
// a later, possibly noisier, extraction. The only exception are BodySense
// sub-fields, which are refined turn by turn during bodywork.
type TherapyContext struct {
	ClientName        string `json:"client_name,omitempty"`
	InitialRequest    string `json:"initial_request,omitempty"`
	ClarifiedRequest  string `json:"clarified_request,omitempty"`
	Strategy          string `json:"strategy,omitempty"`
	StrategyIntention string `json:"strategy_intention,omitempty"`
	DeepNeed          string `json:"deep_need,omitempty"`

	Body BodySense `json:"body,omitempty"`

	Image       string `json:"image,omitempty"`
	ImageEnergy int    `json:"image_energy,omitempty"` // 1-10, 0 = unset

	SelfView     string `json:"self_view,omitempty"`
	LifeView     string `json:"life_view,omitempty"`
	StrategyView string `json:"strategy_view,omitempty"`
	Insight      string `json:"insight,omitempty"`
	Message      string `json:"message,omitempty"`

	NewFeeling      string `json:"new_feeling,omitempty"`
	MovementDone    bool   `json:"movement_done,omitempty"`
	IntegratedState string `json:"integrated_state,omitempty"`

	Actions   []string `json:"actions,omitempty"`
	FirstStep string   `json:"first_step,omitempty"`
	Homework  string   `json:"homework,omitempty"`
}

// Message represents a single message in the conversation history.
type Message struct {
	Role      string    `json:"role"`      // "user" or "assistant"
	Content   string    `json:"content"`   // message content
	Timestamp time.Time `json:"timestamp"` // when the message was recorded
}

// SessionState is the authoritative mutable record for one conversation.
// It is created by protocol.NewSession, mutated exclusively by the session
// engine on each turn, and persisted between turns by the session store.
type SessionState struct {
	ID             string          `json:"id"`
	Stage          Stage           `json:"stage"`
	StageResponses int             `json:"stage_responses"` // client responses at the current stage
	StageHistory   []Stage         `json:"stage_history,omitempty"`
	Context        TherapyContext  `json:"context"`
	Category       RequestCategory `json:"category,omitempty"` // empty until first classified
	ScriptID       string          `json:"script_id,omitempty"`
	ScriptReason   string          `json:"script_reason,omitempty"`

	ImportanceRating int    `json:"importance_rating,omitempty"` // 1-10, 0 = unset
	LastResponse     string `json:"last_response,omitempty"`
	EvasionDetected  bool   `json:"evasion_detected,omitempty"` // set per turn
	MovementOffered  bool   `json:"movement_offered,omitempty"`
	IntegrationDone  bool   `json:"integration_done,omitempty"`

	Started   bool `json:"started"`
	Completed bool `json:"completed"`

	History []Message `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendMessage adds a message to the session history, trimming to the
// most recent MaxHistoryMessages entries.
func (s *SessionState) AppendMessage(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content, Timestamp: time.Now()})
	if len(s.History) > MaxHistoryMessages {
		s.History = s.History[len(s.History)-MaxHistoryMessages:]
	}
}

// UserUtterances returns the client side of the history in chronological
// order. Extractors that scan the full history use this view.
func (s *SessionState) UserUtterances() []string {
	var out []string
	for _, m := range s.History {
		if m.Role == "user" {
			out = append(out, m.Content)
		}
	}
	return out
}
