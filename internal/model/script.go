package model

import "time"

// Scenario is the negotiation situation a script is written for.
type Scenario string

const (
	ScenarioExternal      Scenario = "external"
	ScenarioInternalRaise Scenario = "internal_raise"
	ScenarioRetention     Scenario = "retention"
)

// Valid reports whether s is a known scenario.
func (s Scenario) Valid() bool {
	return s == ScenarioExternal || s == ScenarioInternalRaise || s == ScenarioRetention
}

// Tone is the register of a generated script.
type Tone string

const (
	TonePolite       Tone = "polite"
	ToneProfessional Tone = "professional"
	ToneAggressive   Tone = "aggressive"
)

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	return t == TonePolite || t == ToneProfessional || t == ToneAggressive
}

// ScriptResult is a composed negotiation email.
type ScriptResult struct {
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Tone           Tone   `json:"tone"`
	TargetAmount   int    `json:"targetAmount"`
	ContextSummary string `json:"contextSummary"`
	ScriptID       string `json:"scriptId,omitempty"`
}

// ScriptSession is the persisted record of a composed script.
type ScriptSession struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId,omitempty"`
	Scenario     Scenario  `json:"scenario"`
	Tone         Tone      `json:"tone"`
	CurrentOffer int       `json:"currentOffer"`
	TargetAmount int       `json:"targetAmount"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}
