package npc

// PersonalityProfile defines the tunable parameters for a RuleBrain.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0–1.0: tendency to bet/raise vs check/call
	Tightness  float64 `json:"tightness"`  // 0.0–1.0: hand range width (1.0 = only premiums)
	Bluffing   float64 `json:"bluffing"`   // 0.0–1.0: bluff frequency
	Positional float64 `json:"positional"` // 0.0–1.0: how much position affects play
	Randomness float64 `json:"randomness"` // 0.0–1.0: decision noise
}

// NPCPersona defines a named NPC character and the decision profile
// that drives its RuleBrain.
type NPCPersona struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Brain PersonalityProfile `json:"brain"`
}
