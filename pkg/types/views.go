package types

// PlayerView is the wire form of a player: identity only, never the
// connection handle.
type PlayerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpectrumView is the per-viewer projection of one spectrum. CorrectValue is
// omitted entirely (not zeroed) unless the viewer is allowed to see it, so a
// client can tell "hidden" apart from a target of 0.
type SpectrumView struct {
	ID             string     `json:"id"`
	Left           string     `json:"left"`
	Right          string     `json:"right"`
	CorrectValue   *float64   `json:"correctValue,omitempty"`
	SubmittedValue *float64   `json:"submittedValue,omitempty"`
	Prompt         string     `json:"prompt,omitempty"`
	Assigned       PlayerView `json:"assigned"`
}

// GameStateView is the projected game state, tagged by State. Fields outside
// the current phase's payload are left nil and omitted. The slice fields use
// omitzero, not omitempty: a phase that carries them must serialize them even
// when empty (round-playing always has a "ready" array, [] at round start),
// while phases that don't carry them leave them nil and absent.
type GameStateView struct {
	State         string         `json:"state"`
	Spectrums     []SpectrumView `json:"spectrums,omitzero"`
	Current       *SpectrumView  `json:"current,omitempty"`
	Ready         []PlayerView   `json:"ready,omitzero"`
	ProposedValue *float64       `json:"proposedValue,omitempty"`
}
