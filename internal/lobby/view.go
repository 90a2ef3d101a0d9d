package lobby

import (
	"strconv"

	"github.com/wavelength-party/backend/internal/engine"
	"github.com/wavelength-party/backend/pkg/types"
)

// projectPlayer reduces a player to wire identity. names keeps entries for
// departed players so spectrums authored by someone who left still render.
func projectPlayer(id engine.PlayerID, names map[engine.PlayerID]string) types.PlayerView {
	return types.PlayerView{
		ID:   strconv.FormatInt(int64(id), 10),
		Name: names[id],
	}
}

// projectSpectrum redacts one spectrum for a viewer. The hidden target is
// included only for its author, until the group's value is submitted; after
// that everyone may see it. When hidden, the field is absent rather than
// zeroed so clients can tell it apart from a target of 0.
func projectSpectrum(sp *engine.Spectrum, viewer engine.PlayerID, names map[engine.PlayerID]string) types.SpectrumView {
	v := types.SpectrumView{
		ID:       strconv.Itoa(sp.ID),
		Left:     sp.Left,
		Right:    sp.Right,
		Prompt:   sp.Prompt,
		Assigned: projectPlayer(sp.Author, names),
	}
	if sp.Submitted != nil {
		submitted := *sp.Submitted
		v.SubmittedValue = &submitted
	}
	if viewer == sp.Author || sp.Submitted != nil {
		target := sp.Target
		v.CorrectValue = &target
	}
	return v
}

// projectState produces the viewer-safe snapshot of the current game state.
// It runs once per roster member on every broadcast because visibility
// differs per viewer.
func (l *Lobby) projectState(viewer engine.PlayerID) types.GameStateView {
	project := func(spectrums []*engine.Spectrum) []types.SpectrumView {
		views := make([]types.SpectrumView, len(spectrums))
		for i, sp := range spectrums {
			views[i] = projectSpectrum(sp, viewer, l.names)
		}
		return views
	}

	switch st := l.state.(type) {
	case engine.Lobby:
		return types.GameStateView{State: "lobby"}

	case engine.Initializing:
		return types.GameStateView{
			State:     "initializing",
			Spectrums: project(st.Spectrums),
		}

	case engine.RoundPlaying:
		current := projectSpectrum(st.Current, viewer, l.names)
		proposed := st.Proposed
		ready := make([]types.PlayerView, 0, len(st.Ready))
		for _, p := range l.roster { // roster order keeps the wire form deterministic
			if st.Ready[p.ID] {
				ready = append(ready, projectPlayer(p.ID, l.names))
			}
		}
		return types.GameStateView{
			State:         "round-playing",
			Spectrums:     project(st.Spectrums),
			Current:       &current,
			Ready:         ready,
			ProposedValue: &proposed,
		}

	case engine.RoundCompleted:
		current := projectSpectrum(st.Current, viewer, l.names)
		return types.GameStateView{
			State:     "round-completed",
			Spectrums: project(st.Spectrums),
			Current:   &current,
		}

	case engine.Results:
		return types.GameStateView{
			State:     "results",
			Spectrums: project(st.Spectrums),
		}

	default:
		return types.GameStateView{State: "lobby"}
	}
}
