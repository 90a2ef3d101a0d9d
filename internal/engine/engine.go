package engine

import "errors"

var ErrWrongState = errors.New("command not allowed in current state")
var ErrSpectrumNotFound = errors.New("spectrum not found")
var ErrNotYourSpectrum = errors.New("spectrum assigned to another player")
var ErrOwnSpectrum = errors.New("cannot act on your own spectrum")
var ErrUnsupportedCommand = errors.New("unsupported command")

// PlayerID is assigned once per player for the process lifetime, monotonically.
type PlayerID int64

// Spectrum is one round's labeled axis. Target is fixed at generation and
// never mutated; Submitted is written exactly once when the round completes;
// Prompt is written by the author during initialization. An empty Prompt means
// the author has not submitted one yet.
type Spectrum struct {
	ID        int
	Left      string
	Right     string
	Target    float64
	Submitted *float64
	Prompt    string
	Author    PlayerID
}

// State is the closed set of game phases. Transitions only happen through
// Apply; callers dispatch on the concrete variant with a type switch.
type State interface{ isState() }

type Lobby struct{}

type Initializing struct {
	Spectrums []*Spectrum
}

type RoundPlaying struct {
	Spectrums []*Spectrum
	Current   *Spectrum
	Ready     map[PlayerID]bool
	Proposed  float64
}

type RoundCompleted struct {
	Spectrums []*Spectrum
	Current   *Spectrum
}

type Results struct {
	Spectrums []*Spectrum
}

func (Lobby) isState()          {}
func (Initializing) isState()   {}
func (RoundPlaying) isState()   {}
func (RoundCompleted) isState() {}
func (Results) isState()        {}

// NeutralProposal is the starting group guess for every round.
const NeutralProposal = 0.5

type CommandType string

const (
	CmdStartGame    CommandType = "StartGame"
	CmdSubmitPrompt CommandType = "SubmitPrompt"
	CmdProposeValue CommandType = "ProposeValue"
	CmdReadyUp      CommandType = "ReadyUp"
	CmdClearReady   CommandType = "ClearReady"
	CmdProceed      CommandType = "Proceed"
	CmdRemovePlayer CommandType = "RemovePlayer"
)

type Command struct {
	Type       CommandType
	Actor      PlayerID
	SpectrumID int
	Prompt     string
	Value      float64
	Spectrums  []*Spectrum // CmdStartGame only: output of Generate
}

type EventType string

const (
	EvtGameStarted     EventType = "GameStarted"
	EvtPromptSubmitted EventType = "PromptSubmitted"
	EvtRoundStarted    EventType = "RoundStarted"
	EvtValueProposed   EventType = "ValueProposed"
	EvtPlayerReady     EventType = "PlayerReady"
	EvtReadyCleared    EventType = "ReadyCleared"
	EvtRoundCompleted  EventType = "RoundCompleted"
	EvtGameCompleted   EventType = "GameCompleted"
	EvtPlayerRemoved   EventType = "PlayerRemoved"
)

type Event struct {
	Type       EventType
	Player     PlayerID
	SpectrumID int
	Value      float64
}

// Apply runs one guarded transition. roster is the session's current member
// list in join order (for CmdRemovePlayer, the list after removal). On a guard
// violation it returns the state untouched together with a sentinel error; an
// empty event list with a nil error means the command was a no-op and callers
// need not broadcast.
func Apply(s State, roster []PlayerID, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdStartGame:
		if _, ok := s.(Lobby); !ok {
			return nil, s, ErrWrongState
		}
		return []Event{{Type: EvtGameStarted, Player: cmd.Actor}},
			Initializing{Spectrums: cmd.Spectrums}, nil

	case CmdSubmitPrompt:
		st, ok := s.(Initializing)
		if !ok {
			return nil, s, ErrWrongState
		}
		sp := findSpectrum(st.Spectrums, cmd.SpectrumID)
		if sp == nil {
			return nil, s, ErrSpectrumNotFound
		}
		if sp.Author != cmd.Actor {
			return nil, s, ErrNotYourSpectrum
		}
		sp.Prompt = cmd.Prompt
		events := []Event{{Type: EvtPromptSubmitted, Player: cmd.Actor, SpectrumID: sp.ID}}
		if allPrompted(st.Spectrums) {
			events = append(events, Event{Type: EvtRoundStarted, SpectrumID: st.Spectrums[0].ID})
			return events, startRound(st.Spectrums, st.Spectrums[0]), nil
		}
		return events, st, nil

	case CmdProposeValue:
		st, ok := s.(RoundPlaying)
		if !ok {
			return nil, s, ErrWrongState
		}
		if st.Current.Author == cmd.Actor {
			return nil, s, ErrOwnSpectrum
		}
		st.Proposed = cmd.Value
		st.Ready = make(map[PlayerID]bool) // any new proposal voids prior readiness
		return []Event{{Type: EvtValueProposed, Player: cmd.Actor, Value: cmd.Value}}, st, nil

	case CmdReadyUp:
		st, ok := s.(RoundPlaying)
		if !ok {
			return nil, s, ErrWrongState
		}
		if st.Current.Author == cmd.Actor {
			return nil, s, ErrOwnSpectrum
		}
		st.Ready[cmd.Actor] = true
		events := []Event{{Type: EvtPlayerReady, Player: cmd.Actor}}
		if quorum := readyQuorum(roster, st.Current); quorum > 0 && len(st.Ready) >= quorum {
			return append(events, Event{Type: EvtRoundCompleted, SpectrumID: st.Current.ID, Value: st.Proposed}),
				completeRound(st), nil
		}
		return events, st, nil

	case CmdClearReady:
		st, ok := s.(RoundPlaying)
		if !ok {
			return nil, s, ErrWrongState
		}
		if !st.Ready[cmd.Actor] {
			return nil, st, nil
		}
		delete(st.Ready, cmd.Actor)
		return []Event{{Type: EvtReadyCleared, Player: cmd.Actor}}, st, nil

	case CmdProceed:
		st, ok := s.(RoundCompleted)
		if !ok {
			return nil, s, ErrWrongState
		}
		idx := spectrumIndex(st.Spectrums, st.Current)
		if idx == len(st.Spectrums)-1 {
			return []Event{{Type: EvtGameCompleted}}, Results{Spectrums: st.Spectrums}, nil
		}
		next := st.Spectrums[idx+1]
		return []Event{{Type: EvtRoundStarted, SpectrumID: next.ID}},
			startRound(st.Spectrums, next), nil

	case CmdRemovePlayer:
		return removePlayer(s, roster, cmd.Actor)

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// removePlayer applies the state-specific cleanup for a departed player.
// roster is the remaining membership. Departure is never rejected, so this
// always succeeds; it may auto-advance the game the same way a submitted
// prompt or a final ready-up would.
func removePlayer(s State, roster []PlayerID, departed PlayerID) ([]Event, State, error) {
	events := []Event{{Type: EvtPlayerRemoved, Player: departed}}

	switch st := s.(type) {
	case Initializing:
		// Nobody can wait on prompts the departed author never wrote.
		kept := st.Spectrums[:0:0]
		for _, sp := range st.Spectrums {
			if sp.Author == departed && sp.Prompt == "" {
				continue
			}
			kept = append(kept, sp)
		}
		if len(kept) == 0 {
			// Every spectrum left with its author (the remaining members
			// joined after the game started, so they authored none). Return
			// to the lobby so the room can start over instead of parking in
			// an unfinishable initialization.
			return events, Lobby{}, nil
		}
		st.Spectrums = kept
		if allPrompted(kept) {
			events = append(events, Event{Type: EvtRoundStarted, SpectrumID: kept[0].ID})
			return events, startRound(kept, kept[0]), nil
		}
		return events, st, nil

	case RoundPlaying:
		delete(st.Ready, departed)
		if quorum := readyQuorum(roster, st.Current); quorum > 0 && len(st.Ready) >= quorum {
			events = append(events, Event{Type: EvtRoundCompleted, SpectrumID: st.Current.ID, Value: st.Proposed})
			return events, completeRound(st), nil
		}
		return events, st, nil

	default:
		return events, s, nil
	}
}

func startRound(spectrums []*Spectrum, current *Spectrum) RoundPlaying {
	return RoundPlaying{
		Spectrums: spectrums,
		Current:   current,
		Ready:     make(map[PlayerID]bool),
		Proposed:  NeutralProposal,
	}
}

func completeRound(st RoundPlaying) RoundCompleted {
	frozen := st.Proposed
	st.Current.Submitted = &frozen
	return RoundCompleted{Spectrums: st.Spectrums, Current: st.Current}
}

// readyQuorum is the number of roster members who are allowed to ready up on
// current, i.e. everyone but its author. The author may already have left the
// roster, in which case every remaining member counts.
func readyQuorum(roster []PlayerID, current *Spectrum) int {
	n := 0
	for _, id := range roster {
		if id != current.Author {
			n++
		}
	}
	return n
}

func findSpectrum(spectrums []*Spectrum, id int) *Spectrum {
	for _, sp := range spectrums {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func spectrumIndex(spectrums []*Spectrum, target *Spectrum) int {
	for i, sp := range spectrums {
		if sp == target {
			return i
		}
	}
	return -1
}

func allPrompted(spectrums []*Spectrum) bool {
	for _, sp := range spectrums {
		if sp.Prompt == "" {
			return false
		}
	}
	return true
}

// ContainsEvent reports whether events includes one of the given type.
func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
