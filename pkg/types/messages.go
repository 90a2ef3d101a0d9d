package types

// Client -> Server message types. Every inbound frame is a JSON object
// tagged by "type"; anything outside this set is dropped by the dispatcher.
const (
	MsgCreateRoom   = "create-room"
	MsgJoinRoom     = "join-room"
	MsgStartGame    = "start-game"
	MsgSubmitPrompt = "submit-prompt"
	MsgProposeValue = "propose-value"
	MsgReadyUp      = "ready-up"
	MsgClearReady   = "clear-ready"
	MsgProceed      = "proceed"
)

// Server -> Client. The only outbound message type.
const MsgSync = "sync"

// ClientMessage is the superset of all inbound message shapes. Which fields
// are required depends on Type; the dispatcher validates that before routing.
// Value is a pointer so a missing field is distinguishable from a literal 0.
type ClientMessage struct {
	Type       string   `json:"type"`
	Nickname   string   `json:"nickname,omitempty"`
	Code       string   `json:"code,omitempty"`
	SpectrumID string   `json:"spectrumId,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	Value      *float64 `json:"value,omitempty"`
}

// ServerMessage wraps one per-recipient state sync.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload SyncPayload `json:"payload"`
}

type SyncPayload struct {
	You     PlayerView    `json:"you"`
	Players []PlayerView  `json:"players"`
	Code    string        `json:"code"`
	State   GameStateView `json:"state"`
}
