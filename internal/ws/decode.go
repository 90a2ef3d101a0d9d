package ws

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/wavelength-party/backend/internal/engine"
	"github.com/wavelength-party/backend/pkg/types"
)

var errBadJSON = errors.New("frame is not valid json")
var errBadShape = errors.New("frame does not match any known message")

// decode parses one inbound frame and checks it against the closed message
// set: the type tag must be recognized and the fields that type requires must
// be present and well-formed. Anything else is dropped by the caller.
func decode(data []byte) (types.ClientMessage, error) {
	var msg types.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, errBadJSON
	}

	switch msg.Type {
	case types.MsgCreateRoom:
		if msg.Nickname == "" {
			return msg, errBadShape
		}
	case types.MsgJoinRoom:
		if msg.Code == "" || msg.Nickname == "" {
			return msg, errBadShape
		}
	case types.MsgSubmitPrompt:
		if msg.SpectrumID == "" {
			return msg, errBadShape
		}
		if _, err := strconv.Atoi(msg.SpectrumID); err != nil {
			return msg, errBadShape
		}
	case types.MsgProposeValue:
		v := msg.Value
		if v == nil || math.IsNaN(*v) || *v < 0 || *v > 1 {
			return msg, errBadShape
		}
	case types.MsgStartGame, types.MsgReadyUp, types.MsgClearReady, types.MsgProceed:
		// no fields beyond the tag
	default:
		return msg, errBadShape
	}
	return msg, nil
}

// toCommand maps an already-validated game message onto its engine command.
// Room management messages (create-room, join-room) are handled by the
// dispatcher itself and never reach this table.
func toCommand(msg types.ClientMessage) (engine.Command, bool) {
	switch msg.Type {
	case types.MsgStartGame:
		return engine.Command{Type: engine.CmdStartGame}, true
	case types.MsgSubmitPrompt:
		id, _ := strconv.Atoi(msg.SpectrumID)
		return engine.Command{Type: engine.CmdSubmitPrompt, SpectrumID: id, Prompt: msg.Prompt}, true
	case types.MsgProposeValue:
		return engine.Command{Type: engine.CmdProposeValue, Value: *msg.Value}, true
	case types.MsgReadyUp:
		return engine.Command{Type: engine.CmdReadyUp}, true
	case types.MsgClearReady:
		return engine.Command{Type: engine.CmdClearReady}, true
	case types.MsgProceed:
		return engine.Command{Type: engine.CmdProceed}, true
	default:
		return engine.Command{}, false
	}
}
