package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelength-party/backend/internal/engine"
	"github.com/wavelength-party/backend/pkg/types"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		frame   string
		wantErr error
	}{
		{"not json", `{{{`, errBadJSON},
		{"json but no type", `{"nickname":"ana"}`, errBadShape},
		{"unknown type", `{"type":"make-sandwich"}`, errBadShape},
		{"create room", `{"type":"create-room","nickname":"ana"}`, nil},
		{"create room without nickname", `{"type":"create-room"}`, errBadShape},
		{"join room", `{"type":"join-room","code":"ABCDE","nickname":"bo"}`, nil},
		{"join room without code", `{"type":"join-room","nickname":"bo"}`, errBadShape},
		{"join room without nickname", `{"type":"join-room","code":"ABCDE"}`, errBadShape},
		{"start game", `{"type":"start-game"}`, nil},
		{"submit prompt", `{"type":"submit-prompt","spectrumId":"3","prompt":"tea"}`, nil},
		{"submit prompt without id", `{"type":"submit-prompt","prompt":"tea"}`, errBadShape},
		{"submit prompt with non-numeric id", `{"type":"submit-prompt","spectrumId":"abc","prompt":"tea"}`, errBadShape},
		{"propose value", `{"type":"propose-value","value":0.42}`, nil},
		{"propose value of zero", `{"type":"propose-value","value":0}`, nil},
		{"propose value of one", `{"type":"propose-value","value":1}`, nil},
		{"propose without value", `{"type":"propose-value"}`, errBadShape},
		{"propose value below range", `{"type":"propose-value","value":-0.1}`, errBadShape},
		{"propose value above range", `{"type":"propose-value","value":1.5}`, errBadShape},
		{"ready up", `{"type":"ready-up"}`, nil},
		{"clear ready", `{"type":"clear-ready"}`, nil},
		{"proceed", `{"type":"proceed"}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decode([]byte(tc.frame))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToCommand(t *testing.T) {
	value := 0.42
	cases := []struct {
		name string
		msg  types.ClientMessage
		want engine.Command
	}{
		{"start", types.ClientMessage{Type: types.MsgStartGame}, engine.Command{Type: engine.CmdStartGame}},
		{
			"submit prompt",
			types.ClientMessage{Type: types.MsgSubmitPrompt, SpectrumID: "7", Prompt: "tea"},
			engine.Command{Type: engine.CmdSubmitPrompt, SpectrumID: 7, Prompt: "tea"},
		},
		{
			"propose",
			types.ClientMessage{Type: types.MsgProposeValue, Value: &value},
			engine.Command{Type: engine.CmdProposeValue, Value: 0.42},
		},
		{"ready", types.ClientMessage{Type: types.MsgReadyUp}, engine.Command{Type: engine.CmdReadyUp}},
		{"clear ready", types.ClientMessage{Type: types.MsgClearReady}, engine.Command{Type: engine.CmdClearReady}},
		{"proceed", types.ClientMessage{Type: types.MsgProceed}, engine.Command{Type: engine.CmdProceed}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := toCommand(tc.msg)
			require.True(t, ok)
			assert.Equal(t, tc.want, cmd)
		})
	}

	// room management never maps to an engine command
	_, ok := toCommand(types.ClientMessage{Type: types.MsgCreateRoom, Nickname: "ana"})
	assert.False(t, ok)
	_, ok = toCommand(types.ClientMessage{Type: types.MsgJoinRoom, Code: "ABCDE", Nickname: "ana"})
	assert.False(t, ok)
}
