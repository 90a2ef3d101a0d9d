package lobby

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/wavelength-party/backend/internal/engine"
	"github.com/wavelength-party/backend/pkg/types"
)

type Msg interface{ isLobbyMsg() }

// Join attaches a player to the session and syncs the whole roster.
type Join struct {
	Player *Player
}

func (Join) isLobbyMsg() {}

// Leave detaches a player, runs the state-specific cleanup, and syncs. The
// transport layer must send this on disconnect; it is the only reclamation
// path for a dead connection.
type Leave struct {
	PlayerID engine.PlayerID
}

func (Leave) isLobbyMsg() {}

// FromClient carries one validated game command from a roster member.
type FromClient struct {
	Actor engine.PlayerID
	Cmd   engine.Command
}

func (FromClient) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

// GetState reflects internal state without data races. Test hook.
type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	Code   string
	Roster []engine.PlayerID
	State  engine.State
}

// Lobby is one session: a roster plus a game state, owned by a single
// goroutine. All mutation goes through the inbox, so concurrent connections
// targeting the same session are serialized without locks.
type Lobby struct {
	code    string
	inbox   chan Msg
	roster  []*Player
	names   map[engine.PlayerID]string // everyone ever joined, for projecting departed authors
	state   engine.State
	rng     *rand.Rand
	log     *zap.Logger
	onEmpty func(code string)
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewLobby starts an empty session in the lobby phase. onEmpty is invoked
// once, from the session goroutine, when the last player leaves; the registry
// uses it to free the code. rng must be exclusive to this session.
func NewLobby(parent context.Context, code string, rng *rand.Rand, log *zap.Logger, onEmpty func(code string)) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		code:    code,
		inbox:   make(chan Msg, 64),
		names:   make(map[engine.PlayerID]string),
		state:   engine.Lobby{},
		rng:     rng,
		log:     log.With(zap.String("session", code)),
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) Code() string { return l.code }

// Inbox exposes the message channel to the transport layer and tests.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.roster = append(l.roster, msg.Player)
				l.names[msg.Player.ID] = msg.Player.Name
				l.log.Info("player joined",
					zap.Int64("player", int64(msg.Player.ID)),
					zap.String("name", msg.Player.Name))
				l.sync()

			case Leave:
				l.removePlayer(msg.PlayerID)
				if len(l.roster) == 0 {
					l.shutdown()
					return
				}

			case FromClient:
				l.handleCommand(msg.Actor, msg.Cmd)

			case GetState:
				msg.Reply <- View{Code: l.code, Roster: l.rosterIDs(), State: l.state}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// handleCommand validates and applies one game command. A guard violation is
// a bad or stale request from one client: it is logged and dropped, the state
// stays untouched, and nothing is echoed back to the sender.
func (l *Lobby) handleCommand(actor engine.PlayerID, cmd engine.Command) {
	if !l.isMember(actor) {
		l.log.Warn("command from player not in roster", zap.Int64("player", int64(actor)))
		return
	}
	cmd.Actor = actor

	if cmd.Type == engine.CmdStartGame {
		spectrums, err := engine.Generate(l.rosterIDs(), l.rng)
		if err != nil {
			l.log.Warn("spectrum generation failed", zap.Error(err))
			return
		}
		cmd.Spectrums = spectrums
	}

	events, next, err := engine.Apply(l.state, l.rosterIDs(), cmd)
	if err != nil {
		l.log.Warn("rejected command",
			zap.String("command", string(cmd.Type)),
			zap.Int64("player", int64(actor)),
			zap.Error(err))
		return
	}
	l.state = next
	if len(events) == 0 {
		return
	}
	if engine.ContainsEvent(events, engine.EvtGameCompleted) {
		l.log.Info("game completed")
	}
	l.sync()
}

// removePlayer drops a roster member and applies the departure cleanup. It is
// a no-op for ids not in the roster (e.g. a disconnect racing a slow-client
// drop).
func (l *Lobby) removePlayer(id engine.PlayerID) {
	idx := -1
	for i, p := range l.roster {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	player := l.roster[idx]
	l.roster = append(l.roster[:idx], l.roster[idx+1:]...)
	close(player.Outbox)
	l.log.Info("player left", zap.Int64("player", int64(id)))

	if len(l.roster) == 0 {
		if l.onEmpty != nil {
			l.onEmpty(l.code)
		}
		l.cancel() // stops the loop even when the removal came from a slow-client drop
		return
	}

	_, next, err := engine.Apply(l.state, l.rosterIDs(), engine.Command{
		Type:  engine.CmdRemovePlayer,
		Actor: id,
	})
	if err != nil {
		// Departure cleanup has no guards; nothing to reject.
		l.log.Error("departure cleanup failed", zap.Error(err))
		return
	}
	l.state = next
	l.sync()
}

// sync broadcasts one freshly projected snapshot to every roster member.
// Sends are non-blocking: a member whose outbox is full is dropped from the
// session rather than stalling delivery to everyone else.
func (l *Lobby) sync() {
	players := make([]types.PlayerView, len(l.roster))
	for i, p := range l.roster {
		players[i] = projectPlayer(p.ID, l.names)
	}

	var dropped []engine.PlayerID
	for _, p := range l.roster {
		msg := types.ServerMessage{
			Type: types.MsgSync,
			Payload: types.SyncPayload{
				You:     projectPlayer(p.ID, l.names),
				Players: players,
				Code:    l.code,
				State:   l.projectState(p.ID),
			},
		}
		select {
		case p.Outbox <- msg:
		default:
			dropped = append(dropped, p.ID)
		}
	}
	for _, id := range dropped {
		l.log.Warn("dropping slow player", zap.Int64("player", int64(id)))
		l.removePlayer(id)
	}
}

func (l *Lobby) shutdown() {
	for _, p := range l.roster {
		close(p.Outbox)
	}
	l.roster = nil
	l.cancel()
}

func (l *Lobby) rosterIDs() []engine.PlayerID {
	ids := make([]engine.PlayerID, len(l.roster))
	for i, p := range l.roster {
		ids[i] = p.ID
	}
	return ids
}

func (l *Lobby) isMember(id engine.PlayerID) bool {
	for _, p := range l.roster {
		if p.ID == id {
			return true
		}
	}
	return false
}
