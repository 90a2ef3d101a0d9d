package hub

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/wavelength-party/backend/internal/lobby"
)

// Room codes are typed by hand between phones, so the alphabet skips the
// characters people confuse: I/1/L and O/0.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
const codeLength = 5

type HubMsg interface{ isHubMsg() }

// CreateSession allocates a fresh code and starts an empty session under it.
type CreateSession struct {
	Reply chan *lobby.Lobby
}

// GetSession looks up a session by code; the reply is nil when the code is
// unknown.
type GetSession struct {
	Code  string
	Reply chan *lobby.Lobby
}

// RemoveSession frees a code. Sent by the session itself once its roster
// empties.
type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the session registry: one actor owning the code -> session map, so
// code allocation and lookup are serialized without locks. Construct one per
// server (or per test); there is no package-level instance.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*lobby.Lobby
	rng      *rand.Rand
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewHub starts the registry. rng drives code generation and seeds each
// session's own source, so a seeded rng makes the whole tree deterministic.
func NewHub(parent context.Context, rng *rand.Rand, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*lobby.Lobby),
		rng:      rng,
		log:      log.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				code := h.generateCode()
				sessionRng := rand.New(rand.NewSource(h.rng.Int63()))
				lb := lobby.NewLobby(h.ctx, code, sessionRng, h.log, h.release)
				h.sessions[code] = lb
				h.log.Info("session created", zap.String("session", code))
				msg.Reply <- lb

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				if _, ok := h.sessions[msg.Code]; ok {
					delete(h.sessions, msg.Code)
					h.log.Info("session removed", zap.String("session", msg.Code))
				}

			case ShutdownHub:
				for _, lb := range h.sessions {
					lb.Inbox() <- lobby.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}

// release frees a session's code once its roster empties. It is called from
// the session's own goroutine, so it must not block once the hub loop has
// stopped draining the inbox on shutdown.
func (h *Hub) release(code string) {
	select {
	case h.inbox <- RemoveSession{Code: code}:
	case <-h.ctx.Done():
	}
}

// generateCode draws codes until one is unused. Codes stay reserved until the
// session's roster empties, so collisions are rare at any plausible room
// count.
func (h *Hub) generateCode() string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeAlphabet[h.rng.Intn(len(codeAlphabet))]
		}
		if _, taken := h.sessions[string(code)]; !taken {
			return string(code)
		}
	}
}
