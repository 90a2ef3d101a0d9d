package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wavelength-party/backend/internal/hub"
	"github.com/wavelength-party/backend/internal/lobby"
	"github.com/wavelength-party/backend/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and runs the dispatch loop for its
// lifetime. Each connection owns at most one player in at most one session;
// malformed or unauthorized frames are logged and dropped with no reply, and
// disconnecting for any reason removes the player from its session.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		log := log.Named("ws").With(zap.String("conn", uuid.NewString()))

		outbox := make(chan types.ServerMessage, 8)
		var self *lobby.Player
		var session *lobby.Lobby
		defer func() {
			if session != nil {
				session.Inbox() <- lobby.Leave{PlayerID: self.ID}
			}
		}()

		// Writer: drains the outbox until the session closes it (player
		// removed or session shut down) or the connection dies.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range outbox {
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("marshal sync", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader: the game has no turn timers, so reads wait as long as the
		// connection lives.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("connection closed", zap.Error(err))
				}
				return
			}

			msg, err := decode(data)
			if err != nil {
				log.Warn("dropping frame", zap.Error(err), zap.ByteString("frame", data))
				continue
			}

			switch msg.Type {
			case types.MsgCreateRoom, types.MsgJoinRoom:
				if session != nil {
					log.Warn("connection already owns a player", zap.String("type", msg.Type))
					continue
				}

				var lb *lobby.Lobby
				reply := make(chan *lobby.Lobby, 1)
				if msg.Type == types.MsgCreateRoom {
					h.Inbox() <- hub.CreateSession{Reply: reply}
					lb = <-reply
				} else {
					h.Inbox() <- hub.GetSession{Code: msg.Code, Reply: reply}
					lb = <-reply
					if lb == nil {
						log.Warn("join for unknown session", zap.String("code", msg.Code))
						continue
					}
				}

				self = lobby.NewPlayer(msg.Nickname, outbox)
				session = lb
				lb.Inbox() <- lobby.Join{Player: self}

			default:
				if session == nil {
					log.Warn("game message from connection with no session", zap.String("type", msg.Type))
					continue
				}
				cmd, ok := toCommand(msg)
				if !ok {
					log.Warn("unroutable message", zap.String("type", msg.Type))
					continue
				}
				session.Inbox() <- lobby.FromClient{Actor: self.ID, Cmd: cmd}
			}
		}
	}
}
