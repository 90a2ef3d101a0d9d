package lobby

import (
	"sync/atomic"

	"github.com/wavelength-party/backend/internal/engine"
	"github.com/wavelength-party/backend/pkg/types"
)

// playerIDs is process-global so ids stay unique across sessions and
// registries for the process lifetime.
var playerIDs atomic.Int64

// Player binds one identity to one live connection. The session holds players
// by value of this pointer; the connection handler keeps the only reference
// back to the session, so removing a player never leaves a dangling link.
type Player struct {
	ID     engine.PlayerID
	Name   string
	Outbox chan types.ServerMessage
}

// NewPlayer allocates the next player id and binds it to the connection's
// outbox channel.
func NewPlayer(name string, outbox chan types.ServerMessage) *Player {
	return &Player{
		ID:     engine.PlayerID(playerIDs.Add(1)),
		Name:   name,
		Outbox: outbox,
	}
}
