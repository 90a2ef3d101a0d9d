package hub

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wavelength-party/backend/internal/lobby"
	"github.com/wavelength-party/backend/pkg/types"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, rand.New(rand.NewSource(1)), zap.NewNop())
}

func create(t *testing.T, h *Hub) *lobby.Lobby {
	t.Helper()
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- CreateSession{Reply: reply}
	select {
	case lb := <-reply:
		require.NotNil(t, lb)
		return lb
	case <-time.After(time.Second):
		t.Fatalf("timed out creating session")
		return nil // unreachable
	}
}

func get(t *testing.T, h *Hub, code string) *lobby.Lobby {
	t.Helper()
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- GetSession{Code: code, Reply: reply}
	select {
	case lb := <-reply:
		return lb
	case <-time.After(time.Second):
		t.Fatalf("timed out looking up session")
		return nil // unreachable
	}
}

func TestHub_CreateThenGet_SamePointer(t *testing.T) {
	h := newTestHub(t)

	lb := create(t, h)
	assert.Len(t, lb.Code(), codeLength)
	for _, c := range lb.Code() {
		assert.Contains(t, codeAlphabet, string(c))
	}

	assert.Same(t, lb, get(t, h, lb.Code()))
}

func TestHub_GetUnknownCode_Nil(t *testing.T) {
	h := newTestHub(t)
	assert.Nil(t, get(t, h, "NOPE2"))
}

func TestHub_CodesAreUnique(t *testing.T) {
	h := newTestHub(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := create(t, h).Code()
		assert.False(t, seen[code], "code %s issued twice", code)
		seen[code] = true
	}
}

func TestHub_RemoveSessionFreesCode(t *testing.T) {
	h := newTestHub(t)
	lb := create(t, h)

	h.Inbox() <- RemoveSession{Code: lb.Code()}
	assert.Nil(t, get(t, h, lb.Code()))
}

// The last player leaving a session must free its code without any explicit
// registry call.
func TestHub_EmptySessionIsRemoved(t *testing.T) {
	h := newTestHub(t)
	lb := create(t, h)
	code := lb.Code()

	outbox := make(chan types.ServerMessage, 8)
	p := lobby.NewPlayer("ana", outbox)
	lb.Inbox() <- lobby.Join{Player: p}
	lb.Inbox() <- lobby.Leave{PlayerID: p.ID}

	require.Eventually(t, func() bool {
		return get(t, h, code) == nil
	}, time.Second, 10*time.Millisecond)
}

// A session emptying during process shutdown must not wedge its goroutine on
// a hub that no longer drains its inbox.
func TestHub_ReleaseReturnsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// no loop goroutine and an unbuffered inbox: nothing will ever receive
	h := &Hub{inbox: make(chan HubMsg), ctx: ctx}

	done := make(chan struct{})
	go func() {
		h.release("GONE2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("release blocked on a stopped hub")
	}
}

func TestHub_GenerateCodeRetriesOnCollision(t *testing.T) {
	// No loop goroutine here: generateCode is exercised directly.
	h := &Hub{sessions: map[string]*lobby.Lobby{}, rng: rand.New(rand.NewSource(2))}

	first := h.generateCode()
	h.sessions[first] = nil // occupy the code

	h.rng = rand.New(rand.NewSource(2)) // replay the exact same draws
	second := h.generateCode()
	assert.NotEqual(t, first, second)
}
