package room

import (
	"sync"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

// Registry is the connection-to-room index. It resolves which room a
// disconnecting or emitting connection belongs to; it is never a source of
// truth for room content. The invariant of at most one room per connection
// is enforced here.
type Registry struct {
	mu    sync.RWMutex
	rooms map[model.ConnID]model.RoomCode
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[model.ConnID]model.RoomCode)}
}

// Bind associates a connection with a room. Rebinding to the same room is a
// no-op; binding a connection that already belongs to a different room fails
// with ErrAlreadyInRoom.
func (g *Registry) Bind(conn model.ConnID, code model.RoomCode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.rooms[conn]; ok && existing != code {
		return model.ErrAlreadyInRoom
	}
	g.rooms[conn] = code
	return nil
}

// Lookup returns the room code the connection belongs to
func (g *Registry) Lookup(conn model.ConnID) (model.RoomCode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	code, ok := g.rooms[conn]
	return code, ok
}

// Unbind removes the connection's association; unknown connections are a
// no-op
func (g *Registry) Unbind(conn model.ConnID) {
	g.mu.Lock()
	delete(g.rooms, conn)
	g.mu.Unlock()
}
