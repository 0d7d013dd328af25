package room

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/luokai/emberroom/backend/internal/clock"
)

// Room codes avoid 0/O/1/I so they survive being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// Store is the in-memory table of live rooms. It exclusively owns every
// Room; callers borrow references for the duration of a single operation.
type Store struct {
	clock clock.Clock

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewStore returns an empty store using clk for timestamps.
func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock: clk,
		rooms: make(map[string]*Room),
	}
}

// Create inserts an empty Active room under a freshly generated code,
// retrying generation until the code is unused among live rooms.
func (s *Store) Create() *Room {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	code := newCode()
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = newCode()
	}

	rm := &Room{
		Code:         code,
		CreatedAt:    now,
		status:       StatusActive,
		lastActivity: now,
	}
	s.rooms[code] = rm
	return rm
}

// Get returns the live room for code, if any.
func (s *Store) Get(code string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rm, ok := s.rooms[code]
	return rm, ok
}

// Exists reports whether code addresses a live room.
func (s *Store) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok
}

// Remove deletes the room for code. No-op if the room is already gone.
func (s *Store) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// Rooms returns a snapshot of all live rooms, for the reaper's scan.
func (s *Store) Rooms() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		out = append(out, rm)
	}
	return out
}

// Len reports the number of live rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func newCode() string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
