package room

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound           = errors.New("room not found")
	ErrRoomFull           = errors.New("room message limit reached")
	ErrEmptyRoom          = errors.New("room has no messages")
	ErrAlreadySummarizing = errors.New("summary already in progress")
	ErrClosed             = errors.New("room is closed")
)

// Status tracks where a room is in its lifecycle.
type Status string

const (
	StatusActive      Status = "active"
	StatusSummarizing Status = "summarizing"
	StatusClosed      Status = "closed"
)

// Participant is a connected member of a room. ConnID comes from the
// transport layer; Name is whatever the client asked to be called and is
// not required to be unique.
type Participant struct {
	ConnID string `json:"-"`
	Name   string `json:"name"`
}

// Message is a single stored chat line. Immutable once appended.
type Message struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Summary is the transient result of a summarize operation. It is delivered
// to participants and never persisted; the room it describes is destroyed
// shortly after delivery.
type Summary struct {
	Overview            string   `json:"overview"`
	OverviewUnavailable bool     `json:"overviewUnavailable,omitempty"`
	KeyPoints           []string `json:"keyPoints"`
	ActionItems         []string `json:"actionItems"`
	MessageCount        int      `json:"messageCount"`
}

// Room is an ephemeral code-addressed chat session. All mutable fields are
// guarded by mu; rooms are independent units of concurrency, so no lock is
// ever held across more than one room.
type Room struct {
	Code      string
	CreatedAt time.Time

	mu           sync.Mutex
	status       Status
	participants []Participant
	messages     []Message
	lastActivity time.Time
}

// Status reports the room's lifecycle state.
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// LastActivity reports when the room was last touched by any operation.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// AddParticipant registers a member and refreshes activity.
func (r *Room) AddParticipant(p Participant, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = append(r.participants, p)
	r.lastActivity = now
}

// RemoveParticipant drops at most one participant with the given connection
// id, reporting the removed participant if there was one.
func (r *Room) RemoveParticipant(connID string, now time.Time) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.participants {
		if p.ConnID == connID {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			r.lastActivity = now
			return p, true
		}
	}
	return Participant{}, false
}

// Participants returns a snapshot of the current members.
func (r *Room) Participants() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Participant(nil), r.participants...)
}

// AppendMessage stores msg unless the room is not accepting messages or the
// transcript is already at maxMessages.
func (r *Room) AppendMessage(msg Message, maxMessages int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.status {
	case StatusSummarizing:
		return ErrAlreadySummarizing
	case StatusClosed:
		return ErrClosed
	}
	if len(r.messages) >= maxMessages {
		return ErrRoomFull
	}
	r.messages = append(r.messages, msg)
	r.lastActivity = now
	return nil
}

// Messages returns a snapshot of the transcript in chronological order.
func (r *Room) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// MessageCount reports the stored message count.
func (r *Room) MessageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// BeginSummary transitions Active -> Summarizing and returns a transcript
// snapshot for the gateway. Exactly one concurrent caller can win the
// transition; the rest observe ErrAlreadySummarizing.
func (r *Room) BeginSummary(now time.Time) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.status {
	case StatusSummarizing:
		return nil, ErrAlreadySummarizing
	case StatusClosed:
		return nil, ErrClosed
	}
	if len(r.messages) == 0 {
		return nil, ErrEmptyRoom
	}
	r.status = StatusSummarizing
	r.lastActivity = now
	return append([]Message(nil), r.messages...), nil
}

// AbortSummary reverts Summarizing -> Active after a gateway failure so
// participants may try again.
func (r *Room) AbortSummary() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusSummarizing {
		r.status = StatusActive
	}
}

// Close marks the room terminal. The store entry is removed separately.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusClosed
}
