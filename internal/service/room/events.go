package room

// Event types fanned out to room participants.
const (
	EventParticipantJoined = "participant_joined"
	EventParticipantLeft   = "participant_left"
	EventMessage           = "message"
	EventSummaryGenerating = "summary_generating"
	EventSummaryGenerated  = "summary_generated"
	EventRoomClosed        = "room_closed"
	EventError             = "error"
)

// Event is the envelope delivered to connected participants.
type Event struct {
	Type      string `json:"type"`
	RoomCode  string `json:"roomCode,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// EventSink is the transport capability the coordinator publishes through.
// Broadcast reaches every participant of a room, best effort; Send reaches a
// single connection, used for per-requester errors that must never be
// broadcast.
type EventSink interface {
	Broadcast(roomCode string, event Event)
	Send(roomCode, connID string, event Event)
}
