package room

import (
	"errors"
	"testing"
	"time"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRoom() *Room {
	return &Room{Code: "TEST42", CreatedAt: testTime, status: StatusActive, lastActivity: testTime}
}

func TestAppendMessageCapacity(t *testing.T) {
	rm := newTestRoom()

	for i := 0; i < 3; i++ {
		msg := Message{Author: "Alice", Text: "hi", SentAt: testTime}
		if err := rm.AppendMessage(msg, 3, testTime); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	err := rm.AppendMessage(Message{Author: "Alice", Text: "one too many"}, 3, testTime)
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if rm.MessageCount() != 3 {
		t.Fatalf("expected 3 stored messages, got %d", rm.MessageCount())
	}
}

func TestBeginSummaryLifecycle(t *testing.T) {
	rm := newTestRoom()

	if _, err := rm.BeginSummary(testTime); !errors.Is(err, ErrEmptyRoom) {
		t.Fatalf("expected ErrEmptyRoom on empty transcript, got %v", err)
	}

	if err := rm.AppendMessage(Message{Author: "Alice", Text: "hi"}, 10, testTime); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	msgs, err := rm.BeginSummary(testTime)
	if err != nil {
		t.Fatalf("BeginSummary failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "hi" {
		t.Fatalf("unexpected transcript snapshot: %+v", msgs)
	}
	if rm.Status() != StatusSummarizing {
		t.Fatalf("expected summarizing status, got %s", rm.Status())
	}

	if _, err := rm.BeginSummary(testTime); !errors.Is(err, ErrAlreadySummarizing) {
		t.Fatalf("expected ErrAlreadySummarizing, got %v", err)
	}
	if err := rm.AppendMessage(Message{Author: "Bob", Text: "late"}, 10, testTime); !errors.Is(err, ErrAlreadySummarizing) {
		t.Fatalf("expected append rejection while summarizing, got %v", err)
	}

	rm.AbortSummary()
	if rm.Status() != StatusActive {
		t.Fatalf("expected active status after abort, got %s", rm.Status())
	}
	if _, err := rm.BeginSummary(testTime); err != nil {
		t.Fatalf("expected retry to be permitted, got %v", err)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	rm := newTestRoom()
	rm.Close()

	if err := rm.AppendMessage(Message{Author: "Alice", Text: "hi"}, 10, testTime); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := rm.BeginSummary(testTime); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRemoveParticipantMatchesAtMostOne(t *testing.T) {
	rm := newTestRoom()
	rm.AddParticipant(Participant{ConnID: "c1", Name: "Alice"}, testTime)
	rm.AddParticipant(Participant{ConnID: "c2", Name: "Alice"}, testTime)

	p, removed := rm.RemoveParticipant("c1", testTime)
	if !removed || p.ConnID != "c1" {
		t.Fatalf("expected c1 removed, got %+v removed=%v", p, removed)
	}
	if len(rm.Participants()) != 1 {
		t.Fatalf("expected one remaining participant")
	}

	if _, removed := rm.RemoveParticipant("c1", testTime); removed {
		t.Fatal("second removal should be a no-op")
	}
}
