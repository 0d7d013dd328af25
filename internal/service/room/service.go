package room

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/luokai/emberroom/backend/internal/clock"
	"github.com/luokai/emberroom/backend/internal/model/room"
)

// Summarizer turns a transcript into a Summary via the external
// summarization collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, messages []room.Message) (room.Summary, error)
}

// Config carries the per-room operational limits.
type Config struct {
	MaxMessages     int
	MaxMessageChars int
	CloseGraceDelay time.Duration
}

// Service coordinates join/leave/send/summarize operations against the room
// store, drives the Active -> Summarizing -> Closed lifecycle, and publishes
// room events through the sink.
type Service struct {
	store      *room.Store
	sink       EventSink
	summarizer Summarizer
	cfg        Config
	clock      clock.Clock
}

// New wires a coordinator. The sink and summarizer are capabilities owned by
// the transport and AI layers respectively.
func New(store *room.Store, sink EventSink, summarizer Summarizer, cfg Config, clk clock.Clock) *Service {
	return &Service{
		store:      store,
		sink:       sink,
		summarizer: summarizer,
		cfg:        cfg,
		clock:      clk,
	}
}

// Join adds a participant to the room and announces the arrival.
func (s *Service) Join(code, name, connID string) error {
	rm, ok := s.store.Get(code)
	if !ok {
		return room.ErrNotFound
	}

	rm.AddParticipant(room.Participant{ConnID: connID, Name: name}, s.clock.Now())
	s.sink.Broadcast(code, s.event(EventParticipantJoined, code, map[string]any{
		"name": name,
	}))
	return nil
}

// Leave removes the matching participant and announces the departure. No-op
// if the room was already reaped before the disconnect was processed.
func (s *Service) Leave(code, connID string) {
	rm, ok := s.store.Get(code)
	if !ok {
		return
	}

	p, removed := rm.RemoveParticipant(connID, s.clock.Now())
	if !removed {
		return
	}
	s.sink.Broadcast(code, s.event(EventParticipantLeft, code, map[string]any{
		"name": p.Name,
	}))
}

// SendMessage validates, trims, stores, and broadcasts a message.
func (s *Service) SendMessage(code, name, raw string) error {
	rm, ok := s.store.Get(code)
	if !ok {
		return room.ErrNotFound
	}

	if err := validateMessage(raw, s.cfg.MaxMessageChars); err != nil {
		return err
	}

	now := s.clock.Now()
	msg := room.Message{
		Author: name,
		Text:   strings.TrimSpace(raw),
		SentAt: now,
	}
	if err := rm.AppendMessage(msg, s.cfg.MaxMessages, now); err != nil {
		return err
	}

	s.sink.Broadcast(code, s.event(EventMessage, code, msg))
	return nil
}

// RequestSummary moves the room to Summarizing and kicks off the gateway
// call. Synchronous failures (missing room, empty transcript, a summary
// already in flight) are returned to the caller; the asynchronous outcome
// arrives through the sink.
func (s *Service) RequestSummary(ctx context.Context, code, connID string) error {
	rm, ok := s.store.Get(code)
	if !ok {
		return room.ErrNotFound
	}

	messages, err := rm.BeginSummary(s.clock.Now())
	if err != nil {
		return err
	}

	s.sink.Broadcast(code, s.event(EventSummaryGenerating, code, map[string]any{
		"messageCount": len(messages),
	}))

	// The summary must outlive the requesting connection; the other
	// participant still wants it if the requester drops.
	go s.generateSummary(context.WithoutCancel(ctx), rm, messages, connID)
	return nil
}

func (s *Service) generateSummary(ctx context.Context, rm *room.Room, messages []room.Message, connID string) {
	summary, err := s.summarizer.Summarize(ctx, messages)
	if err != nil {
		log.Printf("[room] summary failed for room=%s: %v", rm.Code, err)
		rm.AbortSummary()
		s.sink.Send(rm.Code, connID, s.event(EventError, rm.Code, map[string]any{
			"message": "summary generation failed, please try again",
		}))
		return
	}

	// Schedule the teardown before announcing the summary so the close
	// cannot be lost between the broadcast and the timer registration.
	s.clock.AfterFunc(s.cfg.CloseGraceDelay, func() {
		s.closeRoom(rm)
	})

	s.sink.Broadcast(rm.Code, s.event(EventSummaryGenerated, rm.Code, map[string]any{
		"summary": summary,
	}))
}

// closeRoom destroys the room after the grace delay. If the reaper got there
// first the removal is a no-op and nothing is announced.
func (s *Service) closeRoom(rm *room.Room) {
	if !s.store.Exists(rm.Code) {
		return
	}
	rm.Close()
	s.store.Remove(rm.Code)
	s.sink.Broadcast(rm.Code, s.event(EventRoomClosed, rm.Code, nil))
	log.Printf("[room] room=%s closed after summary delivery", rm.Code)
}

func (s *Service) event(eventType, code string, data any) Event {
	return Event{
		Type:      eventType,
		RoomCode:  code,
		Data:      data,
		Timestamp: s.clock.Now().Unix(),
	}
}
