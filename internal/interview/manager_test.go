package interview

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestManagerAddGetRemove(t *testing.T) {
	m := NewManager(time.Second, nil)
	s := testSession(3)

	m.Add(s)
	if got, ok := m.Get(s.ID()); !ok || got != s {
		t.Fatal("Get did not return the registered session")
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}

	m.Remove(s.ID())
	if _, ok := m.Get(s.ID()); ok {
		t.Error("session still present after Remove")
	}
}

func TestManagerTickAllDispatchesExpiry(t *testing.T) {
	var events []TickEvent
	m := NewManager(time.Second, func(_ *Session, ev TickEvent) {
		events = append(events, ev)
	})

	s := testSession(2)
	s.LoadQuestions([]QuestionSpec{
		{Text: "q1", TimeLimitSeconds: 1},
		{Text: "q2", TimeLimitSeconds: 600},
	})
	m.Add(s)

	m.TickAll()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].TimerID != TimerQuestion || events[0].SessionID != s.ID() {
		t.Errorf("event = %+v", events[0])
	}
}

func TestManagerTickAllSkipsUnknownSessions(t *testing.T) {
	m := NewManager(time.Second, func(_ *Session, _ TickEvent) {
		t.Error("callback fired with no sessions registered")
	})
	m.TickAll()

	if _, ok := m.Get(uuid.New()); ok {
		t.Error("Get returned a session for a random id")
	}
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(10*time.Millisecond, nil)
	m.Start()
	time.Sleep(30 * time.Millisecond)
	m.Stop()
	// Stop must be safe to call again.
	m.Stop()
}
