package audit

import "testing"

func TestLogger_Disabled(t *testing.T) {
	l := NewLogger(false, nil)
	l.Log(Event{SessionID: "s1", User: "alice"})
	if got := l.Recent(10); got != nil {
		t.Errorf("Recent() = %v, want nil when disabled", got)
	}
}

func TestLogger_RecentOrder(t *testing.T) {
	l := NewLogger(true, nil)
	l.Log(Event{SessionID: "s1"})
	l.Log(Event{SessionID: "s2"})
	l.Log(Event{SessionID: "s3"})

	recent := l.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("len(Recent(2)) = %d, want 2", len(recent))
	}
	if recent[0].SessionID != "s3" {
		t.Errorf("Recent(2)[0].SessionID = %q, want \"s3\" (newest first)", recent[0].SessionID)
	}
	if recent[1].SessionID != "s2" {
		t.Errorf("Recent(2)[1].SessionID = %q, want \"s2\"", recent[1].SessionID)
	}
}

func TestLogger_RecentCapAtLength(t *testing.T) {
	l := NewLogger(true, nil)
	l.Log(Event{SessionID: "only"})

	recent := l.Recent(50)
	if len(recent) != 1 {
		t.Fatalf("len(Recent(50)) = %d, want 1", len(recent))
	}
}
