package chatlog

import (
	"testing"
	"time"
)

func TestMinuteKey(t *testing.T) {
	m := Message{Timestamp: date(2025, time.November, 9, 9, 5)}
	if got, want := m.MinuteKey(), "2025-11-09T09:05"; got != want {
		t.Errorf("MinuteKey() = %q, want %q", got, want)
	}
}

func TestDedupKey_SenderExcluded(t *testing.T) {
	ts := date(2025, time.November, 9, 9, 25)
	a := Message{Timestamp: ts, Sender: "민수", Body: "안녕"}
	b := Message{Timestamp: ts, Sender: "Minsu", Body: "안녕"}

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("dedup keys differ across sender rename: %s vs %s", a.DedupKey(), b.DedupKey())
	}
}

func TestDedupKey_BodyNormalized(t *testing.T) {
	ts := date(2025, time.November, 9, 9, 25)
	a := Message{Timestamp: ts, Sender: "민수", Body: "안녕  \n뭐해"}
	b := Message{Timestamp: ts, Sender: "민수", Body: "안녕\r\n뭐해"}

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("dedup keys differ across whitespace variants: %s vs %s", a.DedupKey(), b.DedupKey())
	}
}

func TestDedupKey_DistinguishesMinuteAndBody(t *testing.T) {
	base := Message{Timestamp: date(2025, time.November, 9, 9, 25), Sender: "민수", Body: "안녕"}

	laterMinute := base
	laterMinute.Timestamp = base.Timestamp.Add(time.Minute)
	if base.DedupKey() == laterMinute.DedupKey() {
		t.Error("messages one minute apart share a dedup key")
	}

	otherBody := base
	otherBody.Body = "안녕?"
	if base.DedupKey() == otherBody.DedupKey() {
		t.Error("messages with different bodies share a dedup key")
	}
}

func TestDedupKey_Stable(t *testing.T) {
	m := Message{Timestamp: date(2025, time.November, 9, 9, 25), Sender: "민수", Body: "안녕"}
	if len(m.DedupKey()) != 64 {
		t.Errorf("DedupKey() length = %d, want 64 hex chars", len(m.DedupKey()))
	}
	if m.DedupKey() != m.DedupKey() {
		t.Error("DedupKey() is not deterministic")
	}
}
