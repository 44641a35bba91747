package trace

import "testing"

func TestNilRecorderIsANoOp(t *testing.T) {
	var r *Recorder
	r.Record(BNPDegenerate, "junction %d degenerate", 3)
	if r != nil {
		t.Fatalf("nil recorder should stay nil")
	}
}

func TestRecordAppendsFormattedEvent(t *testing.T) {
	r := New()
	r.Record(BridgeMismatch, "arc (%d,%d): mismatch", 1, 2)
	if len(r.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(r.Events))
	}
	ev := r.Events[0]
	if ev.Kind != BridgeMismatch {
		t.Errorf("event kind = %v, want BridgeMismatch", ev.Kind)
	}
	want := "arc (1,2): mismatch"
	if ev.Message != want {
		t.Errorf("event message = %q, want %q", ev.Message, want)
	}
}

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		BNPDegenerate:  "bnp-degenerate",
		BridgeMismatch: "bridge-mismatch",
		PoleConflict:   "pole-conflict",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestEventStringIncludesKindAndMessage(t *testing.T) {
	ev := Event{Kind: PoleConflict, Message: "boom"}
	want := "pole-conflict: boom"
	if got := ev.String(); got != want {
		t.Fatalf("Event.String() = %q, want %q", got, want)
	}
}
