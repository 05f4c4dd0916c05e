package dirty

import (
	"testing"

	"github.com/dshills/scriptedit/internal/renderer/core"
)

func TestTrackerMarkClipsToScreen(t *testing.T) {
	tr := NewTracker(80, 24)
	tr.Mark(core.Rect{X: -5, Y: 20, Width: 100, Height: 10}, ReasonCaret)

	got := tr.Regions()
	want := core.Rect{X: 0, Y: 20, Width: 80, Height: 4}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Regions = %+v, want [%+v]", got, want)
	}
}

func TestTrackerCoalescesTouchingRegions(t *testing.T) {
	tr := NewTracker(80, 24)
	tr.MarkRows(2, 1, ReasonCaret)
	tr.MarkRows(3, 1, ReasonCaret)
	tr.MarkRows(10, 2, ReasonText)

	got := tr.Regions()
	if len(got) != 2 {
		t.Fatalf("Regions = %+v, want 2 regions", got)
	}
	if got[0] != (core.Rect{X: 0, Y: 2, Width: 80, Height: 2}) {
		t.Errorf("merged region = %+v", got[0])
	}
	if b := tr.Bounds(); b != (core.Rect{X: 0, Y: 2, Width: 80, Height: 10}) {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestTrackerIgnoresEmpty(t *testing.T) {
	tr := NewTracker(10, 10)
	tr.Mark(core.Rect{X: 20, Y: 20, Width: 1, Height: 1}, ReasonCaret)
	if tr.IsDirty() {
		t.Error("off-screen mark made the tracker dirty")
	}
	if tr.Count(ReasonCaret) != 1 {
		t.Errorf("Count = %d", tr.Count(ReasonCaret))
	}
}

func TestTrackerFull(t *testing.T) {
	tr := NewTracker(10, 5)
	tr.MarkRows(1, 1, ReasonCaret)
	tr.SetScreenSize(20, 6)

	if !tr.IsFull() {
		t.Fatal("resize did not mark the full screen")
	}
	got := tr.Take()
	if len(got) != 1 || got[0] != (core.Rect{Width: 20, Height: 6}) {
		t.Errorf("Take = %+v", got)
	}
	if tr.IsDirty() {
		t.Error("Take did not clear")
	}
	if tr.Count(ReasonResize) != 1 {
		t.Errorf("resize count = %d", tr.Count(ReasonResize))
	}
}

func TestTrackerCapsRegions(t *testing.T) {
	tr := NewTracker(10, 100)
	for y := 0; y < 80; y += 4 {
		tr.Mark(core.Rect{X: 0, Y: y, Width: 1, Height: 1}, ReasonCaret)
	}
	if got := tr.Regions(); len(got) > 16 {
		t.Fatalf("len = %d, want at most 16", len(got))
	}
	if b := tr.Bounds(); b != (core.Rect{X: 0, Y: 0, Width: 1, Height: 77}) {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestReasonString(t *testing.T) {
	for r, want := range map[Reason]string{
		ReasonCaret: "caret", ReasonText: "text", ReasonStyle: "style",
		ReasonResize: "resize", ReasonScroll: "scroll", Reason(99): "unknown",
	} {
		if got := r.String(); got != want {
			t.Errorf("Reason(%d) = %q, want %q", r, got, want)
		}
	}
}
