package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument()

	if !d.IsEmpty() {
		t.Error("new document should be empty")
	}
	if d.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", d.LineCount())
	}
	if d.State(0) != NoState {
		t.Errorf("expected NoState, got %d", d.State(0))
	}
}

func TestNewDocumentFromStringNormalizes(t *testing.T) {
	d := NewDocumentFromString("a\r\nb\rc")

	if d.Text() != "a\nb\nc" {
		t.Errorf("expected normalized text, got %q", d.Text())
	}
	if d.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", d.LineCount())
	}
}

func TestNewDocumentFromReaderDetectsLineEnding(t *testing.T) {
	d, err := NewDocumentFromReader(strings.NewReader("x\r\ny\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF, got %s", d.LineEnding())
	}
	if d.TextWithLineEnding() != "x\r\ny\r\n" {
		t.Errorf("unexpected round trip %q", d.TextWithLineEnding())
	}
}

func TestOffsetPointConversion(t *testing.T) {
	d := NewDocumentFromString("abc\nde\n\nfgh")

	tests := []struct {
		offset ByteOffset
		point  Point
	}{
		{0, Point{0, 0}},
		{3, Point{0, 3}},
		{4, Point{1, 0}},
		{6, Point{1, 2}},
		{7, Point{2, 0}},
		{8, Point{3, 0}},
		{11, Point{3, 3}},
		{99, Point{3, 3}},
	}

	for _, tt := range tests {
		if got := d.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
	}

	if got := d.PointToOffset(Point{Line: 1, Column: 10}); got != 6 {
		t.Errorf("column past line end should clamp, got %d", got)
	}
	if got := d.LineStart(3); got != 8 {
		t.Errorf("LineStart(3) = %d, want 8", got)
	}
	if got := d.LineEnd(0); got != 3 {
		t.Errorf("LineEnd(0) = %d, want 3", got)
	}
}

func TestInsertAndDelete(t *testing.T) {
	d := NewDocumentFromString("hello world")

	end, err := d.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if end != 6 {
		t.Errorf("expected end 6, got %d", end)
	}
	if d.Text() != "hello, world" {
		t.Errorf("unexpected text %q", d.Text())
	}

	if err := d.Delete(0, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if d.Text() != "world" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

func TestInsertMultilineSplitsLines(t *testing.T) {
	d := NewDocumentFromString("ab")
	firstID := d.LineID(0)

	if _, err := d.Insert(1, "x\ny\nz"); err != nil {
		t.Fatal(err)
	}

	want := []string{"ax", "y", "zb"}
	got := d.Lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if d.LineID(0) != firstID {
		t.Error("first touched line should keep its identity")
	}
	if d.State(1) != NoState || d.State(2) != NoState {
		t.Error("new lines should start with NoState")
	}
}

func TestLineIdentityStableAcrossUnrelatedEdits(t *testing.T) {
	d := NewDocumentFromString("one\ntwo\nthree")
	b := d.Block(2)

	if _, err := d.Insert(0, "zero\n"); err != nil {
		t.Fatal(err)
	}

	if !b.IsValid() {
		t.Fatal("block should survive edits above it")
	}
	if b.Number() != 3 {
		t.Errorf("expected line 3, got %d", b.Number())
	}
	if b.Text() != "three" {
		t.Errorf("expected %q, got %q", "three", b.Text())
	}
	if b.Position() != d.LineStart(3) {
		t.Errorf("position mismatch: %d vs %d", b.Position(), d.LineStart(3))
	}

	if err := d.Delete(d.LineEnd(2), d.LineEnd(3)); err != nil {
		t.Fatal(err)
	}
	if b.IsValid() {
		t.Error("block should be gone after its line was joined away")
	}
}

func TestIDsNeverReused(t *testing.T) {
	d := NewDocumentFromString("a\nb")
	old := d.LineID(1)
	if err := d.Delete(1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Insert(1, "\nb"); err != nil {
		t.Fatal(err)
	}
	if d.LineID(1) == old {
		t.Error("line id was reused")
	}
}

func TestApplyEditErrors(t *testing.T) {
	d := NewDocumentFromString("abc")

	if _, err := d.ApplyEdit(Edit{Range: Range{Start: 2, End: 1}}); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if _, err := d.Insert(10, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestChangeNotification(t *testing.T) {
	d := NewDocumentFromString("a\nb\nc")

	var got []Change
	unsubscribe := d.OnChange(func(c Change) {
		got = append(got, c)
	})

	if _, err := d.Replace(2, 3, "x\ny"); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	c := got[0]
	if c.Offset != 2 || c.OldText != "b" || c.NewText != "x\ny" {
		t.Errorf("unexpected change %+v", c)
	}
	if c.StartLine != 1 || c.OldEndLine != 1 || c.NewEndLine != 2 {
		t.Errorf("unexpected line range %+v", c)
	}
	if c.LinesDelta() != 1 {
		t.Errorf("expected one added line, got %d", c.LinesDelta())
	}
	if c.Revision != d.Revision() {
		t.Errorf("revision mismatch")
	}

	unsubscribe()
	if _, err := d.Insert(0, "z"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Error("listener should not fire after unsubscribe")
	}
}

func TestNoOpEditDoesNotNotify(t *testing.T) {
	d := NewDocumentFromString("a")
	fired := false
	d.OnChange(func(Change) { fired = true })

	if _, err := d.Insert(0, ""); err != nil {
		t.Fatal(err)
	}
	if fired {
		t.Error("no-op edit should not notify")
	}
}

func TestChangeInverse(t *testing.T) {
	d := NewDocumentFromString("hello world")
	c, err := d.ApplyEdit(Edit{Range: Range{Start: 0, End: 5}, NewText: "goodbye"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.ApplyEdit(c.Inverse()); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "hello world" {
		t.Errorf("inverse did not restore text: %q", d.Text())
	}
}

func TestStateSpansVisibility(t *testing.T) {
	d := NewDocumentFromString("x\ny")

	if prev := d.SetState(1, 3); prev != NoState {
		t.Errorf("expected previous NoState, got %d", prev)
	}
	if d.State(1) != 3 {
		t.Errorf("expected state 3, got %d", d.State(1))
	}

	d.SetSpans(0, []Span{{Start: 0, Length: 1, Style: "keyword"}})
	spans := d.Spans(0)
	if len(spans) != 1 || spans[0].Style != "keyword" || spans[0].End() != 1 {
		t.Errorf("unexpected spans %+v", spans)
	}

	d.Block(1).SetVisible(false)
	if d.IsVisible(1) {
		t.Error("line should be hidden")
	}
}

func TestRuneAccess(t *testing.T) {
	d := NewDocumentFromString("é\nb")

	r, size := d.RuneAt(0)
	if r != 'é' || size != 2 {
		t.Errorf("RuneAt(0) = %q,%d", r, size)
	}
	r, size = d.RuneAt(2)
	if r != '\n' || size != 1 {
		t.Errorf("RuneAt(2) = %q,%d", r, size)
	}
	r, size = d.RuneBefore(2)
	if r != 'é' || size != 2 {
		t.Errorf("RuneBefore(2) = %q,%d", r, size)
	}
	if b, ok := d.ByteAt(3); !ok || b != 'b' {
		t.Errorf("ByteAt(3) = %q,%v", b, ok)
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
