package availability

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var day = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC) // Friday

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func win(h1, m1, h2, m2 int) Window {
	return MustWindow(at(h1, m1), at(h2, m2))
}

func TestNewWindowRejectsEmptyAndReversed(t *testing.T) {
	if _, err := NewWindow(at(10, 0), at(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for empty window, got %v", err)
	}
	if _, err := NewWindow(at(11, 0), at(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for reversed window, got %v", err)
	}
	w, err := NewWindow(at(10, 0), at(11, 0))
	if err != nil || w.Duration() != time.Hour {
		t.Fatalf("unexpected window %v err=%v", w, err)
	}
}

func TestMustWindowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustWindow(at(12, 0), at(9, 0))
}

func TestWindowRelations(t *testing.T) {
	w := win(8, 0, 12, 0)
	if !w.Overlaps(win(11, 0, 13, 0)) || w.Overlaps(win(12, 0, 13, 0)) {
		t.Fatal("half-open overlap broken")
	}
	if !w.Contains(win(8, 0, 9, 0)) || w.Contains(win(11, 30, 12, 30)) {
		t.Fatal("contains broken")
	}
	c, ok := w.Clip(at(10, 0), at(20, 0))
	if !ok || !c.Equal(win(10, 0, 12, 0)) {
		t.Fatalf("unexpected clip %v", c)
	}
	if _, ok := w.Clip(at(12, 0), at(13, 0)); ok {
		t.Fatal("clip outside the window must be empty")
	}
	if !WithinAny(win(9, 0, 10, 0), []Window{win(13, 0, 14, 0), w}) {
		t.Fatal("expected containment")
	}
	if OverlapsAny(win(12, 0, 13, 0), []Window{w}) {
		t.Fatal("touching windows do not overlap")
	}
}

func TestWindowJSON(t *testing.T) {
	b, err := json.Marshal(win(8, 0, 9, 30))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"start_time":"2025-01-10T08:00:00","end_time":"2025-01-10T09:30:00"}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestDaySpan(t *testing.T) {
	span := DaySpan(at(15, 20))
	if !span.Start().Equal(day) || span.Duration() != 24*time.Hour {
		t.Fatalf("unexpected span %v", span)
	}
}

func TestSortByStart(t *testing.T) {
	ws := []Window{win(14, 0, 15, 0), win(9, 0, 12, 0), win(9, 0, 10, 0), win(8, 0, 8, 30)}
	sortByStart(ws)

	want := []Window{win(8, 0, 8, 30), win(9, 0, 10, 0), win(9, 0, 12, 0), win(14, 0, 15, 0)}
	for i := range want {
		if !ws[i].Equal(want[i]) {
			t.Fatalf("ws[%d] = %v, want %v", i, ws[i], want[i])
		}
	}
}
