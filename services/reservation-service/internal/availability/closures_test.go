package availability

import (
	"testing"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

func closure(court model.CourtScope, w Window) model.Closure {
	return model.Closure{Court: court, StartTime: w.Start(), EndTime: w.End(), Reason: "maintenance"}
}

func assertWindows(t *testing.T, got, want []Window) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("window %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func assertDisjointAscending(t *testing.T, ws []Window) {
	t.Helper()
	for i := 1; i < len(ws); i++ {
		if ws[i].Start().Before(ws[i-1].End()) {
			t.Fatalf("windows %v and %v overlap or are out of order", ws[i-1], ws[i])
		}
	}
}

func TestSubtractClosures_CourtAndGlobal(t *testing.T) {
	closures := []model.Closure{
		closure(model.ForCourt(1), win(12, 0, 14, 0)),
		closure(model.AnyCourt(), win(20, 0, 21, 0)),
		closure(model.ForCourt(2), win(15, 0, 16, 0)),
	}
	got := SubtractClosures([]Window{win(8, 0, 23, 0)}, closures, 1)
	assertWindows(t, got, []Window{win(8, 0, 12, 0), win(14, 0, 20, 0), win(21, 0, 23, 0)})
}

func TestSubtractClosures_WholeDayClosed(t *testing.T) {
	closures := []model.Closure{closure(model.AnyCourt(), win(0, 0, 23, 59))}
	if got := SubtractClosures([]Window{win(8, 0, 23, 0)}, closures, 1); len(got) != 0 {
		t.Fatalf("expected no free windows, got %v", got)
	}
}

func TestSubtractClosures_ClosureOverhangsWindow(t *testing.T) {
	closures := []model.Closure{
		closure(model.AnyCourt(), MustWindow(day.Add(-2*time.Hour), at(9, 0))),
		closure(model.AnyCourt(), MustWindow(at(22, 0), day.AddDate(0, 0, 1))),
	}
	got := SubtractClosures([]Window{win(8, 0, 23, 0)}, closures, 1)
	assertWindows(t, got, []Window{win(9, 0, 22, 0)})
}

func TestSubtractClosures_MergesOverlappingOperatingWindows(t *testing.T) {
	got := SubtractClosures([]Window{win(8, 0, 12, 0), win(10, 0, 14, 0), win(16, 0, 18, 0)}, nil, 1)
	assertWindows(t, got, []Window{win(8, 0, 14, 0), win(16, 0, 18, 0)})
}

func TestSubtractClosures_OrderIndependent(t *testing.T) {
	operating := []Window{win(8, 0, 23, 0)}
	blocks := []Window{
		win(10, 0, 11, 0),
		win(10, 30, 12, 0),
		win(12, 0, 13, 0),
		win(9, 0, 9, 30),
		win(16, 0, 17, 0),
	}
	want := []Window{win(8, 0, 9, 0), win(9, 30, 10, 0), win(13, 0, 16, 0), win(17, 0, 23, 0)}
	// 15h operating minus 30m + 3h + 1h closed.
	wantFree := 15*time.Hour - 30*time.Minute - 3*time.Hour - time.Hour

	permutations(blocks, func(perm []Window) {
		closures := make([]model.Closure, len(perm))
		for i, b := range perm {
			closures[i] = closure(model.ForCourt(1), b)
		}
		got := SubtractClosures(operating, closures, 1)
		assertDisjointAscending(t, got)
		assertWindows(t, got, want)
		if TotalDuration(got) != wantFree {
			t.Fatalf("free time %s, want %s", TotalDuration(got), wantFree)
		}
	})
}

func TestSubtractClosures_NoWindows(t *testing.T) {
	if got := SubtractClosures(nil, []model.Closure{closure(model.AnyCourt(), win(8, 0, 9, 0))}, 1); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func permutations(ws []Window, fn func([]Window)) {
	var rec func(k int)
	rec = func(k int) {
		if k == len(ws) {
			fn(append([]Window(nil), ws...))
			return
		}
		for i := k; i < len(ws); i++ {
			ws[k], ws[i] = ws[i], ws[k]
			rec(k + 1)
			ws[k], ws[i] = ws[i], ws[k]
		}
	}
	rec(0)
}
