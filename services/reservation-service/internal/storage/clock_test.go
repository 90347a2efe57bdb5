package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

func TestClockConversion(t *testing.T) {
	c := model.NewClock(22, 45) + model.ClockTime(30*time.Second)
	p := clockParam(c)
	if !p.Valid || p.Microseconds != int64((22*time.Hour+45*time.Minute+30*time.Second)/time.Microsecond) {
		t.Fatalf("unexpected param %+v", p)
	}
	if clockValue(p) != c {
		t.Fatalf("round trip mismatch: %v", clockValue(p))
	}
}

func TestTranslate(t *testing.T) {
	if !IsNotFound(translate(pgx.ErrNoRows)) {
		t.Fatal("expected not found")
	}
	if !IsConflict(translate(&pgconn.PgError{Code: "23P01"})) {
		t.Fatal("expected exclusion violation to be a conflict")
	}
	if !IsConflict(translate(&pgconn.PgError{Code: "23505"})) {
		t.Fatal("expected unique violation to be a conflict")
	}
	other := errors.New("boom")
	if translate(other) != other {
		t.Fatal("unknown errors pass through")
	}
}

func TestDayPtrConversion(t *testing.T) {
	d := 5
	if got := intPtr(int16Ptr(&d)); got == nil || *got != 5 {
		t.Fatalf("unexpected %v", got)
	}
	if int16Ptr(nil) != nil || intPtr(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
