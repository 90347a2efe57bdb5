package storage

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

func clockParam(c model.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c.Duration() / time.Microsecond), Valid: true}
}

func clockValue(t pgtype.Time) model.ClockTime {
	return model.ClockTime(time.Duration(t.Microseconds) * time.Microsecond)
}

func int16Ptr(d *int) *int16 {
	if d == nil {
		return nil
	}
	v := int16(*d)
	return &v
}

func intPtr(d *int16) *int {
	if d == nil {
		return nil
	}
	v := int(*d)
	return &v
}
