package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

const invalidWindow = "Invalid time window"

// courtRef checks an optional court reference; nil means every court.
func (a *API) courtRef(w http.ResponseWriter, r *http.Request, id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := a.activeCourt(w, r, *id)
	return ok
}

type scheduleRequest struct {
	CourtID   *int64           `json:"court_id" validate:"omitnil,gt=0"`
	DayOfWeek *int             `json:"day_of_week" validate:"required,min=0,max=6"`
	OpenTime  *model.ClockTime `json:"open_time" validate:"required"`
	CloseTime *model.ClockTime `json:"close_time" validate:"required"`
	IsActive  *bool            `json:"is_active"`
}

type scheduleUpdate struct {
	CourtID   courtField       `json:"court_id" validate:"omitempty,gt=0"`
	DayOfWeek *int             `json:"day_of_week" validate:"omitnil,min=0,max=6"`
	OpenTime  *model.ClockTime `json:"open_time"`
	CloseTime *model.ClockTime `json:"close_time"`
	IsActive  *bool            `json:"is_active"`
}

func (a *API) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decode(w, r, &req) {
		return
	}
	if *req.CloseTime <= *req.OpenTime {
		httpx.Error(w, http.StatusBadRequest, invalidWindow)
		return
	}
	if !a.courtRef(w, r, req.CourtID) {
		return
	}
	s, err := a.repo.CreateSchedule(r.Context(), model.ScheduleRule{
		Court:     model.CourtScopeFromPtr(req.CourtID),
		Day:       model.Weekday(*req.DayOfWeek),
		OpenTime:  *req.OpenTime,
		CloseTime: *req.CloseTime,
		Active:    req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSchedule(s))
}

func (a *API) ListSchedules(w http.ResponseWriter, r *http.Request) {
	courtID, err := queryID(r, "court_id")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rules, err := a.repo.ListSchedules(r.Context(), courtID)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]scheduleResponse, 0, len(rules))
	for _, s := range rules {
		out = append(out, toSchedule(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (a *API) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req scheduleUpdate
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	s, err := a.repo.GetSchedule(ctx, id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Schedule not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if !a.courtRef(w, r, req.CourtID.ID) {
		return
	}

	s.Court = req.CourtID.apply(s.Court)
	if req.DayOfWeek != nil {
		s.Day = model.Weekday(*req.DayOfWeek)
	}
	if req.OpenTime != nil {
		s.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		s.CloseTime = *req.CloseTime
	}
	if req.IsActive != nil {
		s.Active = *req.IsActive
	}
	if s.CloseTime <= s.OpenTime {
		httpx.Error(w, http.StatusBadRequest, invalidWindow)
		return
	}

	s, err = a.repo.UpdateSchedule(ctx, s)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSchedule(s))
}

func (a *API) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	a.deleteByID(w, r, a.repo.DeleteSchedule, "Schedule not found")
}

type tariffRequest struct {
	CourtID           *int64           `json:"court_id" validate:"omitnil,gt=0"`
	DayOfWeek         *int             `json:"day_of_week" validate:"omitnil,min=0,max=6"`
	StartTime         *model.ClockTime `json:"start_time" validate:"required"`
	EndTime           *model.ClockTime `json:"end_time" validate:"required"`
	PricePerHourCents *int64           `json:"price_per_hour_cents" validate:"required,min=0"`
	IsActive          *bool            `json:"is_active"`
}

type tariffUpdate struct {
	CourtID           courtField       `json:"court_id" validate:"omitempty,gt=0"`
	DayOfWeek         *int             `json:"day_of_week" validate:"omitnil,min=0,max=6"`
	StartTime         *model.ClockTime `json:"start_time"`
	EndTime           *model.ClockTime `json:"end_time"`
	PricePerHourCents *int64           `json:"price_per_hour_cents" validate:"omitnil,min=0"`
	IsActive          *bool            `json:"is_active"`
}

func (a *API) CreateTariff(w http.ResponseWriter, r *http.Request) {
	var req tariffRequest
	if !decode(w, r, &req) {
		return
	}
	if *req.EndTime <= *req.StartTime {
		httpx.Error(w, http.StatusBadRequest, invalidWindow)
		return
	}
	if !a.courtRef(w, r, req.CourtID) {
		return
	}
	t, err := a.repo.CreateTariff(r.Context(), model.TariffRule{
		Court:             model.CourtScopeFromPtr(req.CourtID),
		Day:               model.DayScopeFromPtr(req.DayOfWeek),
		StartTime:         *req.StartTime,
		EndTime:           *req.EndTime,
		PricePerHourCents: *req.PricePerHourCents,
		Active:            req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTariff(t))
}

func (a *API) ListTariffs(w http.ResponseWriter, r *http.Request) {
	courtID, err := queryID(r, "court_id")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rules, err := a.repo.ListTariffs(r.Context(), courtID)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]tariffResponse, 0, len(rules))
	for _, t := range rules {
		out = append(out, toTariff(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (a *API) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req tariffUpdate
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	t, err := a.repo.GetTariff(ctx, id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Tariff not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if !a.courtRef(w, r, req.CourtID.ID) {
		return
	}

	t.Court = req.CourtID.apply(t.Court)
	if req.DayOfWeek != nil {
		t.Day = model.OnDay(model.Weekday(*req.DayOfWeek))
	}
	if req.StartTime != nil {
		t.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		t.EndTime = *req.EndTime
	}
	if req.PricePerHourCents != nil {
		t.PricePerHourCents = *req.PricePerHourCents
	}
	if req.IsActive != nil {
		t.Active = *req.IsActive
	}
	if t.EndTime <= t.StartTime {
		httpx.Error(w, http.StatusBadRequest, invalidWindow)
		return
	}

	t, err = a.repo.UpdateTariff(ctx, t)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTariff(t))
}

func (a *API) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	a.deleteByID(w, r, a.repo.DeleteTariff, "Tariff not found")
}

type closureRequest struct {
	CourtID   *int64 `json:"court_id" validate:"omitnil,gt=0"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Reason    string `json:"reason" validate:"max=255"`
}

type closureUpdate struct {
	CourtID   courtField `json:"court_id" validate:"omitempty,gt=0"`
	StartTime *string    `json:"start_time"`
	EndTime   *string    `json:"end_time"`
	Reason    *string    `json:"reason" validate:"omitnil,max=255"`
}

func (a *API) CreateClosure(w http.ResponseWriter, r *http.Request) {
	var req closureRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "start_time: "+err.Error())
		return
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "end_time: "+err.Error())
		return
	}
	if !end.After(start) {
		httpx.Error(w, http.StatusUnprocessableEntity, "end_time must be after start_time")
		return
	}
	if !a.courtRef(w, r, req.CourtID) {
		return
	}
	c, err := a.repo.CreateClosure(r.Context(), model.Closure{
		Court:     model.CourtScopeFromPtr(req.CourtID),
		StartTime: start,
		EndTime:   end,
		Reason:    strings.TrimSpace(req.Reason),
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toClosure(c))
}

// ListClosures filters by court_id and by overlap with [from, to).
func (a *API) ListClosures(w http.ResponseWriter, r *http.Request) {
	courtID, err := queryID(r, "court_id")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	from, err := queryTime(r, "from")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	closures, err := a.repo.ListClosuresFiltered(r.Context(), storage.ClosureFilter{CourtID: courtID, From: from, To: to})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]closureResponse, 0, len(closures))
	for _, c := range closures {
		out = append(out, toClosure(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (a *API) GetClosure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := a.repo.GetClosure(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Closure not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toClosure(c))
}

func (a *API) UpdateClosure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req closureUpdate
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	c, err := a.repo.GetClosure(ctx, id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Closure not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if !a.courtRef(w, r, req.CourtID.ID) {
		return
	}

	if req.StartTime != nil {
		if c.StartTime, err = parseTimestamp(*req.StartTime); err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "start_time: "+err.Error())
			return
		}
	}
	if req.EndTime != nil {
		if c.EndTime, err = parseTimestamp(*req.EndTime); err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "end_time: "+err.Error())
			return
		}
	}
	if !c.EndTime.After(c.StartTime) {
		httpx.Error(w, http.StatusBadRequest, invalidWindow)
		return
	}
	c.Court = req.CourtID.apply(c.Court)
	if req.Reason != nil {
		c.Reason = strings.TrimSpace(*req.Reason)
	}

	c, err = a.repo.UpdateClosure(ctx, c)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toClosure(c))
}

func (a *API) DeleteClosure(w http.ResponseWriter, r *http.Request) {
	a.deleteByID(w, r, a.repo.DeleteClosure, "Closure not found")
}

func (a *API) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error, notFound string) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := del(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
