package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

type createCourtRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Surface  string `json:"surface" validate:"max=50"`
	IsActive *bool  `json:"is_active"`
}

type updateCourtRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=100"`
	Surface  *string `json:"surface" validate:"omitnil,max=50"`
	IsActive *bool   `json:"is_active"`
}

func (a *API) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req createCourtRequest
	if !decode(w, r, &req) {
		return
	}
	c := model.Court{
		Name:     strings.TrimSpace(req.Name),
		Surface:  strings.TrimSpace(req.Surface),
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	c, err := a.repo.CreateCourt(r.Context(), c)
	if storage.IsConflict(err) {
		httpx.Error(w, http.StatusBadRequest, "Court name already exists")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCourt(c))
}

func (a *API) ListCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := a.repo.ListCourts(r.Context(), false)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]courtResponse, 0, len(courts))
	for _, c := range courts {
		out = append(out, toCourt(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetCourt returns the court even when inactive.
func (a *API) GetCourt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := a.repo.GetCourt(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Court not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCourt(c))
}

func (a *API) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateCourtRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	c, err := a.repo.GetCourt(ctx, id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Court not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surface != nil {
		c.Surface = strings.TrimSpace(*req.Surface)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	c, err = a.repo.UpdateCourt(ctx, c)
	if storage.IsConflict(err) {
		httpx.Error(w, http.StatusBadRequest, "Court name already exists")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCourt(c))
}

func (a *API) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := a.repo.DeactivateCourt(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Court not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activeCourt writes 404 and reports false unless the court exists and is active.
func (a *API) activeCourt(w http.ResponseWriter, r *http.Request, id int64) (model.Court, bool) {
	c, err := a.repo.GetCourt(r.Context(), id)
	if storage.IsNotFound(err) || (err == nil && !c.IsActive) {
		httpx.Error(w, http.StatusNotFound, "Court not found")
		return model.Court{}, false
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return model.Court{}, false
	}
	return c, true
}
