package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/courtreserve/libs/auth"
	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

type registerUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type createUserRequest struct {
	registerUserRequest
	IsAdmin  bool  `json:"is_admin"`
	IsActive *bool `json:"is_active"`
}

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitnil,email"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (a *API) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !decode(w, r, &req) {
		return
	}
	a.createUser(w, r, req, false, true)
}

func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decode(w, r, &req) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	a.createUser(w, r, req.registerUserRequest, req.IsAdmin, active)
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request, req registerUserRequest, isAdmin, isActive bool) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	u, err := a.repo.CreateUser(r.Context(), model.User{
		Email:          strings.TrimSpace(req.Email),
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          strings.TrimSpace(req.Phone),
		HashedPassword: hash,
		IsActive:       isActive,
		IsAdmin:        isAdmin,
	})
	if storage.IsConflict(err) {
		httpx.Error(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUser(u))
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	httpx.JSON(w, http.StatusOK, toUser(u))
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.repo.ListUsers(r.Context())
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := a.repo.GetUser(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUser(u))
}

func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	u, err := a.repo.GetUser(ctx, id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != u.Email {
			if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
				httpx.Error(w, http.StatusBadRequest, "Email already registered")
				return
			} else if !storage.IsNotFound(err) {
				fail(w, r, a.logger, err)
				return
			}
			u.Email = email
		}
	}
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		u.HashedPassword = hash
	}

	u, err = a.repo.UpdateUser(ctx, u)
	if storage.IsConflict(err) {
		httpx.Error(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUser(u))
}
