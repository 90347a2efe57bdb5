package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/auth"
	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

// UserStore is what authentication needs from storage.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// Authenticator issues access tokens and resolves the bearer of a request to a user.
type Authenticator struct {
	users  UserStore
	secret string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthenticator(users UserStore, secret string, ttl time.Duration, logger *slog.Logger) *Authenticator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Authenticator{
		users:  users,
		secret: secret,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type userKey struct{}

func withUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser is the authenticated user placed on the context by Require.
func CurrentUser(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httpx.Error(w, http.StatusUnauthorized, "Could not validate credentials")
}

// Require rejects requests without a valid bearer token for an active user.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}
		claims, err := auth.ParseAndVerifyHS256(token, a.secret)
		if err != nil {
			unauthorized(w)
			return
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			unauthorized(w)
			return
		}

		u, err := a.users.GetUser(r.Context(), id)
		if storage.IsNotFound(err) {
			unauthorized(w)
			return
		}
		if err != nil {
			a.logger.Error("load user failed", "user_id", id, "err", err)
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !u.IsActive {
			httpx.Error(w, http.StatusBadRequest, "Inactive user")
			return
		}
		next(w, r.WithContext(withUser(r.Context(), u)))
	}
}

// RequireAdmin is Require plus the admin flag.
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.Require(func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r.Context())
		if !u.IsAdmin {
			httpx.Error(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r)
	})
}

// Token mints an access token for u.
func (a *Authenticator) Token(u model.User) (string, error) {
	return auth.Issue(strconv.FormatInt(u.ID, 10), u.Role(), a.ttl, a.now(), a.secret)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login accepts an OAuth2 password form (username, password) or a JSON body (email, password).
func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.Email = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		if err := validate.Struct(req); err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}
	} else if !decode(w, r, &req) {
		return
	}

	u, err := a.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil && !storage.IsNotFound(err) {
		a.logger.Error("load user failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err != nil || !auth.VerifyPassword(u.HashedPassword, req.Password) {
		httpx.Error(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if !u.IsActive {
		httpx.Error(w, http.StatusBadRequest, "Inactive user")
		return
	}

	token, err := a.Token(u)
	if err != nil {
		a.logger.Error("issue token failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
