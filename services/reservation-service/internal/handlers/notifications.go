package handlers

import (
	"net/http"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

// ListNotifications shows the newest notifications first, optionally filtered by status.
func (a *API) ListNotifications(w http.ResponseWriter, r *http.Request) {
	status := model.NotificationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", model.NotificationPending, model.NotificationSent, model.NotificationFailed:
	default:
		httpx.Error(w, http.StatusUnprocessableEntity, "status must be pending, sent or failed")
		return
	}
	limit, _, err := queryInt(r, "limit", 100)
	if err != nil || limit < 1 || limit > 500 {
		httpx.Error(w, http.StatusUnprocessableEntity, "limit must be between 1 and 500")
		return
	}

	list, err := a.repo.ListNotifications(r.Context(), status, limit)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotification(n))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// SendNotification resets the notification to pending and delivers it synchronously.
func (a *API) SendNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := a.notifier.Resend(r.Context(), id)
	if storage.IsNotFound(err) {
		httpx.Error(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toNotification(n))
}
