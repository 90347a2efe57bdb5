package model

import (
	"encoding/json"
	"time"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationConfirmed = "reservation_confirmed"
	EventReservationCancelled = "reservation_cancelled"
)

type Notification struct {
	ID            int64
	ReservationID *int64
	UserID        *int64
	Channel       string
	EventType     string
	Recipient     string
	Payload       json.RawMessage
	Status        NotificationStatus
	ErrorMessage  string
	CreatedAt     time.Time
	SentAt        *time.Time
}
