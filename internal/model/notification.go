package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationBooking      NotificationKind = "booking"
	NotificationCancellation NotificationKind = "cancellation"
	NotificationReschedule   NotificationKind = "reschedule"
)

// Notification производная запись о событии, только дописывается.
// Пишет только BookingService, читает только получатель.
type Notification struct {
	ID             uuid.UUID        `json:"id"`
	RecipientEmail string           `json:"recipient_email"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Kind           NotificationKind `json:"type"`
	Timestamp      time.Time        `json:"timestamp"`
	Read           bool             `json:"read"`
}
