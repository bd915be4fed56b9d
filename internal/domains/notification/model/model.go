package model

import (
	"time"
	"warehub/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldRead      = "read"
	FieldCreatedAt = "created_at"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// BookingEvent is published for every booking lifecycle transition.
type BookingEvent struct {
	Type        EventType `json:"type"`
	BookingID   string    `json:"booking_id"`
	WarehouseID string    `json:"warehouse_id"`
	RenterID    string    `json:"renter_id"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Notification struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Type        EventType `db:"type"`
	Title       string    `db:"title"`
	Body        string    `db:"body"`
	BookingID   string    `db:"booking_id"`
	WarehouseID string    `db:"warehouse_id"`
	Read        bool      `db:"read"`
	model.Metadata
}

const (
	FieldType      = "type"
	FieldBookingID = "booking_id"

	// ArgCurrentRead keeps the read filter apart from the read value being set.
	ArgCurrentRead = "current_read"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventBookingCreated, EventBookingConfirmed, EventBookingCancelled, EventBookingCompleted:
		return true
	default:
		return false
	}
}

// Message returns the title and body shown to the renter and to the owner.
func (e BookingEvent) Message() (renterTitle, renterBody, ownerTitle, ownerBody string) {
	switch e.Type {
	case EventBookingCreated:
		return "Booking requested",
			"Your booking request was sent to the warehouse owner.",
			"New booking request",
			"A renter requested to book your warehouse."
	case EventBookingConfirmed:
		return "Booking confirmed",
			"The warehouse owner confirmed your booking.",
			"Booking confirmed",
			"You confirmed a booking for your warehouse."
	case EventBookingCancelled:
		return "Booking cancelled",
			"Your booking was cancelled.",
			"Booking cancelled",
			"A booking for your warehouse was cancelled."
	case EventBookingCompleted:
		return "Booking completed",
			"Your booking period has ended.",
			"Booking completed",
			"A booking for your warehouse has ended and the space is released."
	default:
		return "", "", "", ""
	}
}
