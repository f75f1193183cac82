package model

import (
	"slices"
	"time"

	"inap/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldUserID        = "user_id"
	FieldGuestName     = "guest_name"
	FieldGuestEmail    = "guest_email"
	FieldGuestPhone    = "guest_phone"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldGuests        = "guests"
	FieldNights        = "nights"
	FieldTotalPrice    = "total_price"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldCreatedAt     = "created_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

const DateLayout = "2006-01-02"

var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

var paymentTransitions = map[string][]string{
	PaymentPending: {PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

// ActiveStatuses hold the room for their stay dates.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID             string    `db:"id"`
	RoomID         string    `db:"room_id"`
	RoomName       *string   `db:"room_name" table:"rooms" column:"name"`
	UserID         *string   `db:"user_id"`
	GuestName      string    `db:"guest_name"`
	GuestEmail     string    `db:"guest_email"`
	GuestPhone     string    `db:"guest_phone"`
	CheckIn        time.Time `db:"check_in"`
	CheckOut       time.Time `db:"check_out"`
	Guests         int       `db:"guests"`
	Nights         int       `db:"nights"`
	TotalPrice     int64     `db:"total_price"`
	Status         string    `db:"status"`
	PaymentStatus  string    `db:"payment_status"`
	SpecialRequest string    `db:"special_request"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// CanTransition reports whether a booking may move from one status to another.
// Cancelled and completed are terminal.
func CanTransition(from, to string) bool {
	return slices.Contains(statusTransitions[from], to)
}

func CanTransitionPayment(from, to string) bool {
	return slices.Contains(paymentTransitions[from], to)
}

// Nights counts the stay length in whole days.
func Nights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)

	return int(out.Sub(in).Hours() / 24)
}

type Stats struct {
	TotalBookings     int   `db:"total_bookings"`
	PendingBookings   int   `db:"pending_bookings"`
	ConfirmedBookings int   `db:"confirmed_bookings"`
	CancelledBookings int   `db:"cancelled_bookings"`
	CompletedBookings int   `db:"completed_bookings"`
	TotalRevenue      int64 `db:"total_revenue"`
	OccupiedRooms     int   `db:"occupied_rooms"`
	TotalRooms        int   `db:"total_rooms"`
}

type MonthlyRevenue struct {
	Month   string `db:"month"`
	Revenue int64  `db:"revenue"`
}

type RoomTypeCount struct {
	Type  string `db:"type"`
	Count int    `db:"count"`
}
