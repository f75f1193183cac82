package dto

import (
	"math"
	"strings"
	"time"

	"inap/internal/domains/booking/model"
	"inap/shared"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	gModel "inap/shared/model"
	"inap/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID          string `json:"roomId"          validate:"required,max=64"`
	GuestName       string `json:"guestName"       validate:"required,max=100"`
	GuestEmail      string `json:"guestEmail"      validate:"required,email,max=255"`
	GuestPhone      string `json:"guestPhone"      validate:"omitempty,max=30"`
	CheckIn         string `json:"checkIn"         validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkOut"        validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests"          validate:"required,min=1"`
	SpecialRequests string `json:"specialRequests" validate:"omitempty,max=1000"`
}

// Stay parses the check-in and check-out dates.
func (c *CreateBookingRequest) Stay() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(model.DateLayout, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = time.Parse(model.DateLayout, c.CheckOut)

	return checkIn, checkOut, err
}

// ToModel prices the stay at nights times the room's base price.
func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time, basePrice int64) model.Booking {
	nights := model.Nights(checkIn, checkOut)
	now := timezone.Now()

	booking := model.Booking{
		ID:             uuid.NewString(),
		RoomID:         c.RoomID,
		GuestName:      strings.TrimSpace(c.GuestName),
		GuestEmail:     strings.ToLower(strings.TrimSpace(c.GuestEmail)),
		GuestPhone:     strings.TrimSpace(c.GuestPhone),
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Guests:         c.Guests,
		Nights:         nights,
		TotalPrice:     int64(nights) * basePrice,
		Status:         model.StatusPending,
		PaymentStatus:  model.PaymentPending,
		SpecialRequest: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if user != constant.ContextGuest {
		booking.UserID = &user
	}

	return booking
}

type UpdateStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `db:"payment_status" json:"paymentStatus" validate:"required,oneof=pending paid refunded"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"roomId"`
	RoomName        string  `json:"roomName"`
	UserID          *string `json:"userId"`
	GuestName       string  `json:"guestName"`
	GuestEmail      string  `json:"guestEmail"`
	GuestPhone      string  `json:"guestPhone"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
	Guests          int     `json:"guests"`
	Nights          int     `json:"nights"`
	TotalPrice      int64   `json:"totalPrice"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.UserID = booking.UserID
	r.GuestName = booking.GuestName
	r.GuestEmail = booking.GuestEmail
	r.GuestPhone = booking.GuestPhone
	r.CheckIn = booking.CheckIn.Format(model.DateLayout)
	r.CheckOut = booking.CheckOut.Format(model.DateLayout)
	r.Guests = booking.Guests
	r.Nights = booking.Nights
	r.TotalPrice = booking.TotalPrice
	r.Status = booking.Status
	r.PaymentStatus = booking.PaymentStatus
	r.SpecialRequests = booking.SpecialRequest
	r.Metadata.FromModel(booking.Metadata)

	if booking.RoomName != nil {
		r.RoomName = *booking.RoomName
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

type RoomTypeBookings struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type StatsResponse struct {
	TotalBookings     int                `json:"totalBookings"`
	PendingBookings   int                `json:"pendingBookings"`
	ConfirmedBookings int                `json:"confirmedBookings"`
	CancelledBookings int                `json:"cancelledBookings"`
	CompletedBookings int                `json:"completedBookings"`
	TotalRevenue      int64              `json:"totalRevenue"`
	OccupancyRate     float64            `json:"occupancyRate"`
	MonthlyRevenue    []MonthlyRevenue   `json:"monthlyRevenue"`
	RoomTypeBookings  []RoomTypeBookings `json:"roomTypeBookings"`
}

// FromModel fills the response; occupancy is the share of rooms held today, in percent
// rounded to one decimal.
func (r *StatsResponse) FromModel(stats model.Stats, monthly []model.MonthlyRevenue, byType []model.RoomTypeCount) {
	r.TotalBookings = stats.TotalBookings
	r.PendingBookings = stats.PendingBookings
	r.ConfirmedBookings = stats.ConfirmedBookings
	r.CancelledBookings = stats.CancelledBookings
	r.CompletedBookings = stats.CompletedBookings
	r.TotalRevenue = stats.TotalRevenue

	if stats.TotalRooms > 0 {
		rate := float64(stats.OccupiedRooms) / float64(stats.TotalRooms) * 100
		r.OccupancyRate = math.Round(rate*10) / 10
	}

	r.MonthlyRevenue = make([]MonthlyRevenue, len(monthly))
	for i, m := range monthly {
		r.MonthlyRevenue[i] = MonthlyRevenue{Month: m.Month, Revenue: m.Revenue}
	}

	r.RoomTypeBookings = make([]RoomTypeBookings, len(byType))
	for i, c := range byType {
		r.RoomTypeBookings[i] = RoomTypeBookings{Type: c.Type, Count: c.Count}
	}
}

// BookingEvent is published when a booking changes status.
type BookingEvent struct {
	Event      string    `json:"event"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
