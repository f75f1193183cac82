package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inap/infras/otel"
	"inap/infras/postgres"
	"inap/internal/domains/booking/model"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"
	"inap/shared/logger"
	gRepo "inap/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	queryLockRoom = `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`
	queryOverlap  = `SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = $1 AND status = ANY($2) AND check_in < $4 AND check_out > $3)`

	queryStats = `SELECT
	COUNT(*) AS total_bookings,
	COUNT(*) FILTER (WHERE status = 'pending') AS pending_bookings,
	COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed_bookings,
	COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_bookings,
	COUNT(*) FILTER (WHERE status = 'completed') AS completed_bookings,
	COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'paid'), 0) AS total_revenue,
	COUNT(DISTINCT room_id) FILTER (WHERE status = ANY($2) AND check_in <= $1 AND check_out > $1) AS occupied_rooms,
	(SELECT COUNT(*) FROM rooms) AS total_rooms
FROM bookings`

	queryMonthlyRevenue = `SELECT to_char(check_in, 'YYYY-MM') AS month, COALESCE(SUM(total_price), 0) AS revenue
FROM bookings
WHERE payment_status = 'paid' AND check_in >= $1
GROUP BY month
ORDER BY month`

	queryRoomTypeCounts = `SELECT COALESCE(room_types.type, '') AS type, COUNT(bookings.id) AS count
FROM bookings
JOIN rooms ON rooms.id = bookings.room_id
LEFT JOIN room_types ON room_types.id = rooms.room_type_id
GROUP BY room_types.type
ORDER BY count DESC, type`
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Reserve(ctx context.Context, booking model.Booking) error
	Transition(ctx context.Context, id string, fields map[string]any, guards ...gDto.Filter) error
	Stats(ctx context.Context, on time.Time) (model.Stats, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthlyRevenue, error)
	CountByRoomType(ctx context.Context) ([]model.RoomTypeCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Reserve inserts the booking unless an active booking of the same room overlaps its
// stay. The room row is locked first so concurrent reservations of one room serialize.
func (r *repositoryImpl) Reserve(ctx context.Context, booking model.Booking) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()

	err := postgres.WithTransaction(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		var roomID string

		err := tx.GetContext(ctx, &roomID, queryLockRoom, booking.RoomID)
		if errors.Is(err, sql.ErrNoRows) {
			return failure.BadRequestFromString(fmt.Sprintf("room %s does not exist", booking.RoomID))
		}

		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		var overlaps bool

		err = tx.GetContext(ctx, &overlaps, queryOverlap,
			booking.RoomID, pq.Array(model.ActiveStatuses), booking.CheckIn, booking.CheckOut)
		if err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}

		if overlaps {
			return failure.Conflict("room is already booked for the selected dates")
		}

		if err = r.InsertTx(ctx, tx, booking); err != nil {
			return failure.FromPostgres(err, model.EntityName)
		}

		return nil
	})
	if err != nil {
		scope.TraceError(err)
	}

	return err
}

// Transition writes fields to the booking only while every guard still holds. A booking
// that changed since it was read is a conflict.
func (r *repositoryImpl) Transition(ctx context.Context, id string, fields map[string]any, guards ...gDto.Filter) error {
	filter := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}}

	for _, guard := range guards {
		filter.Filters = append(filter.Filters, guard)
	}

	matched, err := r.UpdateMatched(ctx, fields, filter)
	if err != nil {
		return err
	}

	if matched == 0 {
		return failure.Conflict(fmt.Sprintf("booking %s was changed by another request", id))
	}

	return nil
}

func (r *repositoryImpl) Stats(ctx context.Context, on time.Time) (model.Stats, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Stats")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryStats)

	var stats model.Stats

	if err := r.db.Read.GetContext(ctx, &stats, queryStats, on, pq.Array(model.ActiveStatuses)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to get booking stats: %w", err)
	}

	return stats, nil
}

func (r *repositoryImpl) MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthlyRevenue, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MonthlyRevenue")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryMonthlyRevenue)

	var rows []model.MonthlyRevenue

	if err := r.db.Read.SelectContext(ctx, &rows, queryMonthlyRevenue, since); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}

	return rows, nil
}

func (r *repositoryImpl) CountByRoomType(ctx context.Context) ([]model.RoomTypeCount, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByRoomType")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRoomTypeCounts)

	var rows []model.RoomTypeCount

	if err := r.db.Read.SelectContext(ctx, &rows, queryRoomTypeCounts); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count bookings by room type: %w", err)
	}

	return rows, nil
}
