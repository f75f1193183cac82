package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"inap/infras/otel"
	"inap/infras/postgres"
	"inap/internal/domains/room/model"
	"inap/shared"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"
	"inap/shared/logger"
	gRepo "inap/shared/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	aggregateSelect = `SELECT rooms.id, rooms.slug, rooms.name, rooms.description, rooms.short_description,
	rooms.base_price, rooms.max_guests, rooms.size_sqm, rooms.status, rooms.room_type_id,
	room_types.type AS type,
	ARRAY(SELECT ri.image_url FROM room_images ri WHERE ri.room_id = rooms.id ORDER BY ri.position) AS images,
	ARRAY(SELECT ri.is_primary FROM room_images ri WHERE ri.room_id = rooms.id ORDER BY ri.position) AS images_primary,
	ARRAY(SELECT a.name FROM room_amenities ra JOIN amenities a ON a.id = ra.amenity_id WHERE ra.room_id = rooms.id ORDER BY a.name) AS amenities,
	ARRAY(SELECT ra.amenity_id FROM room_amenities ra WHERE ra.room_id = rooms.id ORDER BY ra.amenity_id) AS amenity_ids,
	ARRAY(SELECT f.name FROM room_features rf JOIN features f ON f.id = rf.feature_id WHERE rf.room_id = rooms.id ORDER BY f.name) AS features,
	ARRAY(SELECT rf.feature_id FROM room_features rf WHERE rf.room_id = rooms.id ORDER BY rf.feature_id) AS feature_ids
FROM rooms JOIN room_types ON room_types.id = rooms.room_type_id`

	queryLockRoom          = `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`
	queryRoomTypeExists    = `SELECT EXISTS(SELECT 1 FROM room_types WHERE id = $1)`
	queryExistingAmenities = `SELECT id FROM amenities WHERE id = ANY($1)`
	queryExistingFeatures  = `SELECT id FROM features WHERE id = ANY($1)`
	queryRoomHasBookings   = `SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = $1)`

	queryDeleteRoomAmenities = `DELETE FROM room_amenities WHERE room_id = $1`
	queryDeleteRoomFeatures  = `DELETE FROM room_features WHERE room_id = $1`
	queryInsertRoomAmenity   = `INSERT INTO room_amenities (room_id, amenity_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	queryInsertRoomFeature   = `INSERT INTO room_features (room_id, feature_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
)

var sortableColumns = map[string]string{
	model.FieldName:      "rooms.name",
	model.FieldBasePrice: "rooms.base_price",
	model.FieldMaxGuests: "rooms.max_guests",
	model.FieldCreatedAt: "rooms.created_at",
	model.FieldID:        "rooms.id",
}

type Room interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	GetAggregate(ctx context.Context, filter gDto.FilterGroup) (model.Aggregate, error)
	GetAggregates(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Aggregate, error)
	CreateAggregate(ctx context.Context, room model.Room, links model.Links) (model.WriteResult, error)
	ReplaceAggregate(ctx context.Context, room model.Room, links model.Links) (model.WriteResult, error)
	DeleteAggregate(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	images gRepo.Repository[model.Image]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		images:     gRepo.NewRepository[model.Image](model.EntityRoomImage, model.TableRoomImages, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetAggregate reads one room with its type label, ordered images, amenity names and
// feature names. A room that does not match yields a zero Aggregate.
func (repo *repositoryImpl) GetAggregate(ctx context.Context, filter gDto.FilterGroup) (res model.Aggregate, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAggregate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("%s %s", aggregateSelect, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &res, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Aggregate{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get room aggregate: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) GetAggregates(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res []model.Aggregate, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAggregates")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := repo.BuildWhereClause(ctx, filter)

	ordering := "ORDER BY rooms.created_at DESC, rooms.id"
	if column, ok := sortableColumns[params.SortBy]; ok {
		dir := gDto.SortDirAsc
		if strings.EqualFold(params.SortDir, gDto.SortDirDesc) {
			dir = gDto.SortDirDesc
		}

		ordering = fmt.Sprintf("ORDER BY %s %s, rooms.id", column, dir)
	}

	var pagination string

	if params.Page > 0 && params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit
		pagination = "LIMIT :limit OFFSET :offset"
	} else if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"
	}

	query := fmt.Sprintf("%s %s %s %s", aggregateSelect, where, ordering, pagination)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	res = []model.Aggregate{}

	if err = prepare.SelectContext(ctx, &res, args); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get room aggregates: %w", err)
	}

	return res, nil
}

// CreateAggregate inserts the room row and its associations in one transaction.
func (repo *repositoryImpl) CreateAggregate(ctx context.Context, room model.Room, links model.Links) (res model.WriteResult, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CreateAggregate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	err = postgres.WithTransaction(ctx, repo.db.Write, func(tx *sqlx.Tx) error {
		if err := repo.validateReferences(ctx, tx, room.RoomTypeID, links); err != nil {
			return err
		}

		if err := repo.InsertTx(ctx, tx, room); err != nil {
			return failure.FromPostgres(err, model.EntityName)
		}

		res, err = repo.replaceLinks(ctx, tx, room.ID, links)

		return err
	})

	return res, err
}

// ReplaceAggregate overwrites the room's scalar fields and replaces its amenity set,
// feature set and image list. Either every step is committed or none is.
func (repo *repositoryImpl) ReplaceAggregate(ctx context.Context, room model.Room, links model.Links) (res model.WriteResult, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ReplaceAggregate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("room.id", room.ID)

	err = postgres.WithTransaction(ctx, repo.db.Write, func(tx *sqlx.Tx) error {
		if err := repo.lockRoom(ctx, tx, room.ID); err != nil {
			return err
		}

		if err := repo.validateReferences(ctx, tx, room.RoomTypeID, links); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldName:             room.Name,
			model.FieldDescription:      room.Description,
			model.FieldShortDescription: room.ShortDescription,
			model.FieldBasePrice:        room.BasePrice,
			model.FieldMaxGuests:        room.MaxGuests,
			model.FieldSizeSqm:          room.SizeSqm,
			model.FieldRoomTypeID:       room.RoomTypeID,
			constant.FieldModifiedAt:    room.ModifiedAt,
			constant.FieldModifiedBy:    room.ModifiedBy,
		}

		if err := repo.UpdateTx(ctx, tx, fields, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
			return failure.FromPostgres(err, model.EntityName)
		}

		res, err = repo.replaceLinks(ctx, tx, room.ID, links)

		return err
	})

	return res, err
}

// DeleteAggregate removes the room's associations, images and the room row together.
// Rooms referenced by bookings are kept.
func (repo *repositoryImpl) DeleteAggregate(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.DeleteAggregate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return postgres.WithTransaction(ctx, repo.db.Write, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		if err := repo.lockRoom(ctx, tx, id); err != nil {
			return err
		}

		var hasBookings bool
		if err := tx.GetContext(ctx, &hasBookings, queryRoomHasBookings, id); err != nil {
			return fmt.Errorf("failed to check room bookings: %w", err)
		}

		if hasBookings {
			return failure.Conflict("room has bookings and cannot be deleted")
		}

		if _, err := tx.ExecContext(ctx, queryDeleteRoomAmenities, id); err != nil {
			return fmt.Errorf("failed to delete room amenities: %w", err)
		}

		if _, err := tx.ExecContext(ctx, queryDeleteRoomFeatures, id); err != nil {
			return fmt.Errorf("failed to delete room features: %w", err)
		}

		if err := repo.images.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldRoomID, model.TableRoomImages)); err != nil {
			return err
		}

		return repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	})
}

func (repo *repositoryImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, id string) error {
	var locked string

	err := tx.GetContext(ctx, &locked, queryLockRoom, id)
	if errors.Is(err, sql.ErrNoRows) {
		return failure.NotFound("room not found")
	}

	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	return nil
}

// validateReferences rejects unknown room type, amenity and feature ids before any
// association row is written.
func (repo *repositoryImpl) validateReferences(ctx context.Context, tx *sqlx.Tx, roomTypeID string, links model.Links) error {
	var typeExists bool
	if err := tx.GetContext(ctx, &typeExists, queryRoomTypeExists, roomTypeID); err != nil {
		return fmt.Errorf("failed to check room type: %w", err)
	}

	if !typeExists {
		return failure.BadRequestFromString(fmt.Sprintf("unknown room type: %s", roomTypeID))
	}

	if err := repo.ensureExisting(ctx, tx, queryExistingAmenities, "amenities", links.AmenityIDs); err != nil {
		return err
	}

	return repo.ensureExisting(ctx, tx, queryExistingFeatures, "features", links.FeatureIDs)
}

func (repo *repositoryImpl) ensureExisting(ctx context.Context, tx *sqlx.Tx, query, label string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	found := []string{}
	if err := tx.SelectContext(ctx, &found, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to check %s: %w", label, err)
	}

	missing := []string{}

	for _, id := range ids {
		if !slices.Contains(found, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		return failure.BadRequestFromString(fmt.Sprintf("unknown %s: %s", label, strings.Join(missing, ", ")))
	}

	return nil
}

func (repo *repositoryImpl) replaceLinks(ctx context.Context, tx *sqlx.Tx, roomID string, links model.Links) (res model.WriteResult, err error) {
	if _, err = tx.ExecContext(ctx, queryDeleteRoomAmenities, roomID); err != nil {
		return res, fmt.Errorf("failed to clear room amenities: %w", err)
	}

	if res.Amenities, err = insertLinks(ctx, tx, queryInsertRoomAmenity, roomID, links.AmenityIDs); err != nil {
		return res, fmt.Errorf("failed to insert room amenities: %w", failure.FromPostgres(err, "room amenity"))
	}

	if _, err = tx.ExecContext(ctx, queryDeleteRoomFeatures, roomID); err != nil {
		return res, fmt.Errorf("failed to clear room features: %w", err)
	}

	if res.Features, err = insertLinks(ctx, tx, queryInsertRoomFeature, roomID, links.FeatureIDs); err != nil {
		return res, fmt.Errorf("failed to insert room features: %w", failure.FromPostgres(err, "room feature"))
	}

	if err = repo.images.DeleteTx(ctx, tx, shared.FilterByID(roomID, model.FieldRoomID, model.TableRoomImages)); err != nil {
		return res, err
	}

	if len(links.Images) == 0 {
		return res, nil
	}

	images := make([]model.Image, len(links.Images))
	for idx, img := range links.Images {
		images[idx] = model.Image{
			ID:        uuid.NewString(),
			RoomID:    roomID,
			ImageURL:  img.URL,
			IsPrimary: img.IsPrimary,
			Position:  idx,
		}
	}

	if err = repo.images.InsertBulkTx(ctx, tx, images); err != nil {
		return res, err
	}

	res.Images = len(images)

	return res, nil
}

// insertLinks inserts one association row per id; a repeated id is reported as
// already present instead of failing.
func insertLinks(ctx context.Context, tx *sqlx.Tx, query, roomID string, ids []string) ([]model.LinkResult, error) {
	results := make([]model.LinkResult, 0, len(ids))

	for _, id := range ids {
		result, err := tx.ExecContext(ctx, query, roomID, id)
		if err != nil {
			return nil, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}

		outcome := model.LinkInserted
		if affected == 0 {
			outcome = model.LinkAlreadyPresent
		}

		results = append(results, model.LinkResult{ID: id, Outcome: outcome})
	}

	return results, nil
}
