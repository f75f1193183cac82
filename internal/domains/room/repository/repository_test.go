package repository

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"inap/infras/otel/mocks"
	"inap/infras/postgres"
	"inap/internal/domains/room/model"
	"inap/shared"
	"inap/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected fault")

func newTestRepository(t *testing.T) (Room, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")

	return New(&postgres.Connection{Read: db, Write: db}, mocks.NewOtel()), mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

func sampleRoom() model.Room {
	return model.Room{
		ID:               "r1",
		Name:             "Deluxe",
		Description:      "A deluxe room",
		ShortDescription: "Deluxe",
		BasePrice:        500000,
		MaxGuests:        2,
		SizeSqm:          32,
		RoomTypeID:       "Tp-1",
	}
}

func sampleLinks() model.Links {
	return model.Links{
		AmenityIDs: []string{"Am-2", "Am-3"},
		FeatureIDs: []string{"Ft-1"},
		Images: []model.ImageInput{
			{URL: "https://cdn.example.com/u2.jpg", IsPrimary: false},
			{URL: "https://cdn.example.com/u3.jpg", IsPrimary: true},
		},
	}
}

// expectUntilUpdate registers lock, reference validation and the scalar update.
func expectUntilUpdate(mock sqlmock.Sqlmock, links model.Links) {
	mock.ExpectBegin()
	mock.ExpectQuery(q(queryLockRoom)).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
	mock.ExpectQuery(q(queryRoomTypeExists)).WithArgs("Tp-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if len(links.AmenityIDs) > 0 {
		amenities := sqlmock.NewRows([]string{"id"})
		for _, id := range links.AmenityIDs {
			amenities.AddRow(id)
		}

		mock.ExpectQuery(q(queryExistingAmenities)).WillReturnRows(amenities)
	}

	if len(links.FeatureIDs) > 0 {
		features := sqlmock.NewRows([]string{"id"})
		for _, id := range links.FeatureIDs {
			features.AddRow(id)
		}

		mock.ExpectQuery(q(queryExistingFeatures)).WillReturnRows(features)
	}
	mock.ExpectExec("UPDATE rooms SET").WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestReplaceAggregate_Commit(t *testing.T) {
	repo, mock := newTestRepository(t)
	links := sampleLinks()

	expectUntilUpdate(mock, links)
	mock.ExpectExec(q(queryDeleteRoomAmenities)).WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-3").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(queryDeleteRoomFeatures)).WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q(queryInsertRoomFeature)).WithArgs("r1", "Ft-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM room_images").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO room_images").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	res, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), links)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Images)
	assert.Equal(t, []model.LinkResult{
		{ID: "Am-2", Outcome: model.LinkInserted},
		{ID: "Am-3", Outcome: model.LinkInserted},
	}, res.Amenities)
	assert.Empty(t, model.Duplicates(res.Features))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAggregate_DuplicateAmenityIsTaggedNotFailed(t *testing.T) {
	repo, mock := newTestRepository(t)
	links := model.Links{AmenityIDs: []string{"Am-2", "Am-2"}, FeatureIDs: []string{}}

	expectUntilUpdate(mock, model.Links{AmenityIDs: []string{"Am-2"}})
	mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q(queryDeleteRoomFeatures)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM room_images").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), links)

	require.NoError(t, err)
	assert.Equal(t, []string{"Am-2"}, model.Duplicates(res.Amenities))
	assert.Zero(t, res.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAggregate_RollsBackOnEveryStep(t *testing.T) {
	links := sampleLinks()

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "scalar update fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q(queryLockRoom)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
				mock.ExpectQuery(q(queryRoomTypeExists)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectQuery(q(queryExistingAmenities)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("Am-2").AddRow("Am-3"))
				mock.ExpectQuery(q(queryExistingFeatures)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("Ft-1"))
				mock.ExpectExec("UPDATE rooms SET").WillReturnError(errInjected)
				mock.ExpectRollback()
			},
		},
		{
			name: "amenity insert fails",
			expect: func(mock sqlmock.Sqlmock) {
				expectUntilUpdate(mock, links)
				mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-2").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WithArgs("r1", "Am-3").WillReturnError(errInjected)
				mock.ExpectRollback()
			},
		},
		{
			name: "feature insert fails",
			expect: func(mock sqlmock.Sqlmock) {
				expectUntilUpdate(mock, links)
				mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryDeleteRoomFeatures)).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(q(queryInsertRoomFeature)).WillReturnError(errInjected)
				mock.ExpectRollback()
			},
		},
		{
			name: "image insert fails",
			expect: func(mock sqlmock.Sqlmock) {
				expectUntilUpdate(mock, links)
				mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryDeleteRoomFeatures)).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(q(queryInsertRoomFeature)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("DELETE FROM room_images").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO room_images").WillReturnError(errInjected)
				mock.ExpectRollback()
			},
		},
		{
			name: "image delete fails",
			expect: func(mock sqlmock.Sqlmock) {
				expectUntilUpdate(mock, links)
				mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryInsertRoomAmenity)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q(queryDeleteRoomFeatures)).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(q(queryInsertRoomFeature)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("DELETE FROM room_images").WillReturnError(errInjected)
				mock.ExpectRollback()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)
			tt.expect(mock)

			_, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), links)

			require.ErrorIs(t, err, errInjected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReplaceAggregate_UnknownRoom(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(queryLockRoom)).WithArgs("r1").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), sampleLinks())

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAggregate_RejectsUnknownReferences(t *testing.T) {
	t.Run("room type", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(queryLockRoom)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery(q(queryRoomTypeExists)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), sampleLinks())

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("amenity", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(queryLockRoom)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery(q(queryRoomTypeExists)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q(queryExistingAmenities)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("Am-2"))
		mock.ExpectRollback()

		_, err := repo.ReplaceAggregate(context.Background(), sampleRoom(), sampleLinks())

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Contains(t, err.Error(), "Am-3")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAggregate(t *testing.T) {
	columns := []string{
		"id", "slug", "name", "description", "short_description", "base_price", "max_guests", "size_sqm",
		"status", "room_type_id", "type", "images", "images_primary", "amenities", "amenity_ids", "features", "feature_ids",
	}

	t.Run("found", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectPrepare("SELECT rooms.id").ExpectQuery().WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"r1", "deluxe", "Deluxe", "desc", "short", int64(500000), 2, 32.5, "available", "Tp-1", "Suite",
			"{u2,u3}", "{f,t}", "{Pool,Wifi}", "{Am-2,Am-3}", "{}", "{}",
		))

		agg, err := repo.GetAggregate(context.Background(), shared.FilterByID("r1", model.FieldID, model.TableName))

		require.NoError(t, err)
		assert.Equal(t, "Suite", agg.Type)
		assert.Equal(t, []string{"u2", "u3"}, []string(agg.Images))
		assert.Equal(t, []bool{false, true}, []bool(agg.ImagesPrimary))
		assert.Empty(t, agg.Features)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found yields zero value", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectPrepare("SELECT rooms.id").ExpectQuery().WillReturnRows(sqlmock.NewRows(columns))

		agg, err := repo.GetAggregate(context.Background(), shared.FilterByID("missing", model.FieldID, model.TableName))

		require.NoError(t, err)
		assert.Empty(t, agg.ID)
	})

	t.Run("room type is inner joined", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectPrepare(q("FROM rooms JOIN room_types ON room_types.id = rooms.room_type_id")).
			ExpectQuery().WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetAggregate(context.Background(), shared.FilterByID("r1", model.FieldID, model.TableName))

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteAggregate(t *testing.T) {
	t.Run("removes associations images and room", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(queryLockRoom)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery(q(queryRoomHasBookings)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(q(queryDeleteRoomAmenities)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q(queryDeleteRoomFeatures)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM room_images").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM rooms").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteAggregate(context.Background(), "r1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booked room is a conflict", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(queryLockRoom)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery(q(queryRoomHasBookings)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.DeleteAggregate(context.Background(), "r1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
