package repository

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"inap/infras/otel/mocks"
	"inap/infras/postgres"
	"inap/internal/domains/masterdata/model"
	"inap/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, kind model.Kind) (*repositoryImpl, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")

	repo, ok := New(kind, &postgres.Connection{Read: db, Write: db}, mocks.NewOtel()).(*repositoryImpl)
	require.True(t, ok)

	return repo, mock
}

func TestBuildQueries(t *testing.T) {
	q := buildQueries(model.RoomType)

	assert.Equal(t, "SELECT id, type AS label, created_at, modified_at, created_by, modified_by FROM room_types WHERE id = :id", q.selectOne)
	assert.Contains(t, q.selectAll, "ORDER BY LENGTH(id), id")
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM rooms WHERE room_type_id = $1)", q.referenced)

	q = buildQueries(model.Amenity)

	assert.Contains(t, q.insert, "INSERT INTO amenities (id, name,")
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM room_amenities WHERE amenity_id = $1)", q.referenced)
}

func TestRepository_ListIDs(t *testing.T) {
	repo, mock := newTestRepository(t, model.RoomType)

	mock.ExpectQuery(regexp.QuoteMeta(repo.queries.listIDs)).WithArgs("Tp-%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("Tp-1").AddRow("Tp-9").AddRow("Tp-10"))

	ids, err := repo.ListIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Tp-1", "Tp-9", "Tp-10"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert(t *testing.T) {
	item := model.Item{ID: "Am-4", Label: "Wifi"}
	item.CreatedAt = time.Now()
	item.ModifiedAt = item.CreatedAt

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		repo, mock := newTestRepository(t, model.Amenity)

		mock.ExpectExec("INSERT INTO amenities").WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Insert(context.Background(), item)

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("other errors are internal", func(t *testing.T) {
		repo, mock := newTestRepository(t, model.Amenity)

		mock.ExpectExec("INSERT INTO amenities").WillReturnError(sqlmock.ErrCancelled)

		err := repo.Insert(context.Background(), item)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRepository_UpdateLabel(t *testing.T) {
	repo, mock := newTestRepository(t, model.Feature)

	mock.ExpectExec("UPDATE features SET name").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLabel(context.Background(), model.Item{ID: "Ft-99", Label: "Balcony"})

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRepository_Delete(t *testing.T) {
	t.Run("referenced row is kept", func(t *testing.T) {
		repo, mock := newTestRepository(t, model.RoomType)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repo.queries.referenced)).WithArgs("Tp-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "Tp-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		repo, mock := newTestRepository(t, model.RoomType)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repo.queries.referenced)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(repo.queries.delete)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "Tp-404")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newTestRepository(t, model.Feature)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repo.queries.referenced)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(repo.queries.delete)).WithArgs("Ft-2").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), "Ft-2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
