package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inap/infras/otel"
	"inap/infras/postgres"
	"inap/internal/domains/masterdata/model"
	"inap/shared/constant"
	"inap/shared/failure"
	"inap/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type MasterData interface {
	GetAll(ctx context.Context, search string) ([]model.Item, error)
	Get(ctx context.Context, id string) (model.Item, error)
	ListIDs(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, item model.Item) error
	UpdateLabel(ctx context.Context, item model.Item) error
	Delete(ctx context.Context, id string) error
}

type queries struct {
	selectAll  string
	selectOne  string
	listIDs    string
	insert     string
	update     string
	referenced string
	delete     string
}

type repositoryImpl struct {
	kind    model.Kind
	db      *postgres.Connection
	otel    otel.Otel
	queries queries
}

func New(kind model.Kind, db *postgres.Connection, otel otel.Otel) MasterData {
	return &repositoryImpl{
		kind:    kind,
		db:      db,
		otel:    otel,
		queries: buildQueries(kind),
	}
}

// buildQueries renders the statements for kind. Rows are ordered by identifier length
// first so that Tp-10 sorts after Tp-9.
func buildQueries(kind model.Kind) queries {
	selectColumns := fmt.Sprintf("SELECT id, %s AS label, created_at, modified_at, created_by, modified_by FROM %s", kind.LabelColumn, kind.Table)

	return queries{
		selectAll: selectColumns + fmt.Sprintf(" WHERE LOWER(%s) LIKE LOWER(:search) ORDER BY LENGTH(id), id", kind.LabelColumn),
		selectOne: selectColumns + " WHERE id = :id",
		listIDs:   fmt.Sprintf("SELECT id FROM %s WHERE id LIKE $1", kind.Table),
		insert: fmt.Sprintf("INSERT INTO %s (id, %s, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :label, :created_at, :modified_at, :created_by, :modified_by)", kind.Table, kind.LabelColumn),
		update:     fmt.Sprintf("UPDATE %s SET %s = :label, modified_at = :modified_at, modified_by = :modified_by WHERE id = :id", kind.Table, kind.LabelColumn),
		referenced: fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", kind.RefTable, kind.RefColumn),
		delete:     fmt.Sprintf("DELETE FROM %s WHERE id = $1", kind.Table),
	}
}

func (repo *repositoryImpl) scopeName(op string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.kind.Key, op)
}

func (repo *repositoryImpl) GetAll(ctx context.Context, search string) (res []model.Item, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("GetAll"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, repo.queries.selectAll)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, repo.queries.selectAll)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", repo.kind.Name, err)
	}
	defer prepare.Close()

	res = []model.Item{}

	if err = prepare.SelectContext(ctx, &res, map[string]any{"search": "%" + search + "%"}); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get data (%s): %w", repo.kind.Name, err)
	}

	return res, nil
}

// Get returns a zero Item when id does not exist.
func (repo *repositoryImpl) Get(ctx context.Context, id string) (res model.Item, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Get"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, repo.queries.selectOne)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to prepare statement (%s): %w", repo.kind.Name, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &res, map[string]any{model.FieldID: id})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get data (%s): %w", repo.kind.Name, err)
	}

	return res, nil
}

func (repo *repositoryImpl) ListIDs(ctx context.Context) (res []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("ListIDs"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	res = []string{}

	if err = repo.db.Write.SelectContext(ctx, &res, repo.queries.listIDs, repo.kind.Prefix+"-%"); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list ids (%s): %w", repo.kind.Name, err)
	}

	return res, nil
}

// Insert maps a duplicate identifier onto a conflict so the allocator can retry.
func (repo *repositoryImpl) Insert(ctx context.Context, item model.Item) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Insert"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = repo.db.Write.NamedExecContext(ctx, repo.queries.insert, item); err != nil {
		mapped := failure.FromPostgres(err, repo.kind.Name)
		if failure.IsConflict(mapped) {
			return mapped
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert data (%s): %w", repo.kind.Name, err)
	}

	return nil
}

func (repo *repositoryImpl) UpdateLabel(ctx context.Context, item model.Item) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("UpdateLabel"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	result, err := repo.db.Write.NamedExecContext(ctx, repo.queries.update, item)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", repo.kind.Name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update data (%s): %w", repo.kind.Name, err)
	}

	if affected == 0 {
		return failure.NotFound(repo.kind.Name + " not found")
	}

	return nil
}

// Delete refuses to remove a row that rooms still reference.
func (repo *repositoryImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Delete"))
	defer scope.End()
	defer scope.TraceIfError(&err)

	return postgres.WithTransaction(ctx, repo.db.Write, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		var referenced bool
		if err := tx.GetContext(ctx, &referenced, repo.queries.referenced, id); err != nil {
			return fmt.Errorf("failed to check %s references: %w", repo.kind.Name, err)
		}

		if referenced {
			return failure.Conflict(fmt.Sprintf("%s %s is used by a room", repo.kind.Name, id))
		}

		result, err := tx.ExecContext(ctx, repo.queries.delete, id)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeFkViolation {
				return failure.Conflict(fmt.Sprintf("%s %s is used by a room", repo.kind.Name, id))
			}

			return fmt.Errorf("failed to delete data (%s): %w", repo.kind.Name, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete data (%s): %w", repo.kind.Name, err)
		}

		if affected == 0 {
			return failure.NotFound(repo.kind.Name + " not found")
		}

		return nil
	})
}
