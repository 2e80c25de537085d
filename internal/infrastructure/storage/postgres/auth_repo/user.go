// Package auth_repo provides the PostgreSQL store for users.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"municore/internal/core/apperror"
	"municore/internal/domain/auth"
	"municore/internal/infrastructure/storage/postgres"
)

const userTable = "users"

var userCols = postgres.ExtractDBColumns[auth.User]()

// UserRepo implements auth.Repository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

func (r *UserRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a user and reads the assigned identity back.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	data := postgres.StructToMap(user)
	insertData := make(map[string]any, len(userCols))
	for _, col := range userCols {
		if col == "id" {
			continue
		}
		if val, ok := data[col]; ok {
			insertData[col] = val
		}
	}

	q := r.builder().
		Insert(userTable).
		SetMap(insertData).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&user.ID); err != nil {
		return postgres.TranslateError(err, "user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username}, username)
}

func (r *UserRepo) getOne(ctx context.Context, cond squirrel.Sqlizer, key any) (*auth.User, error) {
	q := r.builder().
		Select(userCols...).
		From(userTable).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, postgres.TranslateError(err, "user")
	}
	return &user, nil
}

// Update persists login bookkeeping.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	data := postgres.StructToMap(user)
	setData := make(map[string]any, len(userCols))
	for _, col := range userCols {
		if col == "id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			setData[col] = val
		}
	}

	q := r.builder().
		Update(userTable).
		SetMap(setData).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": user.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "user")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID)
	}
	return nil
}
