package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todoboard/internal/adapter/database"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/port"
	"todoboard/pkg/tracing"
)

type UserRepository struct {
	db      *database.DB
	scanner *database.Scanner
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{
		db:      db,
		scanner: database.NewScanner(),
	}
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	rows, err := ur.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	var user domain.User
	err = ur.scanner.ScanRowToStruct(rows, &user)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	rows, err := ur.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	var user domain.User
	err = ur.scanner.ScanRowToStruct(rows, &user)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.user.Create", []attribute.KeyValue{
		attribute.String("db.table", "users"),
		attribute.String("db.operation", "INSERT"),
	})
	defer span.End()

	now := time.Now()

	query := ur.db.QueryBuilder.Insert("users").
		Columns("full_name", "email", "password_hash", "token_version", "created_at", "updated_at").
		Values(user.FullName, user.Email, user.PasswordHash, user.TokenVersion, now, now).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()

	if err != nil {
		slog.Error("Error building user insert", "error", err)
		return domain.User{}, err
	}

	var id int
	if err := ur.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) UpdateTokenVersion(ctx context.Context, id int, version int) error {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.user.UpdateTokenVersion", []attribute.KeyValue{
		attribute.String("db.table", "users"),
		attribute.String("db.operation", "UPDATE"),
		attribute.Int("user.id", id),
	})
	defer span.End()

	query := ur.db.QueryBuilder.Update("users").
		Set("token_version", version).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, sqlStr, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error updating token version", "error", err, "user_id", id)
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
