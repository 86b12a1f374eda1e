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

type TodoRepository struct {
	db      *database.DB
	scanner *database.Scanner
}

func NewTodoRepository(db *database.DB) port.TodoRepository {
	return &TodoRepository{
		db:      db,
		scanner: database.NewScanner(),
	}
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Select("*").
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return domain.Todo{}, err
	}

	defer rows.Close()

	var todo domain.Todo
	err = tr.scanner.ScanRowToStruct(rows, &todo)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

// GetAll returns every row ordered by descending id, matching the board's
// newest-first rendering.
func (tr *TodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.todo.GetAll", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
	})
	defer span.End()

	query := tr.db.QueryBuilder.Select("*").
		From("todos").
		OrderBy("id DESC")

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, err
	}

	defer rows.Close()

	var todos []domain.Todo
	if err := tr.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(todos)))

	return todos, nil
}

// GetAllWithCursor pages through the same ordering as GetAll. afterID 0 means
// start from the newest row. The extra fetched row signals another page.
func (tr *TodoRepository) GetAllWithCursor(ctx context.Context, limit int, afterID int) ([]domain.Todo, bool, error) {
	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select("*").
		From("todos").
		OrderBy("id DESC").
		Limit(uint64(actualLimit))

	if afterID > 0 {
		query = query.Where(sq.Lt{"id": afterID})
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return nil, false, err
	}

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return nil, false, err
	}

	defer rows.Close()

	var todos []domain.Todo
	if err := tr.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		return nil, false, err
	}

	hasNext := len(todos) == actualLimit
	if hasNext {
		todos = todos[:limit]
	}

	return todos, hasNext, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.todo.Create", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "INSERT"),
		attribute.Int("user.id", todo.CreatedBy),
	})
	defer span.End()

	now := time.Now()

	query := tr.db.QueryBuilder.Insert("todos").
		Columns("title", "description", "status", "created_by", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Status.String(), todo.CreatedBy, now, now).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()

	if err != nil {
		slog.Error("Error building todo insert", "error", err)
		return domain.Todo{}, err
	}

	var id int
	if err := tr.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error creating todo", "error", err, "title", todo.Title)
		return domain.Todo{}, err
	}

	return tr.GetByID(ctx, id)
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.todo.Update", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "UPDATE"),
		attribute.Int("todo.id", todo.ID),
	})
	defer span.End()

	query := tr.db.QueryBuilder.Update("todos").
		Set("title", todo.Title).
		Set("description", todo.Description).
		Set("status", todo.Status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": todo.ID})

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	result, err := tr.db.ExecContext(ctx, sqlStr, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return domain.Todo{}, err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return domain.Todo{}, sql.ErrNoRows
	}

	return tr.GetByID(ctx, todo.ID)
}

func (tr *TodoRepository) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.CreateChildSpan(ctx, "repository.todo.Delete", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "DELETE"),
		attribute.Int("todo.id", id),
	})
	defer span.End()

	query := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, sqlStr, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
