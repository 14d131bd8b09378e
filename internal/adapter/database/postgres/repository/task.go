package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/pkg/tracing"
)

const taskColumns = "id, uuid, title, description, status, priority, due_date, created_at, updated_at, deleted_at"

type TaskRepository struct {
	db *postgres.DB
}

func NewTaskRepository(db *postgres.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

// translateError reclassifies pgx failures into domain errors. Check
// violations carry the constraint name they tripped.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTaskNotFound
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		switch pgErr.ConstraintName {
		case "tasks_title_length":
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "title", Message: "title must be at least 3 characters", Type: "min"},
			}, err)
		case "tasks_status_enum":
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "status", Message: "status must be one of: todo, doing, done", Type: "enum"},
			}, err)
		case "tasks_priority_enum":
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "priority", Message: "priority must be one of: low, medium, high", Type: "enum"},
			}, err)
		}
	}

	return err
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var status, priority string

	err := row.Scan(&task.ID, &task.UUID, &task.Title, &task.Description, &status, &priority,
		&task.DueDate, &task.CreatedAt, &task.UpdatedAt, &task.DeletedAt)

	if err != nil {
		return domain.Task{}, err
	}

	task.Status = domain.Status(status)
	task.Priority = domain.Priority(priority)

	return task, nil
}

func (tr *TaskRepository) applyFilter(builder sq.SelectBuilder, filter domain.TaskFilter) sq.SelectBuilder {
	builder = builder.Where("deleted_at IS NULL")

	if filter.Query != "" {
		builder = builder.Where("title ILIKE ?", "%"+filter.Query+"%")
	}

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}

	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": string(filter.Priority)})
	}

	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"due_date": *filter.From})
	}

	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"due_date": *filter.To})
	}

	return builder
}

func (tr *TaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.task.List", []attribute.KeyValue{
		attribute.String("db.table", "tasks"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("pagination.page", filter.Page),
		attribute.Int("pagination.limit", filter.Limit),
	})
	defer span.End()

	type countResult struct {
		total int
		err   error
	}

	countCh := make(chan countResult, 1)

	go func() {
		countSQL, countArgs, err := tr.applyFilter(tr.db.QueryBuilder.Select("COUNT(*)").From("tasks"), filter).ToSql()

		if err != nil {
			countCh <- countResult{err: err}
			return
		}

		var total int
		err = tr.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total)
		countCh <- countResult{total: total, err: err}
	}()

	pageSQL, pageArgs, err := tr.applyFilter(tr.db.QueryBuilder.Select(taskColumns).From("tasks"), filter).
		OrderBy("due_date DESC NULLS LAST", "created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset()).
		ToSql()

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	rows, err := tr.db.Query(ctx, pageSQL, pageArgs...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	defer rows.Close()

	tasks := make([]domain.Task, 0, filter.Limit)

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			tracing.AddSpanError(span, err)
			return nil, 0, err
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	count := <-countCh

	if count.err != nil {
		tracing.AddSpanError(span, count.err)
		return nil, 0, count.err
	}

	tracing.AddSpanAttributes(span, []attribute.KeyValue{
		attribute.Int("db.rows_returned", len(tasks)),
		attribute.Int("db.total_count", count.total),
	})

	return tasks, count.total, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid uuid.UUID) (domain.Task, error) {
	querySQL, args, err := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	var task domain.Task

	err = tracing.DatabaseSpanWrapper(ctx, "tasks", "select_one", querySQL, func(ctx context.Context) error {
		var scanErr error
		task, scanErr = scanTask(tr.db.QueryRow(ctx, querySQL, args...))
		return translateError(scanErr)
	})

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	querySQL, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "title", "description", "status", "priority", "due_date", "created_at", "updated_at").
		Values(task.UUID, task.Title, task.Description, string(task.Status), string(task.Priority), task.DueDate, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + taskColumns).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	var saved domain.Task

	err = tracing.DatabaseSpanWrapper(ctx, "tasks", "insert", querySQL, func(ctx context.Context) error {
		var scanErr error
		saved, scanErr = scanTask(tr.db.QueryRow(ctx, querySQL, args...))
		return translateError(scanErr)
	})

	if err != nil {
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) UpdateByUUID(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error) {
	current, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Task{}, err
	}

	if patch.IsEmpty() {
		return current, nil
	}

	patch.Apply(&current)

	querySQL, args, err := tr.db.QueryBuilder.Update("tasks").
		SetMap(current.ToMap()).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + taskColumns).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	var updated domain.Task

	err = tracing.DatabaseSpanWrapper(ctx, "tasks", "update", querySQL, func(ctx context.Context) error {
		var scanErr error
		updated, scanErr = scanTask(tr.db.QueryRow(ctx, querySQL, args...))
		return translateError(scanErr)
	})

	if err != nil {
		return domain.Task{}, err
	}

	return updated, nil
}

func (tr *TaskRepository) SoftDeleteByUUID(ctx context.Context, uid uuid.UUID) error {
	now := time.Now()

	querySQL, args, err := tr.db.QueryBuilder.Update("tasks").
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return err
	}

	return tracing.DatabaseSpanWrapper(ctx, "tasks", "soft_delete", querySQL, func(ctx context.Context) error {
		tag, err := tr.db.Exec(ctx, querySQL, args...)

		if err != nil {
			return translateError(err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrTaskNotFound
		}

		return nil
	})
}
