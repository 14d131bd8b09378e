package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

type TaskRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry,
	}
}

// translateError reclassifies storage failures into domain errors. Named
// CHECK constraints map back onto the fields they guard.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTaskNotFound
	}

	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		msg := sqliteErr.Error()

		switch {
		case strings.Contains(msg, "tasks_title_length"):
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "title", Message: "title must be at least 3 characters", Type: "min"},
			}, err)
		case strings.Contains(msg, "tasks_status_enum"):
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "status", Message: "status must be one of: todo, doing, done", Type: "enum"},
			}, err)
		case strings.Contains(msg, "tasks_priority_enum"):
			return domain.NewModelValidationError([]domain.FieldError{
				{Path: "priority", Message: "priority must be one of: low, medium, high", Type: "enum"},
			}, err)
		}
	}

	return err
}

func (tr *TaskRepository) applyFilter(builder sq.SelectBuilder, filter domain.TaskFilter) sq.SelectBuilder {
	builder = builder.Where("deleted_at IS NULL")

	if filter.Query != "" {
		builder = builder.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
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
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "task", map[string]interface{}{
		"db.system":        "sqlite",
		"db.table":         "tasks",
		"pagination.page":  filter.Page,
		"pagination.limit": filter.Limit,
	})
	defer span.End()

	startTime := time.Now()

	type countResult struct {
		total int
		err   error
	}

	// The count runs alongside the page query; the two are not transactional
	// with each other.
	countCh := make(chan countResult, 1)

	go func() {
		countQuery := tr.applyFilter(tr.db.QueryBuilder.Select("COUNT(*)").From("tasks"), filter)

		countSQL, countArgs, err := countQuery.ToSql()

		if err != nil {
			countCh <- countResult{err: err}
			return
		}

		var total int
		err = tr.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total)
		countCh <- countResult{total: total, err: err}
	}()

	pageQuery := tr.applyFilter(tr.db.QueryBuilder.Select("*").From("tasks"), filter).
		OrderBy("due_date IS NULL", "due_date DESC", "created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset())

	pageSQL, pageArgs, err := pageQuery.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return nil, 0, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "List", "task", pageSQL, pageArgs)

	rows, err := tr.db.QueryContext(ctx, pageSQL, pageArgs...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
		return nil, 0, err
	}

	defer rows.Close()

	tasks := make([]domain.Task, 0, filter.Limit)

	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
		return nil, 0, err
	}

	count := <-countCh

	if count.err != nil {
		span.SetStatus("error", count.err.Error())
		span.RecordError(count.err)
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), count.err)
		return nil, 0, count.err
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(tasks),
		"db.total_count":   count.total,
	})
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), nil)

	return tasks, count.total, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid uuid.UUID) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"uuid": uid.String()}).
		Where("deleted_at IS NULL").
		Limit(1)

	querySQL, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	rows, err := tr.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return domain.Task{}, err
	}

	defer rows.Close()

	var task domain.Task

	if err := tr.scanner.ScanRowToStruct(rows, &task); err != nil {
		return domain.Task{}, translateError(err)
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "task", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"task.uuid":    task.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "title", "description", "status", "priority", "due_date", "created_at", "updated_at").
		Values(task.UUID.String(), task.Title, task.Description, string(task.Status), string(task.Priority), task.DueDate, task.CreatedAt, task.UpdatedAt).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "task", query, args)

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, translateError(err)
	}

	saved, err := tr.GetByUUID(ctx, task.UUID)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordBusinessEvent(ctx, "created", "task", saved.UUID.String(), map[string]interface{}{
		"title":    saved.Title,
		"status":   string(saved.Status),
		"priority": string(saved.Priority),
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), nil)

	return saved, nil
}

func (tr *TaskRepository) UpdateByUUID(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "task", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"task.uuid":    uid.String(),
	})
	defer span.End()

	startTime := time.Now()

	current, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	if patch.IsEmpty() {
		span.SetStatus("ok", "no fields to update")
		return current, nil
	}

	patch.Apply(&current)

	query, args, err := tr.db.QueryBuilder.Update("tasks").
		SetMap(current.ToMap()).
		Where(sq.Eq{"uuid": uid.String()}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "UpdateByUUID", "task", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, translateError(err)
	}

	rowsAffected, err := result.RowsAffected()

	if err == nil && rowsAffected == 0 {
		span.SetStatus("error", domain.ErrTaskNotFound.Error())
		return domain.Task{}, domain.ErrTaskNotFound
	}

	updated, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordBusinessEvent(ctx, "updated", "task", updated.UUID.String(), map[string]interface{}{
		"updated_at": updated.UpdatedAt,
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), nil)

	return updated, nil
}

func (tr *TaskRepository) SoftDeleteByUUID(ctx context.Context, uid uuid.UUID) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "SoftDeleteByUUID", "task", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"task.uuid":    uid.String(),
	})
	defer span.End()

	startTime := time.Now()
	now := time.Now()

	query, args, err := tr.db.QueryBuilder.Update("tasks").
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"uuid": uid.String()}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "SoftDeleteByUUID", "task", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "SoftDeleteByUUID", "task", time.Since(startTime), err)
		return err
	}

	rowsAffected, err := result.RowsAffected()

	if err == nil && rowsAffected == 0 {
		// Already deleted or never existed; callers see the same outcome.
		span.SetStatus("error", domain.ErrTaskNotFound.Error())
		return domain.ErrTaskNotFound
	}

	tr.telemetry.RecordBusinessEvent(ctx, "deleted", "task", uid.String(), map[string]interface{}{
		"deleted_at": now,
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "SoftDeleteByUUID", "task", time.Since(startTime), nil)

	return nil
}
