package weeklyhours

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const table = "weekly_hours_rules"

var columns = []string{
	"id",
	"tenant_id",
	"day_of_week",
	"start_time",
	"end_time",
	"enabled",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного шаблона рабочих часов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant возвращает все правила тенанта (включая выключенные),
// отсортированные по дню недели и времени начала
func (r *Repository) GetByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.WeeklyHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// GetEnabledByDay возвращает включенные диапазоны тенанта на день недели
// Пустой результат означает, что в этот день тенант закрыт
func (r *Repository) GetEnabledByDay(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time", "end_time").
		From(table).
		Where(squirrel.Eq{
			"tenant_id":   tenantID,
			"day_of_week": int(day),
			"enabled":     true,
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEnabledByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEnabledByDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ranges := make([]domain.TimeRange, 0)
	for rows.Next() {
		var tr domain.TimeRange
		if err := rows.Scan(&tr.Start, &tr.End); err != nil {
			return nil, fmt.Errorf("%w: GetEnabledByDay - scan row: %v", ErrScanRow, err)
		}
		ranges = append(ranges, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetEnabledByDay - rows error: %v", ErrScanRow, err)
	}

	return ranges, nil
}

// ReplaceAll полностью заменяет шаблон тенанта: удаляет старые правила и вставляет новые
// Должен выполняться внутри транзакции (txmanager.Do), иначе частичная запись была бы видна
func (r *Repository) ReplaceAll(ctx context.Context, tenantID uuid.UUID, rules []domain.WeeklyHoursRule) ([]domain.WeeklyHoursRule, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrTransactionRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - execute delete: %w", ErrExecQuery, err)
	}

	if len(rules) == 0 {
		return []domain.WeeklyHoursRule{}, nil
	}

	insert := psqlbuilder.Insert(table).
		Columns("id", "tenant_id", "day_of_week", "start_time", "end_time", "enabled")

	for i := range rules {
		if rules[i].ID == uuid.Nil {
			rules[i].ID = uuid.New()
		}
		rules[i].TenantID = tenantID
		insert = insert.Values(
			rules[i].ID,
			tenantID,
			int(rules[i].DayOfWeek),
			rules[i].StartTime,
			rules[i].EndTime,
			rules[i].Enabled,
		)
	}

	insertQuery, insertArgs, err := insert.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// scanRules сканирует результаты запроса в слайс правил
func scanRules(rows *sql.Rows) ([]domain.WeeklyHoursRule, error) {
	rules := make([]domain.WeeklyHoursRule, 0)

	for rows.Next() {
		var rule domain.WeeklyHoursRule
		var day int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.TenantID,
			&day,
			&rule.StartTime,
			&rule.EndTime,
			&rule.Enabled,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.DayOfWeek = domain.DayOfWeek(day)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
