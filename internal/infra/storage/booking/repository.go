package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"tenant_id",
	"session_type_id",
	"customer_id",
	"start_ms",
	"end_ms",
	"participants",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается из резервирования внутри SERIALIZABLE транзакции, после проверки доступности
// слота в той же транзакции, поэтому вставка и проверка атомарны
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"tenant_id",
			"session_type_id",
			"customer_id",
			"start_ms",
			"end_ms",
			"participants",
			"status",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ID,
			booking.TenantID,
			booking.SessionTypeID,
			booking.CustomerID,
			int64(booking.Interval.Start),
			int64(booking.Interval.End),
			booking.Seats(),
			booking.Status,
			booking.Notes,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListActiveOverlapping возвращает активные (PENDING_PAYMENT, CONFIRMED) бронирования тенанта,
// пересекающиеся с интервалом фильтра
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы параллельное резервирование
// того же слота дождалось коммита
func (r *Repository) ListActiveOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"tenant_id": filter.TenantID,
			"status":    statusStrings(domain.ActiveStatuses),
		}).
		Where(squirrel.Lt{"start_ms": int64(filter.Interval.End)}).
		Where(squirrel.Gt{"end_ms": int64(filter.Interval.Start)}).
		OrderBy("start_ms ASC")

	// Фильтрация по типу сессии (если указан)
	if filter.SessionTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"session_type_id": *filter.SessionTypeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByTenant возвращает бронирования тенанта по фильтру, упорядоченные по start_ms
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error) {
	return r.list(ctx, "ListByTenant", squirrel.Eq{"tenant_id": tenantID}, filter)
}

// ListByCustomer возвращает бронирования клиента по фильтру, упорядоченные по start_ms
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error) {
	return r.list(ctx, "ListByCustomer", squirrel.Eq{"customer_id": customerID}, filter)
}

func (r *Repository) list(ctx context.Context, op string, owner squirrel.Eq, filter domain.ListFilter) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(owner).
		OrderBy("start_ms ASC", "created_at ASC")

	if statuses := filter.Statuses(); statuses != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}
	if filter.EndsAfter != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_ms": int64(*filter.EndsAfter)})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListStalePending возвращает PENDING_PAYMENT бронирования, созданные раньше createdBefore
// Самые старые идут первыми, limit <= 0 означает без ограничения
func (r *Repository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(domain.StatusPendingPayment)}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// TransitionStatus условно меняет статус: обновление применяется, только если бронирование
// все еще находится в статусе change.From. Возвращает обновленное бронирование
// ErrStatusConflict - статус уже изменился, ErrBookingNotFound - бронирования нет
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", change.To).
		Set("updated_at", change.At).
		Where(squirrel.Eq{"id": id, "status": change.From})

	if change.To == domain.StatusCancelled {
		updateBuilder = updateBuilder.
			Set("cancellation_reason", change.Reason).
			Set("cancelled_by", change.By).
			Set("cancelled_at", change.At)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Различаем "нет такого бронирования" и "статус уже другой"
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var start, end int64
	var status string
	var notes, cancellationReason sql.NullString
	var cancelledBy uuid.NullUUID
	var cancelledAt, createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.SessionTypeID,
		&booking.CustomerID,
		&start,
		&end,
		&booking.Participants,
		&status,
		&notes,
		&cancellationReason,
		&cancelledBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	booking.Interval = domain.Interval{Start: domain.Instant(start), End: domain.Instant(end)}
	booking.Status = domain.BookingStatus(status)
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}
	if cancelledBy.Valid {
		booking.CancelledBy = &cancelledBy.UUID
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
