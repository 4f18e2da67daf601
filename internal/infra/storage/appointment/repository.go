package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/dbmetrics"
	"github.com/QueueM/QueueMe-SchedulingService/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL, означающие нарушение уникальности слота
// 23505 - unique_violation, 23P01 - exclusion_violation (EXCLUDE USING gist
// на specialist_id + tstzrange занятого диапазона)
const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

var bookingColumns = []string{
	"id",
	"shop_id",
	"specialist_id",
	"customer_id",
	"service_id",
	"resource_id",
	"slot_start",
	"slot_end",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"status",
	"cancellation_reason",
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

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ExistingBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
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

// GetBySpecialistAndDate получает все бронирования специалиста на дату
// Возвращает и неактивные: фильтрация по статусу - ответственность
// вызывающей стороны (IsActive)
func (r *Repository) GetBySpecialistAndDate(ctx context.Context, specialistID int64, date time.Time) ([]*domain.ExistingBooking, error) {
	return r.listForDay(ctx, squirrel.Eq{"specialist_id": specialistID}, date, "GetBySpecialistAndDate")
}

// GetByResourceAndDate получает бронирования ресурса на дату по всем специалистам
func (r *Repository) GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.ExistingBooking, error) {
	return r.listForDay(ctx, squirrel.Eq{"resource_id": resourceID}, date, "GetByResourceAndDate")
}

func (r *Repository) listForDay(ctx context.Context, cond squirrel.Eq, date time.Time, method string) ([]*domain.ExistingBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(cond).
		Where(squirrel.GtOrEq{"slot_start": dayStart}).
		Where(squirrel.Lt{"slot_start": dayEnd}).
		OrderBy("slot_start ASC")

	// Внутри транзакции коммита блокируем строки дня: повторная проверка
	// конфликтов перед записью должна видеть стабильный снимок
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	var bookings []*domain.ExistingBooking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, method, err)
	}

	return bookings, nil
}

// CountActiveInWindow подсчитывает активные бронирования специалиста
// в окне [from, to). Используется для расчёта текущей загрузки -
// всегда свежий запрос, никакого кэшируемого мутабельного счётчика
func (r *Repository) CountActiveInWindow(ctx context.Context, specialistID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		Where(squirrel.GtOrEq{"slot_start": from}).
		Where(squirrel.Lt{"slot_start": to}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveInWindow - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveInWindow - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Create сохраняет подтвержденное бронирование
// Нарушение ограничения уникальности specialist+timerange транслируется
// в ErrSlotTaken: для планировщика это конфликт специалиста, а не сбой
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.ExistingBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"shop_id",
			"specialist_id",
			"customer_id",
			"service_id",
			"resource_id",
			"slot_start",
			"slot_end",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"status",
		).
		Values(
			appt.ShopID,
			appt.SpecialistID,
			appt.CustomerID,
			appt.ServiceID,
			appt.ResourceID,
			appt.Slot.Start,
			appt.Slot.End,
			int(appt.Slot.Start.Sub(appt.BufferedRange.Start)/time.Minute),
			int(appt.BufferedRange.End.Sub(appt.Slot.End)/time.Minute),
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := &domain.ExistingBooking{
		ShopID:              appt.ShopID,
		SpecialistID:        appt.SpecialistID,
		CustomerID:          appt.CustomerID,
		ServiceID:           appt.ServiceID,
		ResourceID:          appt.ResourceID,
		Slot:                appt.Slot,
		BufferBeforeMinutes: int(appt.Slot.Start.Sub(appt.BufferedRange.Start) / time.Minute),
		BufferAfterMinutes:  int(appt.BufferedRange.End.Sub(appt.Slot.End) / time.Minute),
		Status:              appt.Status,
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&created.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isSlotTaken(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time

	return created, nil
}

// MarkRescheduled помечает старое бронирование как перенесенное
// Вызывается внутри той же сериализуемой транзакции, что и Create
// нового бронирования - атомарная замена слота
func (r *Repository) MarkRescheduled(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRescheduled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// MarkCancelled помечает бронирование отмененным и сохраняет причину
func (r *Repository) MarkCancelled(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// isSlotTaken проверяет, что ошибка - нарушение уникальности слота
func isSlotTaken(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation || pqErr.Code == pqExclusionViolation
	}
	return false
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.ExistingBooking, error) {
	var booking domain.ExistingBooking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ShopID,
		&booking.SpecialistID,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.ResourceID,
		&booking.Slot.Start,
		&booking.Slot.End,
		&booking.BufferBeforeMinutes,
		&booking.BufferAfterMinutes,
		&booking.Status,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
