package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the booking store. Every write is a single statement; the
// status-changing writes are conditional on the source status so concurrent
// transitions on one booking cannot both succeed.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Accept assigns the professional if the booking is still pending.
	Accept(ctx context.Context, id, professionalID, professionalName string) (*Booking, error)
	// Reject cancels the booking if it is still pending.
	Reject(ctx context.Context, id string) (*Booking, error)
	// UpdateStatus moves the booking from -> to, failing with ErrInvalidTransition
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status, clearProfessional bool) (*Booking, error)

	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountCompletedForProfessional(ctx context.Context, professionalID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "customer_id", "customer_name", "customer_phone", "professional_id", "professional_name",
	"service_category_id", "service_name", "address", "scheduled_date", "scheduled_time",
	"status::text", "created_at", "updated_at",
}

var returningBooking = "RETURNING " + strings.Join(bookingColumns, ", ")

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.CustomerID, &b.CustomerName, &b.CustomerPhone, &b.ProfessionalID, &b.ProfessionalName,
		&b.ServiceCategoryID, &b.ServiceName, &b.Address, &b.ScheduledDate, &b.ScheduledTime,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"customer_id", "customer_name", "customer_phone",
			"service_category_id", "service_name", "address", "scheduled_date", "scheduled_time",
		).
		Values(
			b.CustomerID, b.CustomerName, b.CustomerPhone,
			b.ServiceCategoryID, b.ServiceName, b.Address, b.ScheduledDate, b.ScheduledTime,
		).
		Suffix("RETURNING id, status::text, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	b.ProfessionalID = nil
	b.ProfessionalName = nil
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings")

	if filter.CustomerID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.ProfessionalID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"professional_id": filter.ProfessionalID})
	}
	if filter.Status != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.CategoryIDs != nil {
		if len(filter.CategoryIDs) == 0 {
			return nil, 0, nil
		}
		queryBuilder = queryBuilder.Where(squirrel.Eq{"service_category_id": filter.CategoryIDs})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := queryBuilder.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var items []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return items, total, nil
}

func (r *pgxRepository) Accept(ctx context.Context, id, professionalID, professionalName string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(StatusAccepted)).
		Set("professional_id", professionalID).
		Set("professional_name", professionalName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(StatusPending)}).
		Suffix(returningBooking).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build accept booking query failed: %w", err)
	}
	return r.conditionalUpdate(ctx, id, query, args)
}

func (r *pgxRepository) Reject(ctx context.Context, id string) (*Booking, error) {
	return r.UpdateStatus(ctx, id, StatusPending, StatusCancelled, false)
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status, clearProfessional bool) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()"))
	if clearProfessional {
		update = update.Set("professional_id", nil).Set("professional_name", nil)
	}

	query, args, err := update.
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix(returningBooking).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update booking status query failed: %w", err)
	}
	return r.conditionalUpdate(ctx, id, query, args)
}

// conditionalUpdate runs a status-guarded UPDATE ... RETURNING. No row back means
// either the booking is gone or its status moved on.
func (r *pgxRepository) conditionalUpdate(ctx context.Context, id, query string, args []any) (*Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update booking failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check booking exists failed: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrInvalidTransition
}

func (r *pgxRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status::text, count(*) FROM public.bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count bookings by status failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int, len(Statuses))
	for rows.Next() {
		var s Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scan status count failed: %w", err)
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *pgxRepository) CountCompletedForProfessional(ctx context.Context, professionalID string) (int, error) {
	const query = `
		SELECT count(*) FROM public.bookings
		WHERE professional_id = $1 AND status = 'completed'
	`
	var n int
	if err := r.pool.QueryRow(ctx, query, professionalID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count completed bookings failed: %w", err)
	}
	return n, nil
}
