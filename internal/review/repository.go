package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateAndAggregate inserts rv and recomputes the professional's rating
	// from every review they have, in one transaction.
	CreateAndAggregate(ctx context.Context, rv *Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*Review, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateAndAggregate(ctx context.Context, rv *Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes concurrent recomputes for one professional.
	var locked string
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM public.professionals WHERE user_id = $1 FOR UPDATE`,
		rv.ProfessionalID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProfessionalAbsent
		}
		return fmt.Errorf("lock professional failed: %w", err)
	}

	const insert = `
		INSERT INTO public.reviews (booking_id, customer_id, customer_name, professional_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insert,
		rv.BookingID, rv.CustomerID, rv.CustomerName, rv.ProfessionalID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review failed: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT rating::int FROM public.reviews WHERE professional_id = $1`, rv.ProfessionalID)
	if err != nil {
		return fmt.Errorf("load ratings failed: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("scan ratings failed: %w", err)
	}

	mean, count := Aggregate(ratings)
	if _, err := tx.Exec(ctx,
		`UPDATE public.professionals SET rating = $1, total_reviews = $2 WHERE user_id = $3`,
		mean, count, rv.ProfessionalID,
	); err != nil {
		return fmt.Errorf("update professional rating failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM public.reviews WHERE booking_id = $1)`, bookingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Review, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"id", "booking_id", "customer_id", "customer_name", "professional_id",
		"rating::int", "comment", "created_at", "count(*) OVER() AS total_count",
	).From("public.reviews")

	if filter.ProfessionalID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"professional_id": filter.ProfessionalID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := queryBuilder.
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reviews query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var items []*Review
	var total int
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.BookingID, &rv.CustomerID, &rv.CustomerName, &rv.ProfessionalID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review failed: %w", err)
		}
		items = append(items, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reviews failed: %w", err)
	}
	return items, total, nil
}
