package professional

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	SetVerified(ctx context.Context, userID string, verified bool) error
	List(ctx context.Context, filter Filter) ([]*Profile, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var profileColumns = []string{
	"p.user_id", "u.name", "u.email", "u.phone", "p.service_categories", "p.availability",
	"p.verified", "p.rating", "p.total_reviews", "p.created_at",
}

func scanProfile(row pgx.Row, extra ...any) (*Profile, error) {
	var p Profile
	dest := []any{
		&p.UserID, &p.Name, &p.Email, &p.Phone, &p.ServiceCategories, &p.Availability,
		&p.Verified, &p.Rating, &p.TotalReviews, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if p.ServiceCategories == nil {
		p.ServiceCategories = []string{}
	}
	if p.Availability == nil {
		p.Availability = map[string]any{}
	}
	return &p, nil
}

func (r *pgxRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(profileColumns...).
		From("public.professionals p").
		Join("public.users u ON u.id = p.user_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get professional query failed: %w", err)
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get professional failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Profile) error {
	const query = `
		UPDATE public.professionals
		SET service_categories = $1, availability = $2
		WHERE user_id = $3
	`
	ct, err := r.pool.Exec(ctx, query, p.ServiceCategories, p.Availability, p.UserID)
	if err != nil {
		return fmt.Errorf("update professional profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetVerified(ctx context.Context, userID string, verified bool) error {
	const query = `
		UPDATE public.professionals
		SET verified = $1
		WHERE user_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, verified, userID)
	if err != nil {
		return fmt.Errorf("set professional verified failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Profile, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(append(profileColumns, "count(*) OVER() AS total_count")...).
		From("public.professionals p").
		Join("public.users u ON u.id = p.user_id")

	if filter.Verified != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"p.verified": *filter.Verified})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := queryBuilder.
		OrderBy("p.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list professionals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list professionals failed: %w", err)
	}
	defer rows.Close()

	var items []*Profile
	var total int
	for rows.Next() {
		p, err := scanProfile(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan professional failed: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate professionals failed: %w", err)
	}
	return items, total, nil
}
