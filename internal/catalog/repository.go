package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, filter Filter) ([]*Category, int, error)
	Update(ctx context.Context, c *Category) error
	SetIconPaths(ctx context.Context, id string, iconPath, thumbnailPath *string) error
	CountActive(ctx context.Context) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var categoryColumns = []string{
	"id", "name", "description", "price_range", "estimated_time", "icon",
	"icon_path", "thumbnail_path", "active", "created_at",
}

func scanCategory(row pgx.Row, extra ...any) (*Category, error) {
	var c Category
	dest := []any{
		&c.ID, &c.Name, &c.Description, &c.PriceRange, &c.EstimatedTime, &c.Icon,
		&c.IconPath, &c.ThumbnailPath, &c.Active, &c.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pgxRepository) Create(ctx context.Context, c *Category) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.service_categories").
		Columns("name", "description", "price_range", "estimated_time", "icon", "active").
		Values(c.Name, c.Description, c.PriceRange, c.EstimatedTime, c.Icon, c.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service category query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create service category failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(categoryColumns...).
		From("public.service_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service category query failed: %w", err)
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service category failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Category, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(append(categoryColumns, "count(*) OVER() AS total_count")...).
		From("public.service_categories")

	if !filter.IncludeInactive {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"active": true})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := queryBuilder.
		OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list service categories query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list service categories failed: %w", err)
	}
	defer rows.Close()

	var items []*Category
	var total int
	for rows.Next() {
		c, err := scanCategory(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service category failed: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate service categories failed: %w", err)
	}
	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Category) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.service_categories").
		Set("name", c.Name).
		Set("description", c.Description).
		Set("price_range", c.PriceRange).
		Set("estimated_time", c.EstimatedTime).
		Set("icon", c.Icon).
		Set("active", c.Active).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service category query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update service category failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetIconPaths(ctx context.Context, id string, iconPath, thumbnailPath *string) error {
	const query = `
		UPDATE public.service_categories
		SET icon_path = $1, thumbnail_path = $2
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, iconPath, thumbnailPath, id)
	if err != nil {
		return fmt.Errorf("set service category icon failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM public.service_categories WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active service categories failed: %w", err)
	}
	return n, nil
}
