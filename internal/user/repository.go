package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// Create also creates the empty profile of a professional account, atomically.
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	UpdateProfile(ctx context.Context, u *User) error
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

var userColumns = []string{
	"id", "email", "password_hash", "name", "phone", "role::text", "created_at", "last_login_at",
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var u User
	dest := []any{
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt, &u.LastLoginAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxUserRepository) getBy(ctx context.Context, column string, value string) (*User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(userColumns...).
		From("public.users").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s failed: %w", column, err)
	}
	return u, nil
}

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, "id", id)
}

// Create inserts u. A professional account gets its empty profile row in the
// same transaction, so a failed profile insert leaves no account behind.
func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const insertUser = `
		INSERT INTO public.users (email, password_hash, name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	const insertProfile = `
		INSERT INTO public.professionals (user_id)
		VALUES ($1)
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			insertUser,
			u.Email,
			u.PasswordHash,
			u.Name,
			u.Phone,
			string(u.Role),
		).Scan(&u.ID, &u.CreatedAt); err != nil {
			var e *pgconn.PgError
			if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
				return ErrEmailAlreadyUsed
			}
			return fmt.Errorf("create user failed: %w", err)
		}

		if u.Role == auth.RoleProfessional {
			if _, err := tx.Exec(ctx, insertProfile, u.ID); err != nil {
				return fmt.Errorf("create professional profile failed: %w", err)
			}
		}
		return nil
	})
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.users
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxUserRepository) UpdateProfile(ctx context.Context, u *User) error {
	const query = `
		UPDATE public.users
		SET name = $1, phone = $2
		WHERE id = $3
	`

	ct, err := r.pool.Exec(ctx, query, u.Name, u.Phone, u.ID)
	if err != nil {
		return fmt.Errorf("update user profile failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxUserRepository) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(userColumns, "count(*) OVER() AS total_count")...).
		From("public.users")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": string(filter.Role)})
	}
	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users failed: %w", err)
	}

	return users, total, nil
}

func (r *pgxUserRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT role::text, count(*) FROM public.users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count failed: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
