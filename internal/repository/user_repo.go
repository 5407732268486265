package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"salary-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User, accountTypeID int64) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, accountTypeID int64) error
	VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error
	FindAccountTypeID(ctx context.Context, label string) (int64, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const selectUser = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, COALESCE(t.label, ''),
	       u.status, u.location, u.email_verified_at, u.created_at
	FROM users u
	LEFT JOIN account_types t ON u.account_type_id = t.id
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User, accountTypeID int64) error {
	const query = `
		INSERT INTO users (id, first_name, last_name, email, password_hash, status, location, account_type_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Status,
		user.Location,
		accountTypeID,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, selectUser+" WHERE u.id = $1", id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, selectUser+" WHERE u.email = $1", email)
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.Location,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id, firstName, lastName string) error {
	const query = `UPDATE users SET first_name = $2, last_name = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, firstName, lastName)
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, passwordHash)
}

func (r *PgUserRepository) UpdateRole(ctx context.Context, id string, accountTypeID int64) error {
	const query = `UPDATE users SET account_type_id = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, accountTypeID)
}

func (r *PgUserRepository) VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error {
	const query = `UPDATE users SET email_verified_at = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, verifiedAt)
}

func (r *PgUserRepository) FindAccountTypeID(ctx context.Context, label string) (int64, error) {
	const query = `SELECT id FROM account_types WHERE label = $1`
	var id int64
	if err := r.pool.QueryRow(ctx, query, label).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execOne ejecuta un UPDATE y devuelve pgx.ErrNoRows si no afecto filas.
func (r *PgUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IsUniqueViolation detecta errores de restriccion UNIQUE de Postgres.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
