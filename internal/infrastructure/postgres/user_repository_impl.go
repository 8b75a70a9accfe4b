package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/internal/domain/repository"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, password_hash, role, active, email_verified, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		id, firstName, lastName, email, passwordHash, role string
		active, emailVerified                              bool
		lastLoginAt                                        *time.Time
		createdAt, updatedAt                               time.Time
	)
	if err := row.Scan(&id, &firstName, &lastName, &email, &passwordHash, &role, &active, &emailVerified, &lastLoginAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	addr, err := valueobject.NewEmailAddress(email)
	if err != nil {
		return nil, err
	}
	pwd, err := valueobject.NewHashedPassword(passwordHash)
	if err != nil {
		return nil, err
	}
	r, err := valueobject.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         addr,
		Password:      pwd,
		Role:          r,
		Active:        active,
		EmailVerified: emailVerified,
		LastLoginAt:   lastLoginAt,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, active, email_verified, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.FirstName, u.LastName, u.Email.Value(), u.Password.Hash(), u.Role.String(), u.Active, u.EmailVerified, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4, role = $5,
		    active = $6, email_verified = $7, last_login_at = $8, updated_at = $9
		WHERE id = $10
	`, u.FirstName, u.LastName, u.Email.Value(), u.Password.Hash(), u.Role.String(), u.Active, u.EmailVerified, u.LastLoginAt, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepository) List(page, pageSize int) ([]*entity.User, error) {
	ctx := context.Background()
	offset := (page - 1) * pageSize
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count() (int64, error) {
	ctx := context.Background()
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) Delete(id string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
