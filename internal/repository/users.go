package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
)

const userColumns = `id, username, password_hash, role, warehouse_id`

// UserRepo represents user repository.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.WarehouseID); err != nil {
		return nil, err
	}
	return &u, nil
}

// Get - returns user by its ID.
func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername - returns user by its login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

// Create - creates a new user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO users(username, password_hash, role, warehouse_id) VALUES($1, $2, $3, $4) RETURNING id`,
		u.Username, u.PasswordHash, string(u.Role), u.WarehouseID).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.New(apperr.ErrConflict, apperr.ReasonAlreadyExists)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}
