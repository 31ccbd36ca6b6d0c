package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/shopspring/decimal"
)

type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewUserRepositoryImpl(db *pgxpool.Pool) repositories.UserRepository {
	return &UserRepositoryImpl{
		db: db,
	}
}

func (r *UserRepositoryImpl) Insert(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, first_name, last_name, phone_number, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		user.Email, user.FirstName, user.LastName, user.PhoneNumber, user.PasswordHash,
	).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == repositories.UniqueViolationError {
			return apperrors.NewValidationError("email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx,
		`SELECT email, first_name, last_name, phone_number, password_hash, total_spent, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.Email, &user.FirstName, &user.LastName, &user.PhoneNumber,
		&user.PasswordHash, &user.TotalSpent, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func (r *UserRepositoryImpl) AddSpend(ctx context.Context, email string, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET total_spent = total_spent + $1::NUMERIC(12,2) WHERE email = $2",
		amount, email,
	)
	if err != nil {
		return fmt.Errorf("add spend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user")
	}
	return nil
}
