package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, role, password_hash, telegram_id, created_at`

func scanUser(row rowScanner, user *entity.User) error {
	return row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Role,
		&user.PasswordHash, &user.TelegramID, &user.CreatedAt,
	)
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, name, role, password_hash, telegram_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.Role,
		user.PasswordHash, user.TelegramID,
	).Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return entity.ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id), &user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email), &user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, userID int64, role entity.UserRole) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return requireRowsAffected(result, entity.ErrUserNotFound)
}

func (r *userRepository) UpdateTelegramID(ctx context.Context, userID int64, telegramID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_id = $1 WHERE id = $2`, telegramID, userID)
	if err != nil {
		return fmt.Errorf("failed to update telegram id: %w", err)
	}
	return requireRowsAffected(result, entity.ErrUserNotFound)
}

func (r *userRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err := scanUser(rows, &user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
