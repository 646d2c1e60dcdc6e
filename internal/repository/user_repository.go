package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/therealadik/cashcards-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("пользователь не найден")
	ErrUserExists   = errors.New("пользователь уже существует")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

type UserRepositoryPgx struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryPgx{pool: pool}
}

func (r *UserRepositoryPgx) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (login, password_hash, role)
         VALUES ($1, $2, $3)
         RETURNING id`,
		user.Login, user.Password, user.Role).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, err
	}

	return id, nil
}

func (r *UserRepositoryPgx) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, role, created_at
         FROM users
         WHERE login = $1`,
		login).Scan(&user.ID, &user.Login, &user.Password, &user.Role, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
