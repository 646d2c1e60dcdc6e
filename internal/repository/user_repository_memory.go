package repository

import (
	"context"
	"sync"
	"time"

	"github.com/therealadik/cashcards-api/internal/models"
)

type UserRepositoryMemory struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	nextID int64
}

func NewUserRepositoryMemory() *UserRepositoryMemory {
	return &UserRepositoryMemory{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

func (r *UserRepositoryMemory) Create(ctx context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Login]; exists {
		return 0, ErrUserExists
	}

	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.nextID++

	r.users[stored.Login] = &stored

	return stored.ID, nil
}

func (r *UserRepositoryMemory) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[login]
	if !exists {
		return nil, ErrUserNotFound
	}

	found := *user
	return &found, nil
}
