package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
)

// InMemoryUserRepository is an in-memory implementation of UserRepository.
type InMemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

var _ UserRepository = (*InMemoryUserRepository)(nil)

// NewInMemoryUserRepository creates a new instance of InMemoryUserRepository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user. Usernames and emails are unique.
func (r *InMemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("%w: %s", models.ErrAccountExists, user.Username)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, username, func(u models.User) bool { return u.Username == username })
}

// GetByEmail returns a user by email.
func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, email, func(u models.User) bool { return u.Email == email })
}

// GetByID returns a user by ID.
func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, id, func(u models.User) bool { return u.ID == id })
}

func (r *InMemoryUserRepository) find(ctx context.Context, key string, match func(models.User) bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, models.NewNotFoundError("user", key)
}
