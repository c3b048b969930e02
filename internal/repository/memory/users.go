package memory

import (
	"context"
	"strings"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users.rows {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	now := r.s.now()
	user.ID = r.s.users.nextID()
	if user.Role == "" {
		user.Role = "security"
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users.rows[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users.rows[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	username = strings.TrimSpace(username)
	for _, user := range r.s.users.rows {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.ordered(), nil
}

func (r userRepo) Update(_ context.Context, id uint, update repository.UserUpdate) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users.rows[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}

	assign(&user.Name, update.Name)
	assign(&user.Email, update.Email)
	assign(&user.Role, update.Role)
	assignOptional(&user.DocumentPath, update.DocumentPath)
	assignOptional(&user.DocumentType, update.DocumentType)
	if update.DocumentVerified != nil {
		user.DocumentVerified = *update.DocumentVerified
	}
	user.UpdatedAt = r.s.now()

	r.s.users.rows[id] = user
	return user, nil
}

func (r userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users.rows, id)
	return nil
}

func (r userRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users.rows)), nil
}
