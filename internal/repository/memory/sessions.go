package memory

import (
	"context"
	"sort"
	"time"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, session *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.sessions[session.ID]; exists {
		return repository.ErrDuplicate
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.s.now()
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionRepo) Get(_ context.Context, id string) (models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrNotFound
	}
	return session, nil
}

func (r sessionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, id)
	return nil
}

func (r sessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	for id, session := range r.s.sessions {
		if session.Expired(now) {
			delete(r.s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.activity.nextID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now()
	}
	r.s.activity.rows[entry.ID] = *entry
	return nil
}

func (r activityRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]models.ActivityLog, 0)
	for _, entry := range r.s.activity.ordered() {
		if filter.ActorID != nil && entry.ActorID != *filter.ActorID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && entry.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != nil && (entry.EntityID == nil || *entry.EntityID != *filter.EntityID) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(matched) {
			return []models.ActivityLog{}, total, nil
		}
		end := min(start+filter.PageSize, len(matched))
		matched = matched[start:end]
	}
	return matched, total, nil
}
