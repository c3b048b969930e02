package memory

import (
	"context"
	"sort"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type cameraRepo struct{ s *Store }

func (r cameraRepo) Create(_ context.Context, camera *models.CctvCamera) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	camera.ID = r.s.cameras.nextID()
	if camera.Status == "" {
		camera.Status = models.CameraStatusActive
	}
	camera.CreatedAt = r.s.now()
	r.s.cameras.rows[camera.ID] = *camera
	return nil
}

func (r cameraRepo) GetByID(_ context.Context, id uint) (models.CctvCamera, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	camera, ok := r.s.cameras.rows[id]
	if !ok {
		return models.CctvCamera{}, repository.ErrNotFound
	}
	return camera, nil
}

func (r cameraRepo) List(_ context.Context, filter repository.CameraFilter) ([]models.CctvCamera, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.CctvCamera, 0)
	for _, camera := range r.s.cameras.ordered() {
		if filter.VenueID != nil && camera.VenueID != *filter.VenueID {
			continue
		}
		out = append(out, camera)
	}
	return out, nil
}

func (r cameraRepo) Update(_ context.Context, id uint, update repository.CameraUpdate) (models.CctvCamera, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	camera, ok := r.s.cameras.rows[id]
	if !ok {
		return models.CctvCamera{}, repository.ErrNotFound
	}

	assign(&camera.Name, update.Name)
	assign(&camera.Location, update.Location)
	if update.VenueID != nil {
		camera.VenueID = *update.VenueID
	}
	assign(&camera.Type, update.Type)
	assign(&camera.Status, update.Status)
	assignOptional(&camera.Notes, update.Notes)

	r.s.cameras.rows[id] = camera
	return camera, nil
}

func (r cameraRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cameras.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.cameras.rows, id)
	return nil
}

type checkRepo struct{ s *Store }

func (r checkRepo) Create(_ context.Context, check *models.CctvCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	check.ID = r.s.checks.nextID()
	if check.CheckTime.IsZero() {
		check.CheckTime = r.s.now()
	}
	r.s.checks.rows[check.ID] = *check
	return nil
}

func (r checkRepo) GetByID(_ context.Context, id uint) (models.CctvCheck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	check, ok := r.s.checks.rows[id]
	if !ok {
		return models.CctvCheck{}, repository.ErrNotFound
	}
	return check, nil
}

func (r checkRepo) List(_ context.Context, filter repository.CheckFilter) ([]models.CctvCheck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.CctvCheck, 0)
	for _, check := range r.s.checks.ordered() {
		if filter.VenueID != nil && check.VenueID != *filter.VenueID {
			continue
		}
		if filter.CameraID != nil && check.CameraID != *filter.CameraID {
			continue
		}
		if filter.OpenIssuesOnly && !check.HasOpenIssue() {
			continue
		}
		out = append(out, check)
	}

	if filter.Limit > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CheckTime.Equal(out[j].CheckTime) {
				return out[i].ID > out[j].ID
			}
			return out[i].CheckTime.After(out[j].CheckTime)
		})
		if len(out) > filter.Limit {
			out = out[:filter.Limit]
		}
	}
	return out, nil
}

func (r checkRepo) Resolve(_ context.Context, id uint, actionTaken string) (models.CctvCheck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	check, ok := r.s.checks.rows[id]
	if !ok {
		return models.CctvCheck{}, repository.ErrNotFound
	}
	if check.Resolved {
		return check, repository.ErrStateConflict
	}

	check.ActionTaken = &actionTaken
	check.Resolved = true

	r.s.checks.rows[id] = check
	return check, nil
}
