package memory

import (
	"context"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type scheduleRepo struct{ s *Store }

func (r scheduleRepo) Create(_ context.Context, schedule *models.ShiftSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	schedule.ID = r.s.schedules.nextID()
	r.s.schedules.rows[schedule.ID] = *schedule
	return nil
}

func (r scheduleRepo) GetByID(_ context.Context, id uint) (models.ShiftSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	schedule, ok := r.s.schedules.rows[id]
	if !ok {
		return models.ShiftSchedule{}, repository.ErrNotFound
	}
	return schedule, nil
}

func (r scheduleRepo) List(_ context.Context, venueID *uint) ([]models.ShiftSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.ShiftSchedule, 0)
	for _, schedule := range r.s.schedules.ordered() {
		if venueID != nil && schedule.VenueID != *venueID {
			continue
		}
		out = append(out, schedule)
	}
	return out, nil
}

func (r scheduleRepo) Update(_ context.Context, id uint, update repository.ScheduleUpdate) (models.ShiftSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	schedule, ok := r.s.schedules.rows[id]
	if !ok {
		return models.ShiftSchedule{}, repository.ErrNotFound
	}

	if update.VenueID != nil {
		schedule.VenueID = *update.VenueID
	}
	assign(&schedule.Name, update.Name)
	assign(&schedule.StartTime, update.StartTime)
	assign(&schedule.EndTime, update.EndTime)
	if update.Active != nil {
		schedule.Active = *update.Active
	}

	r.s.schedules.rows[id] = schedule
	return schedule, nil
}

func (r scheduleRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.schedules.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.schedules.rows, id)
	return nil
}
