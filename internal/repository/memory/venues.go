package memory

import (
	"context"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type venueRepo struct{ s *Store }

func (r venueRepo) Create(_ context.Context, venue *models.Venue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	venue.ID = r.s.venues.nextID()
	if venue.Status == "" {
		venue.Status = models.VenueStatusClosed
	}
	venue.CreatedAt = now
	venue.UpdatedAt = now
	r.s.venues.rows[venue.ID] = *venue
	return nil
}

func (r venueRepo) GetByID(_ context.Context, id uint) (models.Venue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	venue, ok := r.s.venues.rows[id]
	if !ok {
		return models.Venue{}, repository.ErrNotFound
	}
	return venue, nil
}

func (r venueRepo) List(_ context.Context) ([]models.Venue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.venues.ordered(), nil
}

func (r venueRepo) Update(_ context.Context, id uint, update repository.VenueUpdate) (models.Venue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	venue, ok := r.s.venues.rows[id]
	if !ok {
		return models.Venue{}, repository.ErrNotFound
	}

	assign(&venue.Name, update.Name)
	assign(&venue.Address, update.Address)
	assign(&venue.Contact, update.Contact)
	assign(&venue.Status, update.Status)
	venue.UpdatedAt = r.s.now()

	r.s.venues.rows[id] = venue
	return venue, nil
}

func (r venueRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.venues.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.venues.rows, id)
	return nil
}
