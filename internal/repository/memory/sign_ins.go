package memory

import (
	"context"
	"sort"
	"time"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type signInRepo struct{ s *Store }

func (r signInRepo) Create(_ context.Context, signIn *models.SecuritySignIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	signIn.ID = r.s.signIns.nextID()
	if signIn.Status == "" {
		signIn.Status = models.SignInStatusOnDuty
	}
	r.s.signIns.rows[signIn.ID] = *signIn
	return nil
}

func (r signInRepo) GetByID(_ context.Context, id uint) (models.SecuritySignIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	signIn, ok := r.s.signIns.rows[id]
	if !ok {
		return models.SecuritySignIn{}, repository.ErrNotFound
	}
	return signIn, nil
}

func (r signInRepo) List(_ context.Context, filter repository.SignInFilter) ([]models.SecuritySignIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.SecuritySignIn, 0)
	for _, signIn := range r.s.signIns.ordered() {
		if filter.VenueID != nil && signIn.VenueID != *filter.VenueID {
			continue
		}
		if filter.ActiveOnly && !signIn.IsOnDuty() {
			continue
		}
		out = append(out, signIn)
	}

	if filter.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].TimeIn.Equal(out[j].TimeIn) {
				return out[i].ID > out[j].ID
			}
			return out[i].TimeIn.After(out[j].TimeIn)
		})
	}
	return out, nil
}

func (r signInRepo) Update(_ context.Context, id uint, update repository.SignInUpdate) (models.SecuritySignIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	signIn, ok := r.s.signIns.rows[id]
	if !ok {
		return models.SecuritySignIn{}, repository.ErrNotFound
	}

	assign(&signIn.SecurityName, update.SecurityName)
	assign(&signIn.BadgeNumber, update.BadgeNumber)
	if update.VenueID != nil {
		signIn.VenueID = *update.VenueID
	}
	assign(&signIn.Position, update.Position)
	if update.Date != nil {
		signIn.Date = *update.Date
	}
	if update.TimeIn != nil {
		signIn.TimeIn = *update.TimeIn
	}
	assignOptional(&signIn.Notes, update.Notes)

	r.s.signIns.rows[id] = signIn
	return signIn, nil
}

func (r signInRepo) SignOut(_ context.Context, id uint, timeOut time.Time) (models.SecuritySignIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	signIn, ok := r.s.signIns.rows[id]
	if !ok {
		return models.SecuritySignIn{}, repository.ErrNotFound
	}
	if !signIn.IsOnDuty() {
		return signIn, repository.ErrStateConflict
	}

	signIn.Status = models.SignInStatusOffDuty
	signIn.TimeOut = &timeOut

	r.s.signIns.rows[id] = signIn
	return signIn, nil
}
