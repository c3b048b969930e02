package memory

import (
	"context"
	"sort"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type incidentRepo struct{ s *Store }

func (r incidentRepo) Create(_ context.Context, incident *models.Incident) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	incident.ID = r.s.incidents.nextID()
	if incident.Status == "" {
		incident.Status = models.IncidentStatusPending
	}
	incident.CreatedAt = now
	incident.UpdatedAt = now
	r.s.incidents.rows[incident.ID] = *incident
	return nil
}

func (r incidentRepo) GetByID(_ context.Context, id uint) (models.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	incident, ok := r.s.incidents.rows[id]
	if !ok {
		return models.Incident{}, repository.ErrNotFound
	}
	return incident, nil
}

func (r incidentRepo) List(_ context.Context, filter repository.IncidentFilter) ([]models.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Incident, 0)
	for _, incident := range r.s.incidents.ordered() {
		if filter.VenueID != nil && incident.VenueID != *filter.VenueID {
			continue
		}
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != nil && (incident.CreatedBy == nil || *incident.CreatedBy != *filter.CreatedBy) {
			continue
		}
		out = append(out, incident)
	}
	return out, nil
}

func (r incidentRepo) ListRecent(_ context.Context, limit int) ([]models.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	incidents := r.s.incidents.ordered()
	sort.SliceStable(incidents, func(i, j int) bool {
		if incidents[i].Date.Equal(incidents[j].Date) {
			return incidents[i].ID > incidents[j].ID
		}
		return incidents[i].Date.After(incidents[j].Date)
	})

	if limit > 0 && len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}

func (r incidentRepo) Update(_ context.Context, id uint, update repository.IncidentUpdate) (models.Incident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	incident, ok := r.s.incidents.rows[id]
	if !ok {
		return models.Incident{}, repository.ErrNotFound
	}

	assign(&incident.Type, update.Type)
	assign(&incident.Severity, update.Severity)
	if update.Date != nil {
		incident.Date = *update.Date
	}
	if update.VenueID != nil {
		incident.VenueID = *update.VenueID
	}
	assign(&incident.Location, update.Location)
	assign(&incident.Description, update.Description)
	assignOptional(&incident.InvolvedParties, update.InvolvedParties)
	assignOptional(&incident.ActionsTaken, update.ActionsTaken)
	assignOptional(&incident.Witnesses, update.Witnesses)
	assign(&incident.ReportedBy, update.ReportedBy)
	assign(&incident.Position, update.Position)
	incident.UpdatedAt = r.s.now()

	r.s.incidents.rows[id] = incident
	return incident, nil
}

func (r incidentRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.incidents.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.incidents.rows, id)
	return nil
}

func (r incidentRepo) Review(_ context.Context, id uint, review repository.IncidentReview) (models.Incident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	incident, ok := r.s.incidents.rows[id]
	if !ok {
		return models.Incident{}, repository.ErrNotFound
	}
	if !incident.IsPending() {
		return incident, repository.ErrStateConflict
	}

	reviewer := review.ReviewerID
	at := review.At
	incident.Status = review.Status
	incident.ReviewedBy = &reviewer
	incident.ReviewDate = &at
	incident.ReviewNotes = nil
	assignOptional(&incident.ReviewNotes, review.Notes)
	incident.UpdatedAt = r.s.now()

	r.s.incidents.rows[id] = incident
	return incident, nil
}
