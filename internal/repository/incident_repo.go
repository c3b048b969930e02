package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

// IncidentFilter narrows incident queries. Zero values match everything.
type IncidentFilter struct {
	VenueID   *uint
	Status    string
	CreatedBy *uint
}

// IncidentRepository persists incidents and their review decisions.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uint) (models.Incident, error)
	List(ctx context.Context, filter IncidentFilter) ([]models.Incident, error)
	ListRecent(ctx context.Context, limit int) ([]models.Incident, error)
	Update(ctx context.Context, id uint, update IncidentUpdate) (models.Incident, error)
	Delete(ctx context.Context, id uint) error
	// Review moves a pending incident into a terminal status. It returns
	// ErrStateConflict together with the current record when the incident
	// has already been reviewed.
	Review(ctx context.Context, id uint, review IncidentReview) (models.Incident, error)
}

type incidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository constructs a GORM backed incident repository.
func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *incidentRepository) GetByID(ctx context.Context, id uint) (models.Incident, error) {
	var incident models.Incident
	err := r.db.WithContext(ctx).First(&incident, id).Error
	return incident, translate(err)
}

func (r *incidentRepository) List(ctx context.Context, filter IncidentFilter) ([]models.Incident, error) {
	query := r.db.WithContext(ctx).Model(&models.Incident{})

	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}

	var incidents []models.Incident
	if err := query.Order("id ASC").Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *incidentRepository) ListRecent(ctx context.Context, limit int) ([]models.Incident, error) {
	query := r.db.WithContext(ctx).Order("date DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *incidentRepository) Update(ctx context.Context, id uint, update IncidentUpdate) (models.Incident, error) {
	var incident models.Incident
	err := updateByID(r.db.WithContext(ctx), &incident, id, update.columns())
	return incident, err
}

func (r *incidentRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Incident{}, id)
}

func (r *incidentRepository) Review(ctx context.Context, id uint, review IncidentReview) (models.Incident, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.Incident{}).
		Where("id = ? AND status = ?", id, models.IncidentStatusPending).
		Updates(map[string]interface{}{
			"status":       review.Status,
			"reviewed_by":  review.ReviewerID,
			"review_date":  review.At,
			"review_notes": review.Notes,
		})
	if result.Error != nil {
		return models.Incident{}, result.Error
	}

	var incident models.Incident
	if err := db.First(&incident, id).Error; err != nil {
		return models.Incident{}, translate(err)
	}

	if result.RowsAffected == 0 {
		return incident, ErrStateConflict
	}
	return incident, nil
}
