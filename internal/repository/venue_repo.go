package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

// VenueRepository persists venues.
type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id uint) (models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
	Update(ctx context.Context, id uint, update VenueUpdate) (models.Venue, error)
	Delete(ctx context.Context, id uint) error
}

type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository constructs a GORM backed venue repository.
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) Create(ctx context.Context, venue *models.Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *venueRepository) GetByID(ctx context.Context, id uint) (models.Venue, error) {
	var venue models.Venue
	err := r.db.WithContext(ctx).First(&venue, id).Error
	return venue, translate(err)
}

func (r *venueRepository) List(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) Update(ctx context.Context, id uint, update VenueUpdate) (models.Venue, error) {
	var venue models.Venue
	err := updateByID(r.db.WithContext(ctx), &venue, id, update.columns())
	return venue, err
}

func (r *venueRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Venue{}, id)
}
