package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

// SignInFilter narrows sign-in queries.
type SignInFilter struct {
	VenueID    *uint
	ActiveOnly bool
	// NewestFirst orders by time_in descending instead of insertion order.
	NewestFirst bool
}

// SignInRepository persists guard attendance records.
type SignInRepository interface {
	Create(ctx context.Context, signIn *models.SecuritySignIn) error
	GetByID(ctx context.Context, id uint) (models.SecuritySignIn, error)
	List(ctx context.Context, filter SignInFilter) ([]models.SecuritySignIn, error)
	Update(ctx context.Context, id uint, update SignInUpdate) (models.SecuritySignIn, error)
	// SignOut closes an on-duty record. It returns ErrStateConflict with the
	// current record when the guard has already signed out.
	SignOut(ctx context.Context, id uint, timeOut time.Time) (models.SecuritySignIn, error)
}

type signInRepository struct {
	db *gorm.DB
}

// NewSignInRepository constructs a GORM backed sign-in repository.
func NewSignInRepository(db *gorm.DB) SignInRepository {
	return &signInRepository{db: db}
}

func (r *signInRepository) Create(ctx context.Context, signIn *models.SecuritySignIn) error {
	return r.db.WithContext(ctx).Create(signIn).Error
}

func (r *signInRepository) GetByID(ctx context.Context, id uint) (models.SecuritySignIn, error) {
	var signIn models.SecuritySignIn
	err := r.db.WithContext(ctx).First(&signIn, id).Error
	return signIn, translate(err)
}

func (r *signInRepository) List(ctx context.Context, filter SignInFilter) ([]models.SecuritySignIn, error) {
	query := r.db.WithContext(ctx).Model(&models.SecuritySignIn{})

	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}

	if filter.ActiveOnly {
		query = query.Where("status = ?", models.SignInStatusOnDuty)
	}

	if filter.NewestFirst {
		query = query.Order("time_in DESC").Order("id DESC")
	} else {
		query = query.Order("id ASC")
	}

	var signIns []models.SecuritySignIn
	if err := query.Find(&signIns).Error; err != nil {
		return nil, err
	}
	return signIns, nil
}

func (r *signInRepository) Update(ctx context.Context, id uint, update SignInUpdate) (models.SecuritySignIn, error) {
	var signIn models.SecuritySignIn
	err := updateByID(r.db.WithContext(ctx), &signIn, id, update.columns())
	return signIn, err
}

func (r *signInRepository) SignOut(ctx context.Context, id uint, timeOut time.Time) (models.SecuritySignIn, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.SecuritySignIn{}).
		Where("id = ? AND status = ?", id, models.SignInStatusOnDuty).
		Updates(map[string]interface{}{
			"status":   models.SignInStatusOffDuty,
			"time_out": timeOut,
		})
	if result.Error != nil {
		return models.SecuritySignIn{}, result.Error
	}

	var signIn models.SecuritySignIn
	if err := db.First(&signIn, id).Error; err != nil {
		return models.SecuritySignIn{}, translate(err)
	}

	if result.RowsAffected == 0 {
		return signIn, ErrStateConflict
	}
	return signIn, nil
}
