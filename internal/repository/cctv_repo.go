package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

// CameraFilter narrows camera queries.
type CameraFilter struct {
	VenueID *uint
}

// CameraRepository persists CCTV cameras.
type CameraRepository interface {
	Create(ctx context.Context, camera *models.CctvCamera) error
	GetByID(ctx context.Context, id uint) (models.CctvCamera, error)
	List(ctx context.Context, filter CameraFilter) ([]models.CctvCamera, error)
	Update(ctx context.Context, id uint, update CameraUpdate) (models.CctvCamera, error)
	Delete(ctx context.Context, id uint) error
}

// CheckFilter narrows CCTV check queries.
type CheckFilter struct {
	VenueID  *uint
	CameraID *uint
	// OpenIssuesOnly keeps unresolved checks whose status is not working.
	OpenIssuesOnly bool
	// Limit switches to most recent first ordering by check_time.
	Limit int
}

// CheckRepository persists CCTV inspection records.
type CheckRepository interface {
	Create(ctx context.Context, check *models.CctvCheck) error
	GetByID(ctx context.Context, id uint) (models.CctvCheck, error)
	List(ctx context.Context, filter CheckFilter) ([]models.CctvCheck, error)
	// Resolve records the action taken on an open check. It returns
	// ErrStateConflict with the current record when already resolved.
	Resolve(ctx context.Context, id uint, actionTaken string) (models.CctvCheck, error)
}

type cameraRepository struct {
	db *gorm.DB
}

// NewCameraRepository constructs a GORM backed camera repository.
func NewCameraRepository(db *gorm.DB) CameraRepository {
	return &cameraRepository{db: db}
}

func (r *cameraRepository) Create(ctx context.Context, camera *models.CctvCamera) error {
	return r.db.WithContext(ctx).Create(camera).Error
}

func (r *cameraRepository) GetByID(ctx context.Context, id uint) (models.CctvCamera, error) {
	var camera models.CctvCamera
	err := r.db.WithContext(ctx).First(&camera, id).Error
	return camera, translate(err)
}

func (r *cameraRepository) List(ctx context.Context, filter CameraFilter) ([]models.CctvCamera, error) {
	query := r.db.WithContext(ctx).Model(&models.CctvCamera{})
	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}

	var cameras []models.CctvCamera
	if err := query.Order("id ASC").Find(&cameras).Error; err != nil {
		return nil, err
	}
	return cameras, nil
}

func (r *cameraRepository) Update(ctx context.Context, id uint, update CameraUpdate) (models.CctvCamera, error) {
	var camera models.CctvCamera
	err := updateByID(r.db.WithContext(ctx), &camera, id, update.columns())
	return camera, err
}

func (r *cameraRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.CctvCamera{}, id)
}

type checkRepository struct {
	db *gorm.DB
}

// NewCheckRepository constructs a GORM backed CCTV check repository.
func NewCheckRepository(db *gorm.DB) CheckRepository {
	return &checkRepository{db: db}
}

func (r *checkRepository) Create(ctx context.Context, check *models.CctvCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

func (r *checkRepository) GetByID(ctx context.Context, id uint) (models.CctvCheck, error) {
	var check models.CctvCheck
	err := r.db.WithContext(ctx).First(&check, id).Error
	return check, translate(err)
}

func (r *checkRepository) List(ctx context.Context, filter CheckFilter) ([]models.CctvCheck, error) {
	query := r.db.WithContext(ctx).Model(&models.CctvCheck{})

	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}

	if filter.CameraID != nil {
		query = query.Where("camera_id = ?", *filter.CameraID)
	}

	if filter.OpenIssuesOnly {
		query = query.Where("status <> ? AND resolved = ?", models.CheckStatusWorking, false)
	}

	if filter.Limit > 0 {
		query = query.Order("check_time DESC").Order("id DESC").Limit(filter.Limit)
	} else {
		query = query.Order("id ASC")
	}

	var checks []models.CctvCheck
	if err := query.Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func (r *checkRepository) Resolve(ctx context.Context, id uint, actionTaken string) (models.CctvCheck, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.CctvCheck{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]interface{}{
			"action_taken": actionTaken,
			"resolved":     true,
		})
	if result.Error != nil {
		return models.CctvCheck{}, result.Error
	}

	var check models.CctvCheck
	if err := db.First(&check, id).Error; err != nil {
		return models.CctvCheck{}, translate(err)
	}

	if result.RowsAffected == 0 {
		return check, ErrStateConflict
	}
	return check, nil
}
