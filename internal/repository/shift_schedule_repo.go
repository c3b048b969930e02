package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

// ScheduleRepository persists shift schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.ShiftSchedule) error
	GetByID(ctx context.Context, id uint) (models.ShiftSchedule, error)
	List(ctx context.Context, venueID *uint) ([]models.ShiftSchedule, error)
	Update(ctx context.Context, id uint, update ScheduleUpdate) (models.ShiftSchedule, error)
	Delete(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository constructs a GORM backed shift schedule repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.ShiftSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (models.ShiftSchedule, error) {
	var schedule models.ShiftSchedule
	err := r.db.WithContext(ctx).First(&schedule, id).Error
	return schedule, translate(err)
}

func (r *scheduleRepository) List(ctx context.Context, venueID *uint) ([]models.ShiftSchedule, error) {
	query := r.db.WithContext(ctx).Model(&models.ShiftSchedule{})
	if venueID != nil {
		query = query.Where("venue_id = ?", *venueID)
	}

	var schedules []models.ShiftSchedule
	if err := query.Order("id ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, id uint, update ScheduleUpdate) (models.ShiftSchedule, error) {
	var schedule models.ShiftSchedule
	err := updateByID(r.db.WithContext(ctx), &schedule, id, update.columns())
	return schedule, err
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.ShiftSchedule{}, id)
}
