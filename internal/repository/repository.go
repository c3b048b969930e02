package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStateConflict indicates a conditional transition did not apply because
	// the record is no longer in the required state.
	ErrStateConflict = errors.New("record state does not permit this operation")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
)

// Store groups the repositories backing the register. The GORM store and the
// in-memory store both satisfy it and are chosen at startup.
type Store interface {
	Users() UserRepository
	Venues() VenueRepository
	Incidents() IncidentRepository
	SignIns() SignInRepository
	Cameras() CameraRepository
	Checks() CheckRepository
	Schedules() ScheduleRepository
	Sessions() SessionRepository
	Activity() ActivityLogRepository
}

type gormStore struct {
	users     UserRepository
	venues    VenueRepository
	incidents IncidentRepository
	signIns   SignInRepository
	cameras   CameraRepository
	checks    CheckRepository
	schedules ScheduleRepository
	sessions  SessionRepository
	activity  ActivityLogRepository
}

// NewGormStore builds a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{
		users:     NewUserRepository(db),
		venues:    NewVenueRepository(db),
		incidents: NewIncidentRepository(db),
		signIns:   NewSignInRepository(db),
		cameras:   NewCameraRepository(db),
		checks:    NewCheckRepository(db),
		schedules: NewScheduleRepository(db),
		sessions:  NewSessionRepository(db),
		activity:  NewActivityLogRepository(db),
	}
}

func (s *gormStore) Users() UserRepository           { return s.users }
func (s *gormStore) Venues() VenueRepository         { return s.venues }
func (s *gormStore) Incidents() IncidentRepository   { return s.incidents }
func (s *gormStore) SignIns() SignInRepository       { return s.signIns }
func (s *gormStore) Cameras() CameraRepository       { return s.cameras }
func (s *gormStore) Checks() CheckRepository         { return s.checks }
func (s *gormStore) Schedules() ScheduleRepository   { return s.schedules }
func (s *gormStore) Sessions() SessionRepository     { return s.sessions }
func (s *gormStore) Activity() ActivityLogRepository { return s.activity }

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateByID applies updates and reloads the record into dest.
func updateByID(db *gorm.DB, dest interface{}, id uint, updates map[string]interface{}) error {
	if len(updates) > 0 {
		result := db.Model(dest).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
	}
	return translate(db.First(dest, id).Error)
}
