// Package memory provides a process-local repository.Store used for
// development and tests. Rows are kept in maps guarded by a single
// RWMutex; identifiers come from per-table atomic counters.
package memory

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

type table[T any] struct {
	rows map[uint]T
	seq  atomic.Uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uint]T)}
}

func (t *table[T]) nextID() uint {
	return uint(t.seq.Add(1))
}

// ordered returns rows in insertion (id) order.
func (t *table[T]) ordered() []T {
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// Store is an in-memory repository.Store.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users     *table[models.User]
	venues    *table[models.Venue]
	incidents *table[models.Incident]
	signIns   *table[models.SecuritySignIn]
	cameras   *table[models.CctvCamera]
	checks    *table[models.CctvCheck]
	schedules *table[models.ShiftSchedule]
	activity  *table[models.ActivityLog]
	sessions  map[string]models.Session
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     newTable[models.User](),
		venues:    newTable[models.Venue](),
		incidents: newTable[models.Incident](),
		signIns:   newTable[models.SecuritySignIn](),
		cameras:   newTable[models.CctvCamera](),
		checks:    newTable[models.CctvCheck](),
		schedules: newTable[models.ShiftSchedule](),
		activity:  newTable[models.ActivityLog](),
		sessions:  make(map[string]models.Session),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository           { return userRepo{s} }
func (s *Store) Venues() repository.VenueRepository         { return venueRepo{s} }
func (s *Store) Incidents() repository.IncidentRepository   { return incidentRepo{s} }
func (s *Store) SignIns() repository.SignInRepository       { return signInRepo{s} }
func (s *Store) Cameras() repository.CameraRepository       { return cameraRepo{s} }
func (s *Store) Checks() repository.CheckRepository         { return checkRepo{s} }
func (s *Store) Schedules() repository.ScheduleRepository   { return scheduleRepo{s} }
func (s *Store) Sessions() repository.SessionRepository     { return sessionRepo{s} }
func (s *Store) Activity() repository.ActivityLogRepository { return activityRepo{s} }

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func assignOptional(dst **string, src *string) {
	if src != nil {
		value := *src
		*dst = &value
	}
}
