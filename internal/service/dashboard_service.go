package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

const (
	dashboardCachePrefix   = "dashboard:stats:"
	dashboardGenerationKey = "dashboard:stats:generation"
	recentIncidentsLimit   = 10
	defaultDashboardCache  = 30 * time.Second
)

// DashboardService aggregates the operational overview.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStats, error)
	Invalidate(ctx context.Context)
	// Listener drops the cached stats whenever an operational event is seen.
	Listener() EventListener
}

type dashboardService struct {
	store    repository.Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	// built runs after a snapshot is aggregated and before it is cached.
	built    func(ctx context.Context)
}

// dashboardSnapshotKey names the cached stats for one cache generation.
// Invalidate bumps the generation so a snapshot aggregated before it lands
// under a key no reader asks for.
func dashboardSnapshotKey(generation int64) string {
	return dashboardCachePrefix + strconv.FormatInt(generation, 10)
}

// NewDashboardService builds the dashboard aggregator. cache may be nil.
func NewDashboardService(store repository.Store, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = defaultDashboardCache
	}
	return &dashboardService{
		store:    store,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/nightguard-api/internal/service/dashboard"),
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStats, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.stats")
	defer span.End()

	var key string
	if s.cache != nil {
		key = s.lookupKey(ctx)
		if key != "" {
			cached, err := s.cache.Get(ctx, key).Result()
			switch {
			case err == nil:
				var stats dto.DashboardStats
				if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
					observability.DashboardCacheLookups().WithLabelValues("hit").Inc()
					span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
					return stats, nil
				}
			case errors.Is(err, redis.Nil):
			default:
				s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			}
		}
		observability.DashboardCacheLookups().WithLabelValues("miss").Inc()
	}
	span.SetAttributes(attribute.Bool("dashboard.cache_hit", false))

	stats, err := s.build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return dto.DashboardStats{}, err
	}

	if s.built != nil {
		s.built(ctx)
	}

	if key != "" {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return stats, nil
}

// lookupKey returns the snapshot key for the current generation, or "" when
// the cache cannot be read.
func (s *dashboardService) lookupKey(ctx context.Context) string {
	generation, err := s.cache.Get(ctx, dashboardGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Msg("failed to read dashboard cache generation")
		return ""
	}
	return dashboardSnapshotKey(generation)
}

func (s *dashboardService) build(ctx context.Context) (dto.DashboardStats, error) {
	venues, err := s.store.Venues().List(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}
	incidents, err := s.store.Incidents().List(ctx, repository.IncidentFilter{})
	if err != nil {
		return dto.DashboardStats{}, err
	}
	recent, err := s.store.Incidents().ListRecent(ctx, recentIncidentsLimit)
	if err != nil {
		return dto.DashboardStats{}, err
	}
	signIns, err := s.store.SignIns().List(ctx, repository.SignInFilter{})
	if err != nil {
		return dto.DashboardStats{}, err
	}
	active, err := s.store.SignIns().List(ctx, repository.SignInFilter{ActiveOnly: true, NewestFirst: true})
	if err != nil {
		return dto.DashboardStats{}, err
	}
	cameras, err := s.store.Cameras().List(ctx, repository.CameraFilter{})
	if err != nil {
		return dto.DashboardStats{}, err
	}
	openIssues, err := s.store.Checks().List(ctx, repository.CheckFilter{OpenIssuesOnly: true})
	if err != nil {
		return dto.DashboardStats{}, err
	}

	stats := dto.DashboardStats{
		TotalIncidents:  len(incidents),
		TotalSignIns:    len(signIns),
		TotalVenues:     len(venues),
		TotalCameras:    len(cameras),
		OpenCctvIssues:  len(openIssues),
		RecentIncidents: recent,
		ActiveSignIns:   active,
		Venues:          venues,
	}
	for _, venue := range venues {
		if venue.IsOpen() {
			stats.ActiveVenues++
		}
	}
	for _, incident := range incidents {
		if incident.Status == models.IncidentStatusPending {
			stats.PendingIncidents++
		}
	}
	return stats, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, dashboardGenerationKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func (s *dashboardService) Listener() EventListener {
	return func(ctx context.Context, _ OperationalEvent) {
		s.Invalidate(ctx)
	}
}
