package doctorview

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/caffeinepub/smartcare-connect/internal/identity"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
	"github.com/caffeinepub/smartcare-connect/pkg/metrics"
)

const (
	defaultCacheTTL = 10 * time.Second
	cleanupInterval = time.Minute
)

// Service derives the doctor-facing worklist: the patients naming the
// caller as primary doctor and the union of their alerts. The relation
// itself is the authorization predicate, so no engine check runs per
// patient; the caller only has to resolve as a doctor. Alert polls are
// absorbed by a short-TTL cache, which keeps the endpoint cheap at
// tens-of-seconds polling intervals.
type Service struct {
	profiles repository.ProfileRepository
	records  repository.RecordRepository
	resolver *identity.Resolver
	alerts   *cache.Cache
	metrics  *metrics.Metrics
}

func NewService(profiles repository.ProfileRepository, records repository.RecordRepository, resolver *identity.Resolver, m *metrics.Metrics) *Service {
	return NewServiceWithTTL(profiles, records, resolver, m, defaultCacheTTL)
}

func NewServiceWithTTL(profiles repository.ProfileRepository, records repository.RecordRepository, resolver *identity.Resolver, m *metrics.Metrics, ttl time.Duration) *Service {
	return &Service{
		profiles: profiles,
		records:  records,
		resolver: resolver,
		alerts:   cache.New(ttl, cleanupInterval),
		metrics:  m,
	}
}

func (s *Service) requireDoctor(ctx context.Context, caller model.Identity) error {
	isDoctor, err := s.resolver.IsDoctor(ctx, caller)
	if err != nil {
		return errors.NewInternal(err)
	}
	if !isDoctor {
		return errors.NewUnauthorized(fmt.Errorf("caller is not a registered doctor"))
	}
	return nil
}

// MyPatients returns all patients whose primaryDoctor is the caller.
func (s *Service) MyPatients(ctx context.Context, caller model.Identity) ([]model.PatientEntry, error) {
	if err := s.requireDoctor(ctx, caller); err != nil {
		return nil, err
	}
	return s.profiles.PatientsByDoctor(ctx, caller)
}

// MyPatientsAlerts returns the union of alerts across the caller's
// patients, storage-ordered per patient. Consumers sort by timestamp.
func (s *Service) MyPatientsAlerts(ctx context.Context, caller model.Identity) ([]model.Alert, error) {
	if err := s.requireDoctor(ctx, caller); err != nil {
		return nil, err
	}

	key := alertCacheKey(caller)
	if cached, ok := s.alerts.Get(key); ok {
		if s.metrics != nil {
			s.metrics.AggregationCacheHits.Inc()
		}
		return cached.([]model.Alert), nil
	}

	start := time.Now()
	entries, err := s.profiles.PatientsByDoctor(ctx, caller)
	if err != nil {
		return nil, err
	}
	patients := make([]model.Identity, 0, len(entries))
	for _, entry := range entries {
		patients = append(patients, entry.Identity)
	}
	alerts, err := s.records.ListAlertsForPatients(ctx, patients)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AggregationLatency.Observe(time.Since(start).Seconds())
	}

	s.alerts.SetDefault(key, alerts)
	return alerts, nil
}

// InvalidatePatient drops the cached aggregation of the patient's
// primary doctor so a fresh alert shows up on the next poll.
func (s *Service) InvalidatePatient(patient model.Identity) {
	profile, err := s.profiles.GetPatientProfile(context.Background(), patient)
	if err != nil || profile.PrimaryDoctor == nil {
		return
	}
	s.alerts.Delete(alertCacheKey(*profile.PrimaryDoctor))
}

func alertCacheKey(doctor model.Identity) string {
	return "alerts:" + doctor.String()
}
