package record

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/caffeinepub/smartcare-connect/internal/authz"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/internal/service/notification"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
	"github.com/caffeinepub/smartcare-connect/pkg/messaging"
	"github.com/caffeinepub/smartcare-connect/pkg/metrics"
)

// Vitals readings outside this window raise an automated vitals alert
// for the patient's care circle.
const (
	heartRateAlertLow  = 40
	heartRateAlertHigh = 140
)

// Service is the patient record store. Every operation authorizes the
// caller against the addressed patient before touching storage.
type Service struct {
	records  repository.RecordRepository
	profiles repository.ProfileRepository
	engine   *authz.Engine
	broker   messaging.Broker
	notifier notification.Service
	metrics  *metrics.Metrics
	logger   *zerolog.Logger

	// onAlert is invoked after every stored alert, used to nudge the
	// doctor aggregation cache.
	onAlert func(patient model.Identity)
}

func NewService(
	records repository.RecordRepository,
	profiles repository.ProfileRepository,
	engine *authz.Engine,
	broker messaging.Broker,
	notifier notification.Service,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		records:  records,
		profiles: profiles,
		engine:   engine,
		broker:   broker,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// OnAlert registers a hook called with the patient identity of every
// stored alert.
func (s *Service) OnAlert(hook func(patient model.Identity)) {
	s.onAlert = hook
}

func (s *Service) countOp(kind model.RecordKind, op string) {
	if s.metrics != nil {
		s.metrics.RecordOperations.WithLabelValues(string(kind), op).Inc()
	}
}

func (s *Service) AddVitals(ctx context.Context, caller, patient model.Identity, reading *model.VitalsReading) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.AddVitals(ctx, patient, reading); err != nil {
		return err
	}
	s.countOp(model.KindVitals, "add")

	// The reading itself is stored at this point; a failed side-effect
	// alert must not fail the write.
	if reading.HeartRate < heartRateAlertLow || reading.HeartRate > heartRateAlertHigh {
		msg := fmt.Sprintf("heart rate %d outside expected range", reading.HeartRate)
		if _, err := s.raiseAlert(ctx, patient, model.AlertTypeVitals, msg); err != nil {
			s.logger.Error().Err(err).Str("patient", patient.String()).Msg("failed to record vitals alert")
		}
	}
	return nil
}

func (s *Service) ListVitals(ctx context.Context, caller, patient model.Identity) ([]model.VitalsReading, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.records.ListVitals(ctx, patient)
}

func (s *Service) AddMedication(ctx context.Context, caller, patient model.Identity, reminder *model.MedicationReminder) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.AddMedication(ctx, patient, reminder); err != nil {
		return err
	}
	s.countOp(model.KindMedication, "add")
	return nil
}

func (s *Service) UpdateMedication(ctx context.Context, caller, patient model.Identity, id int64, reminder *model.MedicationReminder) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.UpdateMedication(ctx, patient, id, reminder); err != nil {
		return err
	}
	s.countOp(model.KindMedication, "update")
	return nil
}

func (s *Service) DeleteMedication(ctx context.Context, caller, patient model.Identity, id int64) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.DeleteMedication(ctx, patient, id); err != nil {
		return err
	}
	s.countOp(model.KindMedication, "delete")
	return nil
}

func (s *Service) ListMedications(ctx context.Context, caller, patient model.Identity) ([]model.MedicationReminder, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.records.ListMedications(ctx, patient)
}

func (s *Service) AddAppointment(ctx context.Context, caller, patient model.Identity, appointment *model.Appointment) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.AddAppointment(ctx, patient, appointment); err != nil {
		return err
	}
	s.countOp(model.KindAppointment, "add")
	return nil
}

func (s *Service) UpdateAppointment(ctx context.Context, caller, patient model.Identity, id int64, appointment *model.Appointment) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.UpdateAppointment(ctx, patient, id, appointment); err != nil {
		return err
	}
	s.countOp(model.KindAppointment, "update")
	return nil
}

func (s *Service) DeleteAppointment(ctx context.Context, caller, patient model.Identity, id int64) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.DeleteAppointment(ctx, patient, id); err != nil {
		return err
	}
	s.countOp(model.KindAppointment, "delete")
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, caller, patient model.Identity) ([]model.Appointment, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.records.ListAppointments(ctx, patient)
}

func (s *Service) AddHomeNurseRequest(ctx context.Context, caller, patient model.Identity, request *model.HomeNurseRequest) error {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpWrite); err != nil {
		return err
	}
	if err := s.records.AddHomeNurseRequest(ctx, patient, request); err != nil {
		return err
	}
	s.countOp(model.KindHomeNurseRequest, "add")
	return nil
}

func (s *Service) ListHomeNurseRequests(ctx context.Context, caller, patient model.Identity) ([]model.HomeNurseRequest, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.records.ListHomeNurseRequests(ctx, patient)
}

// SendEmergencyAlert records an emergency alert against the caller's
// own record set. The caller is always the patient, so no engine check
// is needed.
func (s *Service) SendEmergencyAlert(ctx context.Context, caller model.Identity, message string) (*model.Alert, error) {
	if message == "" {
		return nil, errors.NewInvalidArgument("alert message is empty", nil)
	}
	return s.raiseAlert(ctx, caller, model.AlertTypeEmergency, message)
}

func (s *Service) GetAlerts(ctx context.Context, caller, patient model.Identity) ([]model.Alert, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.records.ListAlerts(ctx, patient)
}

// raiseAlert stores the alert and runs the fan-out side effects. A
// storage failure is returned: an unstored alert must never look
// recorded to the caller.
func (s *Service) raiseAlert(ctx context.Context, patient model.Identity, alertType model.AlertType, message string) (*model.Alert, error) {
	alert := &model.Alert{AlertType: alertType, Message: message}
	if err := s.records.AddAlert(ctx, patient, alert); err != nil {
		return nil, errors.NewInternal(err)
	}
	s.countOp(model.KindAlert, "add")
	if s.metrics != nil {
		s.metrics.AlertsCreated.WithLabelValues(string(alertType)).Inc()
	}

	if s.onAlert != nil {
		s.onAlert(patient)
	}

	s.publishAlert(ctx, alert)
	if alertType == model.AlertTypeEmergency {
		go s.notifyPrimaryDoctor(patient, message)
	}
	return alert, nil
}

// publishAlert pushes the alert onto the broker for subscribers that
// prefer push delivery over polling. Failures are logged, never
// surfaced: the alert is already durably recorded.
func (s *Service) publishAlert(ctx context.Context, alert *model.Alert) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, messaging.ChannelAlertCreated, alert); err != nil {
		s.logger.Error().Err(err).Int64("alert_id", alert.ID).Msg("failed to publish alert")
		return
	}
	if s.metrics != nil {
		s.metrics.AlertsPublished.Inc()
	}
}

func (s *Service) notifyPrimaryDoctor(patient model.Identity, message string) {
	ctx := context.Background()

	profile, err := s.profiles.GetPatientProfile(ctx, patient)
	if err != nil || profile.PrimaryDoctor == nil {
		return
	}
	doctor, err := s.profiles.GetDoctorProfile(ctx, *profile.PrimaryDoctor)
	if err != nil {
		return
	}
	if err := s.notifier.EmergencyAlert(ctx, doctor, profile.Name, message); err != nil {
		s.logger.Error().Err(err).Str("patient", patient.String()).Msg("failed to notify primary doctor")
	}
}
