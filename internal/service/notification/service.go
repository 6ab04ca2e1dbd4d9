package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/caffeinepub/smartcare-connect/internal/model"
)

// Service delivers out-of-band notifications for recorded alerts.
type Service interface {
	EmergencyAlert(ctx context.Context, doctor *model.DoctorProfile, patientName, message string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	logger *zerolog.Logger
}

func NewEmailService(cfg SMTPConfig, logger *zerolog.Logger) Service {
	return &emailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *emailService) EmergencyAlert(ctx context.Context, doctor *model.DoctorProfile, patientName, message string) error {
	if doctor.Email == "" {
		s.logger.Debug().Str("doctor", doctor.Name).Msg("no doctor email on file, skipping alert notification")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", doctor.Email)
	m.SetHeader("Subject", fmt.Sprintf("Emergency alert for %s", patientName))
	m.SetBody("text/plain", fmt.Sprintf("Patient %s raised an emergency alert:\n\n%s\n", patientName, message))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

// NoopService is used when SMTP is not configured.
type NoopService struct{}

func (NoopService) EmergencyAlert(ctx context.Context, doctor *model.DoctorProfile, patientName, message string) error {
	return nil
}
