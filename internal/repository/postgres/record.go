package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

// nextID bumps the per-(patient, kind) counter atomically via upsert,
// so concurrent adds against the same patient never reuse an id.
func (r *recordRepository) nextID(ctx context.Context, tx *sqlx.Tx, patient model.Identity, kind model.RecordKind) (int64, error) {
	query := `
		INSERT INTO record_counters (patient, kind, next_id)
		VALUES ($1, $2, 1)
		ON CONFLICT (patient, kind) DO UPDATE SET next_id = record_counters.next_id + 1
		RETURNING next_id
	`
	var id int64
	if err := tx.GetContext(ctx, &id, query, patient, kind); err != nil {
		return 0, fmt.Errorf("failed to assign record id: %w", err)
	}
	return id, nil
}

func stamp(ts int64) int64 {
	if ts == 0 {
		return time.Now().UnixNano()
	}
	return ts
}

func (r *recordRepository) AddVitals(ctx context.Context, patient model.Identity, reading *model.VitalsReading) error {
	reading.Timestamp = stamp(reading.Timestamp)
	query := `
		INSERT INTO vitals_readings (patient, heart_rate, blood_pressure, temperature, ts)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		patient, reading.HeartRate, reading.BloodPressure, reading.Temperature, reading.Timestamp); err != nil {
		return fmt.Errorf("failed to add vitals reading: %w", err)
	}
	return nil
}

func (r *recordRepository) ListVitals(ctx context.Context, patient model.Identity) ([]model.VitalsReading, error) {
	var rows []struct {
		HeartRate     int64   `db:"heart_rate"`
		BloodPressure string  `db:"blood_pressure"`
		Temperature   float64 `db:"temperature"`
		Timestamp     int64   `db:"ts"`
	}
	query := `SELECT heart_rate, blood_pressure, temperature, ts FROM vitals_readings WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &rows, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list vitals readings: %w", err)
	}
	readings := make([]model.VitalsReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, model.VitalsReading{
			HeartRate:     row.HeartRate,
			BloodPressure: row.BloodPressure,
			Temperature:   row.Temperature,
			Timestamp:     row.Timestamp,
		})
	}
	return readings, nil
}

func (r *recordRepository) AddMedication(ctx context.Context, patient model.Identity, reminder *model.MedicationReminder) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.nextID(ctx, tx, patient, model.KindMedication)
		if err != nil {
			return err
		}
		reminder.ID = id
		query := `
			INSERT INTO medication_reminders (patient, id, name, dosage, frequency, next_due)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query,
			patient, reminder.ID, reminder.Name, reminder.Dosage, reminder.Frequency, reminder.NextDue); err != nil {
			return fmt.Errorf("failed to add medication reminder: %w", err)
		}
		return nil
	})
}

func (r *recordRepository) UpdateMedication(ctx context.Context, patient model.Identity, id int64, reminder *model.MedicationReminder) error {
	query := `
		UPDATE medication_reminders
		SET name = $3, dosage = $4, frequency = $5, next_due = $6
		WHERE patient = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, patient, id, reminder.Name, reminder.Dosage, reminder.Frequency, reminder.NextDue)
	if err != nil {
		return fmt.Errorf("failed to update medication reminder: %w", err)
	}
	return requireRow(res, "medication reminder")
}

func (r *recordRepository) DeleteMedication(ctx context.Context, patient model.Identity, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medication_reminders WHERE patient = $1 AND id = $2`, patient, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication reminder: %w", err)
	}
	return requireRow(res, "medication reminder")
}

func (r *recordRepository) ListMedications(ctx context.Context, patient model.Identity) ([]model.MedicationReminder, error) {
	reminders := []model.MedicationReminder{}
	query := `SELECT id, name, dosage, frequency, next_due FROM medication_reminders WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &reminders, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list medication reminders: %w", err)
	}
	return reminders, nil
}

func (r *recordRepository) AddAppointment(ctx context.Context, patient model.Identity, appointment *model.Appointment) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.nextID(ctx, tx, patient, model.KindAppointment)
		if err != nil {
			return err
		}
		appointment.ID = id
		query := `
			INSERT INTO appointments (patient, id, doctor, date_time, reason)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			patient, appointment.ID, appointment.Doctor, appointment.DateTime, appointment.Reason); err != nil {
			return fmt.Errorf("failed to add appointment: %w", err)
		}
		return nil
	})
}

func (r *recordRepository) UpdateAppointment(ctx context.Context, patient model.Identity, id int64, appointment *model.Appointment) error {
	query := `
		UPDATE appointments SET doctor = $3, date_time = $4, reason = $5
		WHERE patient = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, patient, id, appointment.Doctor, appointment.DateTime, appointment.Reason)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireRow(res, "appointment")
}

func (r *recordRepository) DeleteAppointment(ctx context.Context, patient model.Identity, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE patient = $1 AND id = $2`, patient, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireRow(res, "appointment")
}

func (r *recordRepository) ListAppointments(ctx context.Context, patient model.Identity) ([]model.Appointment, error) {
	var rows []struct {
		ID       int64  `db:"id"`
		Doctor   string `db:"doctor"`
		DateTime int64  `db:"date_time"`
		Reason   string `db:"reason"`
	}
	query := `SELECT id, doctor, date_time, reason FROM appointments WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &rows, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	appointments := make([]model.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, model.Appointment{
			ID:       row.ID,
			Doctor:   model.Identity(row.Doctor),
			DateTime: row.DateTime,
			Reason:   row.Reason,
		})
	}
	return appointments, nil
}

func (r *recordRepository) AddAlert(ctx context.Context, patient model.Identity, alert *model.Alert) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.nextID(ctx, tx, patient, model.KindAlert)
		if err != nil {
			return err
		}
		alert.ID = id
		alert.Patient = patient
		alert.Timestamp = stamp(alert.Timestamp)
		query := `
			INSERT INTO alerts (patient, id, alert_type, message, ts)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			patient, alert.ID, alert.AlertType, alert.Message, alert.Timestamp); err != nil {
			return fmt.Errorf("failed to add alert: %w", err)
		}
		return nil
	})
}

type alertRow struct {
	Patient   string `db:"patient"`
	ID        int64  `db:"id"`
	AlertType string `db:"alert_type"`
	Message   string `db:"message"`
	Timestamp int64  `db:"ts"`
}

func (row alertRow) toModel() model.Alert {
	return model.Alert{
		ID:        row.ID,
		Patient:   model.Identity(row.Patient),
		AlertType: model.AlertType(row.AlertType),
		Message:   row.Message,
		Timestamp: row.Timestamp,
	}
}

func (r *recordRepository) ListAlerts(ctx context.Context, patient model.Identity) ([]model.Alert, error) {
	var rows []alertRow
	query := `SELECT patient, id, alert_type, message, ts FROM alerts WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &rows, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	alerts := make([]model.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, row.toModel())
	}
	return alerts, nil
}

func (r *recordRepository) ListAlertsForPatients(ctx context.Context, patients []model.Identity) ([]model.Alert, error) {
	if len(patients) == 0 {
		return []model.Alert{}, nil
	}

	ids := make([]string, 0, len(patients))
	for _, patient := range patients {
		ids = append(ids, patient.String())
	}
	query, args, err := sqlx.In(`SELECT patient, id, alert_type, message, ts FROM alerts WHERE patient IN (?) ORDER BY seq`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert query: %w", err)
	}

	var rows []alertRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	alerts := make([]model.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, row.toModel())
	}
	return alerts, nil
}

func (r *recordRepository) AddHomeNurseRequest(ctx context.Context, patient model.Identity, request *model.HomeNurseRequest) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.nextID(ctx, tx, patient, model.KindHomeNurseRequest)
		if err != nil {
			return err
		}
		request.ID = id
		request.Patient = patient
		query := `
			INSERT INTO home_nurse_requests (patient, id, date_time, details)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, patient, request.ID, request.DateTime, request.Details); err != nil {
			return fmt.Errorf("failed to add home nurse request: %w", err)
		}
		return nil
	})
}

func (r *recordRepository) ListHomeNurseRequests(ctx context.Context, patient model.Identity) ([]model.HomeNurseRequest, error) {
	var rows []struct {
		ID       int64  `db:"id"`
		DateTime int64  `db:"date_time"`
		Details  string `db:"details"`
	}
	query := `SELECT id, date_time, details FROM home_nurse_requests WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &rows, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list home nurse requests: %w", err)
	}
	requests := make([]model.HomeNurseRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, model.HomeNurseRequest{
			ID:       row.ID,
			Patient:  patient,
			DateTime: row.DateTime,
			Details:  row.Details,
		})
	}
	return requests, nil
}

func (r *recordRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func requireRow(res interface{ RowsAffected() (int64, error) }, resource string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound(resource, nil)
	}
	return nil
}
