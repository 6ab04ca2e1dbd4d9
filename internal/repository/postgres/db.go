package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewDB opens a postgres connection for the durable store driver.
func NewDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema. seq columns preserve insertion order for
// list reads; id is the per-(patient, kind) record identifier handed to
// callers.
func Migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS user_profiles (
		identity   TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		role_kind  TEXT NOT NULL,
		family_of  TEXT
	);

	CREATE TABLE IF NOT EXISTS patient_profiles (
		identity          TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		age               BIGINT NOT NULL DEFAULT 0,
		medical_history   TEXT NOT NULL DEFAULT '',
		connected_devices TEXT[] NOT NULL DEFAULT '{}',
		primary_doctor    TEXT,
		seq               BIGSERIAL
	);
	CREATE INDEX IF NOT EXISTS idx_patient_profiles_primary_doctor
		ON patient_profiles (primary_doctor);

	CREATE TABLE IF NOT EXISTS doctor_profiles (
		identity  TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		specialty TEXT NOT NULL DEFAULT '',
		email     TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS admin_tiers (
		identity TEXT PRIMARY KEY,
		tier     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS delegations (
		patient TEXT NOT NULL,
		grantee TEXT NOT NULL,
		seq     BIGSERIAL,
		PRIMARY KEY (patient, grantee)
	);

	CREATE TABLE IF NOT EXISTS record_counters (
		patient TEXT NOT NULL,
		kind    TEXT NOT NULL,
		next_id BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (patient, kind)
	);

	CREATE TABLE IF NOT EXISTS vitals_readings (
		patient        TEXT NOT NULL,
		heart_rate     BIGINT NOT NULL,
		blood_pressure TEXT NOT NULL,
		temperature    DOUBLE PRECISION NOT NULL,
		ts             BIGINT NOT NULL,
		seq            BIGSERIAL
	);
	CREATE INDEX IF NOT EXISTS idx_vitals_patient ON vitals_readings (patient);

	CREATE TABLE IF NOT EXISTS medication_reminders (
		patient   TEXT NOT NULL,
		id        BIGINT NOT NULL,
		name      TEXT NOT NULL,
		dosage    TEXT NOT NULL,
		frequency TEXT NOT NULL,
		next_due  BIGINT NOT NULL,
		seq       BIGSERIAL,
		PRIMARY KEY (patient, id)
	);

	CREATE TABLE IF NOT EXISTS appointments (
		patient   TEXT NOT NULL,
		id        BIGINT NOT NULL,
		doctor    TEXT NOT NULL,
		date_time BIGINT NOT NULL,
		reason    TEXT NOT NULL,
		seq       BIGSERIAL,
		PRIMARY KEY (patient, id)
	);

	CREATE TABLE IF NOT EXISTS alerts (
		patient    TEXT NOT NULL,
		id         BIGINT NOT NULL,
		alert_type TEXT NOT NULL,
		message    TEXT NOT NULL,
		ts         BIGINT NOT NULL,
		seq        BIGSERIAL,
		PRIMARY KEY (patient, id)
	);

	CREATE TABLE IF NOT EXISTS home_nurse_requests (
		patient   TEXT NOT NULL,
		id        BIGINT NOT NULL,
		date_time BIGINT NOT NULL,
		details   TEXT NOT NULL,
		seq       BIGSERIAL,
		PRIMARY KEY (patient, id)
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
