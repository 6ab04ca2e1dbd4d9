package model

// RecordKind scopes id counters and metrics labels per record family.
type RecordKind string

const (
	KindVitals           RecordKind = "vitals"
	KindMedication       RecordKind = "medication"
	KindAppointment      RecordKind = "appointment"
	KindAlert            RecordKind = "alert"
	KindHomeNurseRequest RecordKind = "home_nurse_request"
)

// VitalsReading is append-only: history is immutable once recorded.
// Timestamp is nanoseconds since the Unix epoch; zero means "stamp at
// write time".
type VitalsReading struct {
	HeartRate     int64   `json:"heart_rate" binding:"required"`
	BloodPressure string  `json:"blood_pressure" binding:"required"`
	Temperature   float64 `json:"temperature" binding:"required"`
	Timestamp     int64   `json:"timestamp"`
}

// MedicationReminder ids are assigned by the store, unique within the
// patient's medication collection. Caller-supplied ids are ignored.
type MedicationReminder struct {
	ID        int64  `json:"id"`
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
	NextDue   int64  `json:"next_due"`
}

type Appointment struct {
	ID       int64    `json:"id"`
	Doctor   Identity `json:"doctor" binding:"required,identity"`
	DateTime int64    `json:"date_time" binding:"required"`
	Reason   string   `json:"reason" binding:"required"`
}

type AlertType string

const (
	AlertTypeEmergency  AlertType = "emergency"
	AlertTypeMedication AlertType = "medication"
	AlertTypeVitals     AlertType = "vitals"
)

// Alert is append-only. Emergency alerts come from the patient's SOS
// path; medication and vitals alerts come from automated triggers.
type Alert struct {
	ID        int64     `json:"id"`
	Patient   Identity  `json:"patient"`
	AlertType AlertType `json:"alert_type"`
	Message   string    `json:"message"`
	Timestamp int64     `json:"timestamp"`
}

// HomeNurseRequest is create-only: no update or delete path exists.
type HomeNurseRequest struct {
	ID       int64    `json:"id"`
	Patient  Identity `json:"patient"`
	DateTime int64    `json:"date_time" binding:"required"`
	Details  string   `json:"details" binding:"required"`
}
