package model

// PatientProfile holds the patient-owned demographic and care facts.
// PrimaryDoctor, when set, authorizes that doctor for all of this
// patient's records. Only the owning patient may mutate the profile.
type PatientProfile struct {
	Identity         Identity  `json:"identity"`
	Name             string    `json:"name" binding:"required"`
	Age              int64     `json:"age" binding:"min=0"`
	MedicalHistory   string    `json:"medical_history"`
	ConnectedDevices []string  `json:"connected_devices"`
	PrimaryDoctor    *Identity `json:"primary_doctor,omitempty" binding:"omitempty,identity"`
}

// DoctorProfile is the doctor's display info, readable by any
// authenticated caller that needs to resolve it. Email, when present,
// receives emergency-alert notifications for assigned patients.
type DoctorProfile struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	Email     string `json:"email,omitempty" binding:"omitempty,email"`
}

// PatientEntry pairs a patient identity with its profile in listings.
type PatientEntry struct {
	Identity Identity       `json:"identity"`
	Profile  PatientProfile `json:"profile"`
}
