package model

import "time"

// HospitalRow is one parsed row of the hospital-admissions extract.
// Timestamps are already normalized to civil UTC by the reader.
type HospitalRow struct {
	EventID   int64
	PatientID string

	AdmissionTime *time.Time
	SurgeryTime   *time.Time
	DischargeTime *time.Time

	HospitalCode  string
	AdmissionType string
	DischargeCode int

	// Principal diagnosis and its present-on-admission flag.
	DiagnosisCode string
	POA           string

	// Up to 14 secondary (diagnosis, POA) pairs.
	Secondary []SecondaryDiagnosis
}

// SecondaryDiagnosis is a secondary diagnosis code with its POA flag.
type SecondaryDiagnosis struct {
	Code string
	POA  string
}

// UrgentCareRow is one parsed row of the emergency/urgent-care extract.
// Any subset of the seven timestamps may be absent.
type UrgentCareRow struct {
	EventID   int64
	PatientID string

	AdmissionTime       *time.Time
	FirstAttentionTime  *time.Time
	CTTime              *time.Time
	FibrinolysisTime    *time.Time
	ObservationRoomTime *time.Time
	DischargeTime       *time.Time
	ExitTime            *time.Time

	FacilityCode  string
	DischargeCode int
	DiagnosisCode string
	Triage        string

	// Nullable: the source records S/N/blank.
	CodeStrokeActivated *bool
}

// PatientRow is one patient identity record with its location history.
type PatientRow struct {
	PatientID   string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
	Sex         string

	// GMA risk-adjustment passthrough.
	GMAAffectedSystems *int
	GMAWeight          *float64

	Locations []LocationInterval
}

// LocationInterval is one [From, To) residence interval. To == nil means the
// interval is open-ended.
type LocationInterval struct {
	LocationID int64      `json:"location_id"`
	From       *time.Time `json:"from_dt"`
	To         *time.Time `json:"to_dt"`
}
