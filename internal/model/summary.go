package model

import "time"

// RunSummary captures the episode classification counts and quality counters
// of a single build run.
type RunSummary struct {
	RunID string

	HospitalRowsRead   int64
	UrgentCareRowsRead int64
	PatientRowsRead    int64
	RowsRejected       int64
	StrokeCodesLoaded  int

	TotalEpisodes      int64
	IdentifiedEpisodes int64
	NonStrokeEpisodes  int64
	StrokeButIncorrect int64
	IncorrectEpisodes  int64
	IncorrectEvents    int64
	BadEndpoint        int64
	LeftCensored       int64
	RightCensored      int64

	// Quality accounting counters.
	MissingPatients       int64
	SuspiciousGranularity int64
	SurgeryOutOfBounds    int64

	ActivityRecords int64
	PatientsWritten int64

	DurationLoad    time.Duration
	DurationScatter time.Duration
	DurationClose   time.Duration
	DurationPersist time.Duration
	DurationTotal   time.Duration
}
