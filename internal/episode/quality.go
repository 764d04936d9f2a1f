package episode

import "sync/atomic"

// Quality accumulates data-quality anomaly counts for a whole run. Anomalies
// are counted and flagged, never fatal. The counters are atomic so that a
// parallel-by-patient caller can share a single instance; everything else in
// this package is exclusively owned by the worker processing one patient.
type Quality struct {
	// MissingPatients counts events whose patient id has no identity record.
	MissingPatients atomic.Int64
	// SuspiciousGranularity counts urgent-care timestamps whose minute is a
	// multiple of 5 with zero seconds, the signature of a manually rounded
	// entry.
	SuspiciousGranularity atomic.Int64
	// SurgeryOutOfBounds counts hospital events whose surgery time falls
	// outside the admission–discharge interval.
	SurgeryOutOfBounds atomic.Int64
}

// QualityCounts is a point-in-time copy of the counters.
type QualityCounts struct {
	MissingPatients       int64
	SuspiciousGranularity int64
	SurgeryOutOfBounds    int64
}

// Snapshot reads all counters.
func (q *Quality) Snapshot() QualityCounts {
	return QualityCounts{
		MissingPatients:       q.MissingPatients.Load(),
		SuspiciousGranularity: q.SuspiciousGranularity.Load(),
		SurgeryOutOfBounds:    q.SurgeryOutOfBounds.Load(),
	}
}
