package episode

import "time"

// ActivityRecord is one flattened row of the outbound activity log: a single
// clinically meaningful sub-event with its episode id, source event id and
// kind-specific metadata. Only one of HospitalEventID / UrgentCareEventID is
// set, matching the record's source kind.
type ActivityRecord struct {
	EpisodeID         int64  `json:"id"`
	HospitalEventID   *int64 `json:"hospital_event_id,omitempty"`
	UrgentCareEventID *int64 `json:"urgent_care_event_id,omitempty"`

	Event     string     `json:"event"`
	Timestamp *time.Time `json:"timestamp"`
	Resource  string     `json:"resource"`

	HospitalID            *string `json:"hospital_id,omitempty"`
	AdmissionType         *string `json:"admission_type,omitempty"`
	HospitalDiagnosisCode *string `json:"hospital_diagnosis_code,omitempty"`
	HospitalDischargeCode *int    `json:"hospital_discharge_code,omitempty"`

	UrgentCareHospitalID    *string `json:"urgent_care_hospital_id,omitempty"`
	Triage                  *string `json:"triage,omitempty"`
	UrgentCareDiagnosisCode *string `json:"urgent_care_diagnosis_code,omitempty"`
	UrgentCareDischargeCode *int    `json:"urgent_care_discharge_code,omitempty"`
}

// ActivityColumns returns the COPY column order of the activity_log table.
func ActivityColumns() []string {
	return []string{
		"episode_id",
		"hospital_event_id",
		"urgent_care_event_id",
		"event",
		"event_time",
		"resource",
		"hospital_id",
		"admission_type",
		"hospital_diagnosis_code",
		"hospital_discharge_code",
		"urgent_care_hospital_id",
		"triage",
		"urgent_care_diagnosis_code",
		"urgent_care_discharge_code",
	}
}

// CopyValues returns the record's values in ActivityColumns order.
func (r *ActivityRecord) CopyValues() []any {
	return []any{
		r.EpisodeID,
		r.HospitalEventID,
		r.UrgentCareEventID,
		r.Event,
		r.Timestamp,
		r.Resource,
		r.HospitalID,
		r.AdmissionType,
		r.HospitalDiagnosisCode,
		r.HospitalDischargeCode,
		r.UrgentCareHospitalID,
		r.Triage,
		r.UrgentCareDiagnosisCode,
		r.UrgentCareDischargeCode,
	}
}

func earliest(times ...*time.Time) *time.Time {
	var min *time.Time
	for _, t := range times {
		if t == nil {
			continue
		}
		if min == nil || t.Before(*min) {
			min = t
		}
	}
	return min
}

func latest(times ...*time.Time) *time.Time {
	var max *time.Time
	for _, t := range times {
		if t == nil {
			continue
		}
		if max == nil || t.After(*max) {
			max = t
		}
	}
	return max
}
