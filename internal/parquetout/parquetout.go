// Package parquetout writes the flattened activity log as a Parquet file for
// analysts working outside the database.
package parquetout

import (
	"fmt"
	"os"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/strokecare/epilink/internal/episode"
)

// activityRow mirrors episode.ActivityRecord with Parquet column tags.
// Timestamps are written as microseconds since the Unix epoch.
type activityRow struct {
	EpisodeID         int64  `parquet:"episode_id"`
	HospitalEventID   *int64 `parquet:"hospital_event_id,optional"`
	UrgentCareEventID *int64 `parquet:"urgent_care_event_id,optional"`

	Event     string     `parquet:"event"`
	EventTime *time.Time `parquet:"event_time,optional,timestamp(microsecond)"`
	Resource  string     `parquet:"resource"`

	HospitalID            *string `parquet:"hospital_id,optional"`
	AdmissionType         *string `parquet:"admission_type,optional"`
	HospitalDiagnosisCode *string `parquet:"hospital_diagnosis_code,optional"`
	HospitalDischargeCode *int    `parquet:"hospital_discharge_code,optional"`

	UrgentCareHospitalID    *string `parquet:"urgent_care_hospital_id,optional"`
	Triage                  *string `parquet:"triage,optional"`
	UrgentCareDiagnosisCode *string `parquet:"urgent_care_diagnosis_code,optional"`
	UrgentCareDischargeCode *int    `parquet:"urgent_care_discharge_code,optional"`
}

func toRow(r episode.ActivityRecord) activityRow {
	return activityRow{
		EpisodeID:               r.EpisodeID,
		HospitalEventID:         r.HospitalEventID,
		UrgentCareEventID:       r.UrgentCareEventID,
		Event:                   r.Event,
		EventTime:               r.Timestamp,
		Resource:                r.Resource,
		HospitalID:              r.HospitalID,
		AdmissionType:           r.AdmissionType,
		HospitalDiagnosisCode:   r.HospitalDiagnosisCode,
		HospitalDischargeCode:   r.HospitalDischargeCode,
		UrgentCareHospitalID:    r.UrgentCareHospitalID,
		Triage:                  r.Triage,
		UrgentCareDiagnosisCode: r.UrgentCareDiagnosisCode,
		UrgentCareDischargeCode: r.UrgentCareDischargeCode,
	}
}

// WriteActivity writes records to path as a Parquet file.
func WriteActivity(path string, records []episode.ActivityRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := goparquet.NewGenericWriter[activityRow](f)

	rows := make([]activityRow, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			f.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
