package episode

import (
	"fmt"
	"time"

	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/normalize"
	"github.com/strokecare/epilink/internal/stroke"
)

// HospitalEvent is one inpatient admission. Its canonical interval is
// [admission, discharge]. Timestamps are mutable only through the
// synchronizer, which repairs cross-source clock skew after linking.
type HospitalEvent struct {
	EventMeta

	AdmissionTime time.Time  `json:"admission_time"`
	SurgeryTime   *time.Time `json:"surgery_time"`
	DischargeTime time.Time  `json:"discharge_time"`

	HospitalCode  string `json:"hospital_code"`
	AdmissionType string `json:"admission_type"`
	DischargeCode int    `json:"discharge_code"`

	DiagnosisCode string                     `json:"diagnosis_code"`
	POA           string                     `json:"poa1"`
	Secondary     []model.SecondaryDiagnosis `json:"secondary_diagnoses,omitempty"`

	// LongStay is set by the linking engine when this admission continues a
	// discharge with an extended-care transfer code.
	LongStay    bool `json:"long_stay_hospital"`
	StrokeEvent bool `json:"stroke_event"`
}

// NewHospitalEvent constructs and self-validates a hospital event from a
// parsed source row. Rows without both admission and discharge times cannot
// form an interval and are rejected.
func NewHospitalEvent(row model.HospitalRow, codes *stroke.Codebook, quality *Quality) (*HospitalEvent, error) {
	admission := normalize.CivilPtr(row.AdmissionTime)
	discharge := normalize.CivilPtr(row.DischargeTime)
	if admission == nil || discharge == nil {
		return nil, fmt.Errorf("hospital event %d: missing admission or discharge time", row.EventID)
	}

	h := &HospitalEvent{
		EventMeta: EventMeta{
			ID:        row.EventID,
			Type:      KindHospital,
			PatientID: row.PatientID,
			StartTime: *admission,
			EndTime:   *discharge,
			Correct:   true,
		},
		AdmissionTime: *admission,
		SurgeryTime:   normalize.CivilPtr(row.SurgeryTime),
		DischargeTime: *discharge,
		HospitalCode:  row.HospitalCode,
		AdmissionType: row.AdmissionType,
		DischargeCode: row.DischargeCode,
		DiagnosisCode: row.DiagnosisCode,
		POA:           row.POA,
		Secondary:     row.Secondary,
		StrokeEvent:   codes.IsStroke(row.DiagnosisCode),
	}

	h.checkCorrectness(quality)
	return h, nil
}

// checkCorrectness records timestamp anomalies. The event stays usable; it is
// only flagged.
func (h *HospitalEvent) checkCorrectness(quality *Quality) {
	if h.SurgeryTime != nil &&
		(h.SurgeryTime.Before(h.AdmissionTime) || h.SurgeryTime.After(h.DischargeTime)) {
		quality.SurgeryOutOfBounds.Add(1)
		h.Correct = false
	}
	if h.EndTime.Before(h.StartTime) {
		h.Correct = false
	}
}

// syncTimestamps re-anchors this admission directly after the previous
// event's end. With no predecessor the admission keeps a fixed 12-hour offset
// from its raw value. Discharge and surgery follow: a discharge landing on
// the admission date is pulled to one second after it, otherwise pushed 12
// hours; surgery is re-anchored the same way, and a surgery colliding with
// the discharge date pulls discharge to one second after surgery.
func (h *HospitalEvent) syncTimestamps(prev Event) {
	offset := 12 * time.Hour
	if prev != nil {
		offset = prev.Meta().EndTime.Sub(h.AdmissionTime) + time.Second
	}
	h.AdmissionTime = h.AdmissionTime.Add(offset)

	if normalize.SameDate(h.DischargeTime, h.AdmissionTime) {
		h.DischargeTime = h.AdmissionTime.Add(time.Second)
	} else {
		h.DischargeTime = h.DischargeTime.Add(12 * time.Hour)
	}

	if h.SurgeryTime != nil {
		var surgery time.Time
		if normalize.SameDate(*h.SurgeryTime, h.AdmissionTime) {
			surgery = h.AdmissionTime.Add(time.Second)
		} else {
			surgery = h.SurgeryTime.Add(12 * time.Hour)
		}
		h.SurgeryTime = &surgery

		if normalize.SameDate(surgery, h.DischargeTime) {
			h.DischargeTime = surgery.Add(time.Second)
		}
	}

	h.StartTime = h.AdmissionTime
	h.EndTime = h.DischargeTime
}

// syncFromNext rewrites the discharge (and a colliding surgery time) to
// directly precede the successor's start. The admission time is never touched
// by this path: it anchors the episode's entry into hospital care.
func (h *HospitalEvent) syncFromNext(next Event) {
	h.DischargeTime = next.Meta().StartTime.Add(-time.Second)

	if h.SurgeryTime != nil && normalize.SameDate(*h.SurgeryTime, h.DischargeTime) {
		surgery := h.DischargeTime.Add(-time.Second)
		h.SurgeryTime = &surgery
	}

	h.EndTime = h.DischargeTime
}

// ActivityRecords flattens the admission, optional surgery, and discharge
// into activity-log records. Long-stay admissions carry a label prefix.
func (h *HospitalEvent) ActivityRecords(episodeID int64) []ActivityRecord {
	prefix := ""
	if h.LongStay {
		prefix = "long_stay_"
	}

	records := make([]ActivityRecord, 0, 3)

	admission := h.AdmissionTime
	records = append(records, ActivityRecord{
		EpisodeID:       episodeID,
		HospitalEventID: &h.ID,
		Event:           prefix + "hospital_admission",
		Timestamp:       &admission,
		Resource:        h.HospitalCode,
		HospitalID:      &h.HospitalCode,
		AdmissionType:   &h.AdmissionType,
	})

	if h.SurgeryTime != nil {
		records = append(records, ActivityRecord{
			EpisodeID:       episodeID,
			HospitalEventID: &h.ID,
			Event:           prefix + "hospital_surgery",
			Timestamp:       h.SurgeryTime,
			Resource:        h.HospitalCode,
		})
	}

	discharge := h.DischargeTime
	records = append(records, ActivityRecord{
		EpisodeID:             episodeID,
		HospitalEventID:       &h.ID,
		Event:                 prefix + "hospital_discharge",
		Timestamp:             &discharge,
		Resource:              h.HospitalCode,
		HospitalDiagnosisCode: &h.DiagnosisCode,
		HospitalDischargeCode: &h.DischargeCode,
	})

	return records
}
