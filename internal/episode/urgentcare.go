package episode

import (
	"fmt"
	"sort"
	"time"

	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/normalize"
	"github.com/strokecare/epilink/internal/stroke"
)

// UrgentCareEvent is one emergency/urgent-care contact. Up to seven candidate
// timestamps may be recorded; the canonical interval is derived from whichever
// are present: start is the earliest of admission, CT, first attention,
// fibrinolysis and observation room, end the latest of observation room,
// discharge and exit.
type UrgentCareEvent struct {
	EventMeta

	AdmissionTime       *time.Time `json:"admission_time"`
	FirstAttentionTime  *time.Time `json:"first_attention_time"`
	CTTime              *time.Time `json:"ct_time"`
	FibrinolysisTime    *time.Time `json:"fibrinolysis_time"`
	ObservationRoomTime *time.Time `json:"observation_room_time"`
	DischargeTime       *time.Time `json:"discharge_time"`
	ExitTime            *time.Time `json:"exit_time"`

	FacilityCode  string `json:"urgent_care_facility_code"`
	DischargeCode int    `json:"discharge_code"`
	DiagnosisCode string `json:"diagnosis_code"`
	Triage        string `json:"triage"`

	CodeStrokeActivated *bool `json:"code_stroke_activated"`
	StrokeSuspect       bool  `json:"stroke_suspect"`
}

// NewUrgentCareEvent constructs and self-validates an urgent-care event from
// a parsed source row. Rows with no usable start or end candidate cannot form
// an interval and are rejected.
func NewUrgentCareEvent(row model.UrgentCareRow, codes *stroke.Codebook, quality *Quality) (*UrgentCareEvent, error) {
	u := &UrgentCareEvent{
		AdmissionTime:       normalize.CivilPtr(row.AdmissionTime),
		FirstAttentionTime:  normalize.CivilPtr(row.FirstAttentionTime),
		CTTime:              normalize.CivilPtr(row.CTTime),
		FibrinolysisTime:    normalize.CivilPtr(row.FibrinolysisTime),
		ObservationRoomTime: normalize.CivilPtr(row.ObservationRoomTime),
		DischargeTime:       normalize.CivilPtr(row.DischargeTime),
		ExitTime:            normalize.CivilPtr(row.ExitTime),
		FacilityCode:        row.FacilityCode,
		DischargeCode:       row.DischargeCode,
		DiagnosisCode:       row.DiagnosisCode,
		Triage:              row.Triage,
		CodeStrokeActivated: row.CodeStrokeActivated,
		StrokeSuspect:       codes.IsStroke(row.DiagnosisCode),
	}

	// Interval endpoints are derived before manual-entry repair.
	start := earliest(u.AdmissionTime, u.CTTime, u.FirstAttentionTime, u.FibrinolysisTime, u.ObservationRoomTime)
	end := latest(u.ObservationRoomTime, u.DischargeTime, u.ExitTime)
	if start == nil || end == nil {
		return nil, fmt.Errorf("urgent care event %d: no usable timestamps", row.EventID)
	}

	u.EventMeta = EventMeta{
		ID:        row.EventID,
		Type:      KindUrgentCare,
		PatientID: row.PatientID,
		StartTime: *start,
		EndTime:   *end,
		Correct:   true,
	}

	u.checkCorrectness(quality)
	return u, nil
}

func (u *UrgentCareEvent) allTimestamps() []*time.Time {
	return []*time.Time{
		u.AdmissionTime,
		u.FirstAttentionTime,
		u.CTTime,
		u.FibrinolysisTime,
		u.ObservationRoomTime,
		u.DischargeTime,
		u.ExitTime,
	}
}

// checkCorrectness counts suspiciously rounded timestamps and repairs
// manually entered CT and fibrinolysis times.
func (u *UrgentCareEvent) checkCorrectness(quality *Quality) {
	for _, t := range u.allTimestamps() {
		if t == nil {
			continue
		}
		if t.Minute()%5 == 0 && t.Second() == 0 {
			quality.SuspiciousGranularity.Add(1)
			u.Suspicious = true
		}
	}

	// CT and fibrinolysis are often keyed in by hand. Each is repaired
	// independently against the admission and first-attention times; both
	// references must be present.
	if u.AdmissionTime != nil && u.FirstAttentionTime != nil {
		u.CTTime = repairManualEntry(u.CTTime, *u.AdmissionTime, *u.FirstAttentionTime)
		u.FibrinolysisTime = repairManualEntry(u.FibrinolysisTime, *u.AdmissionTime, *u.FirstAttentionTime)
	}

	if u.EndTime.Before(u.StartTime) {
		u.Correct = false
	}
}

// repairManualEntry fixes transcription errors in tiers: a year preceding
// both references is overwritten first; with years agreeing, a month
// disagreeing with both is overwritten; with years and months agreeing, a day
// disagreeing with both is overwritten. Internally consistent times pass
// through untouched. Each tier sees the previous tier's result.
func repairManualEntry(t *time.Time, admission, firstAttention time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t

	if v.Year() < admission.Year() && v.Year() < firstAttention.Year() {
		v = replaceDatePart(v, admission.Year(), v.Month(), v.Day())
	}

	yearsAgree := v.Year() == admission.Year() && v.Year() == firstAttention.Year()
	if yearsAgree && v.Month() != admission.Month() && v.Month() != firstAttention.Month() {
		v = replaceDatePart(v, v.Year(), admission.Month(), v.Day())
	}

	monthsAgree := v.Month() == admission.Month() && v.Month() == firstAttention.Month()
	if yearsAgree && monthsAgree && v.Day() != admission.Day() && v.Day() != firstAttention.Day() {
		v = replaceDatePart(v, v.Year(), v.Month(), admission.Day())
	}

	return &v
}

func replaceDatePart(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// secondToLastTime returns the second-latest recorded timestamp. The linking
// engine uses it as a fallback when an exit time was recorded a day late.
func (u *UrgentCareEvent) secondToLastTime() (time.Time, bool) {
	var present []time.Time
	for _, t := range u.allTimestamps() {
		if t != nil {
			present = append(present, *t)
		}
	}
	if len(present) < 2 {
		return time.Time{}, false
	}
	sort.Slice(present, func(i, j int) bool { return present[i].Before(present[j]) })
	return present[len(present)-2], true
}

// syncTimestamps: an urgent-care event never rewrites its own timestamps when
// receiving a link; a hospital predecessor has its discharge pulled back
// instead.
func (u *UrgentCareEvent) syncTimestamps(prev Event) {
	if h, ok := prev.(*HospitalEvent); ok {
		h.syncFromNext(u)
	}
}

// ActivityRecords flattens the contact into activity-log records. Admission
// and discharge are always emitted; the intermediate timestamps only when
// present.
func (u *UrgentCareEvent) ActivityRecords(episodeID int64) []ActivityRecord {
	records := make([]ActivityRecord, 0, 7)

	records = append(records, ActivityRecord{
		EpisodeID:            episodeID,
		UrgentCareEventID:    &u.ID,
		Event:                "urgent_care_admission",
		Timestamp:            u.AdmissionTime,
		Resource:             u.FacilityCode,
		UrgentCareHospitalID: &u.FacilityCode,
		Triage:               &u.Triage,
	})

	optional := []struct {
		label string
		ts    *time.Time
	}{
		{"urgent_care_first_attention", u.FirstAttentionTime},
		{"urgent_care_ct", u.CTTime},
		{"urgent_care_fibrinolysis", u.FibrinolysisTime},
		{"urgent_care_observation_room", u.ObservationRoomTime},
	}
	for _, o := range optional {
		if o.ts == nil {
			continue
		}
		records = append(records, ActivityRecord{
			EpisodeID:         episodeID,
			UrgentCareEventID: &u.ID,
			Event:             o.label,
			Timestamp:         o.ts,
			Resource:          u.FacilityCode,
		})
	}

	records = append(records, ActivityRecord{
		EpisodeID:               episodeID,
		UrgentCareEventID:       &u.ID,
		Event:                   "urgent_care_discharge",
		Timestamp:               u.DischargeTime,
		Resource:                u.FacilityCode,
		UrgentCareDiagnosisCode: &u.DiagnosisCode,
		UrgentCareDischargeCode: &u.DischargeCode,
	})

	if u.ExitTime != nil {
		records = append(records, ActivityRecord{
			EpisodeID:         episodeID,
			UrgentCareEventID: &u.ID,
			Event:             "urgent_care_exit",
			Timestamp:         u.ExitTime,
			Resource:          u.FacilityCode,
		})
	}

	return records
}
