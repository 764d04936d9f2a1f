package episode

import (
	"testing"
	"time"

	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/stroke"
)

// The study window used across tests, matching the analysis period of the
// source study.
func testWindow() StudyWindow {
	return NewStudyWindow(
		time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC),
	)
}

func testBuilder() *Builder {
	return NewBuilder(testWindow(), &Quality{})
}

// strokeCodes classifies I63.9 (cerebral infarction) as stroke.
func strokeCodes() *stroke.Codebook {
	return stroke.NewCodebook([]stroke.CodeRow{{RawCode: "I63.9", CleanCode: "I639"}})
}

func emptyCodes() *stroke.Codebook {
	return stroke.NewCodebook(nil)
}

func tt(s string) time.Time {
	v, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return v
}

func ttp(s string) *time.Time {
	v := tt(s)
	return &v
}

// mustHospital builds a hospital event, failing the test on a rejected row.
func mustHospital(t *testing.T, b *Builder, codes *stroke.Codebook, row model.HospitalRow) *HospitalEvent {
	t.Helper()
	ev, err := NewHospitalEvent(row, codes, b.Quality())
	if err != nil {
		t.Fatalf("NewHospitalEvent: %v", err)
	}
	return ev
}

// mustUrgentCare builds an urgent-care event, failing the test on a rejected row.
func mustUrgentCare(t *testing.T, b *Builder, codes *stroke.Codebook, row model.UrgentCareRow) *UrgentCareEvent {
	t.Helper()
	ev, err := NewUrgentCareEvent(row, codes, b.Quality())
	if err != nil {
		t.Fatalf("NewUrgentCareEvent: %v", err)
	}
	return ev
}

// strokeHospitalRow is a well-formed stroke hospitalization template.
func strokeHospitalRow(id int64, admission, discharge string, dischargeCode int) model.HospitalRow {
	return model.HospitalRow{
		EventID:       id,
		PatientID:     "p1",
		AdmissionTime: ttp(admission),
		DischargeTime: ttp(discharge),
		HospitalCode:  "H001",
		AdmissionType: "urgent",
		DischargeCode: dischargeCode,
		DiagnosisCode: "I63.9",
	}
}

// strokeUrgentCareRow is a well-formed stroke-suspect urgent-care contact
// with admission and discharge timestamps only.
func strokeUrgentCareRow(id int64, admission, discharge string, dischargeCode int) model.UrgentCareRow {
	return model.UrgentCareRow{
		EventID:       id,
		PatientID:     "p1",
		AdmissionTime: ttp(admission),
		DischargeTime: ttp(discharge),
		FacilityCode:  "U001",
		DischargeCode: dischargeCode,
		DiagnosisCode: "I63.9",
		Triage:        "1",
	}
}
