package parquetout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/strokecare/epilink/internal/episode"
)

func TestWriteActivity_RoundTrip(t *testing.T) {
	hospID := int64(7)
	ts := time.Date(2017, 3, 5, 14, 0, 2, 0, time.UTC)
	hospital := "H001"
	code := 2

	records := []episode.ActivityRecord{
		{
			EpisodeID:             1,
			HospitalEventID:       &hospID,
			Event:                 "hospital_admission",
			Timestamp:             &ts,
			Resource:              "hospital",
			HospitalID:            &hospital,
			HospitalDischargeCode: &code,
		},
		{
			EpisodeID: 1,
			Event:     "urgent_care_admission",
			Resource:  "urgent_care",
		},
	}

	path := filepath.Join(t.TempDir(), "activity.parquet")
	if err := WriteActivity(path, records); err != nil {
		t.Fatalf("WriteActivity: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	pf, err := goparquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}

	reader := goparquet.NewGenericReader[activityRow](pf)
	defer reader.Close()

	buf := make([]activityRow, 4)
	n, _ := reader.Read(buf)
	if n != 2 {
		t.Fatalf("read %d rows, want 2", n)
	}

	r := buf[0]
	if r.EpisodeID != 1 || r.Event != "hospital_admission" {
		t.Errorf("row 0 = %+v", r)
	}
	if r.HospitalEventID == nil || *r.HospitalEventID != 7 {
		t.Errorf("HospitalEventID = %v", r.HospitalEventID)
	}
	if r.EventTime == nil || !r.EventTime.Equal(ts) {
		t.Errorf("EventTime = %v, want %v", r.EventTime, ts)
	}
	if buf[1].EventTime != nil {
		t.Errorf("absent timestamp must round-trip as nil, got %v", buf[1].EventTime)
	}
}

func TestWriteActivity_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.parquet")
	if err := WriteActivity(path, nil); err != nil {
		t.Fatalf("WriteActivity: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}
