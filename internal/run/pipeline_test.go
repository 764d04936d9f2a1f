package run_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/strokecare/epilink/internal/config"
	"github.com/strokecare/epilink/internal/run"
)

// writeFixtures lays down a small but complete input set:
//   - p1: urgent-care contact handed over to a hospital stay the same day,
//     a correct identified stroke episode
//   - p2: a lone non-stroke hospital stay
//   - p3: a stroke contact with no identity record
func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	cfg := config.New()
	cfg.StrokeCodes = write("codes.csv",
		"code;clean_code\nI63.9;I639\n")

	cfg.HospitalEvents = write("hospital.csv",
		"event_id,patient_id,admission_time,surgery_time,discharge_time,"+
			"hospital_code,admission_type,discharge_code,diagnosis_code,poa1\n"+
			"100,p1,2017-03-05 14:00:02,,2017-03-12 09:00:00,H777,1,1,I63.9,S\n"+
			"101,p2,2017-05-10 10:00:00,,2017-05-20 11:00:00,H777,1,1,J18.9,S\n")

	cfg.UrgentCareEvents = write("urgent.csv",
		"event_id,patient_id,admission_time,first_attention_time,ct_time,"+
			"fibrinolysis_time,observation_room_time,discharge_time,exit_time,"+
			"urgent_care_facility_code,discharge_code,diagnosis_code,triage,code_stroke_activated\n"+
			"200,p1,2017-03-05 08:12:41,,,,,2017-03-05 13:02:33,,U001,2,I63.9,2,S\n"+
			"201,p3,2017-06-01 10:00:00,,,,,2017-06-01 12:00:00,,U001,1,I63.9,2,S\n")

	cfg.PatientsData = write("patients.csv",
		"patient_id,dob,dod,sex,location_id,from_dt,to_dt\n"+
			"p1,1948-02-11,,F,31,2000-01-01,\n"+
			"p2,1955-09-02,,M,12,1990-01-01,\n")

	return cfg
}

func TestBuild(t *testing.T) {
	cfg := writeFixtures(t)

	res, err := run.Build(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := res.Summary

	if s.StrokeCodesLoaded != 1 {
		t.Errorf("StrokeCodesLoaded = %d, want 1", s.StrokeCodesLoaded)
	}
	if s.HospitalRowsRead != 2 || s.UrgentCareRowsRead != 2 {
		t.Errorf("rows read = %d/%d, want 2/2", s.HospitalRowsRead, s.UrgentCareRowsRead)
	}
	if s.RowsRejected != 0 {
		t.Errorf("RowsRejected = %d, want 0", s.RowsRejected)
	}
	if len(res.Events) != 4 {
		t.Fatalf("got %d events, want 4", len(res.Events))
	}

	if s.TotalEpisodes != 2 {
		t.Errorf("TotalEpisodes = %d, want 2", s.TotalEpisodes)
	}
	if s.IdentifiedEpisodes != 1 {
		t.Errorf("IdentifiedEpisodes = %d, want 1", s.IdentifiedEpisodes)
	}
	if s.NonStrokeEpisodes != 1 {
		t.Errorf("NonStrokeEpisodes = %d, want 1", s.NonStrokeEpisodes)
	}
	if s.MissingPatients != 1 {
		t.Errorf("MissingPatients = %d, want 1", s.MissingPatients)
	}
	if s.PatientsWritten != 2 {
		t.Errorf("PatientsWritten = %d, want 2", s.PatientsWritten)
	}

	// Urgent-care handover plus a hospital stay: 2 + 2 sub-events.
	if s.ActivityRecords != 4 {
		t.Errorf("ActivityRecords = %d, want 4", s.ActivityRecords)
	}
}

func TestBuild_LinkedEpisodeSpansBothEvents(t *testing.T) {
	cfg := writeFixtures(t)

	res, err := run.Build(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var found bool
	for _, p := range res.Patients {
		if p.ID != "p1" {
			continue
		}
		found = true
		if len(p.Episodes) != 1 {
			t.Fatalf("p1 has %d episodes, want 1", len(p.Episodes))
		}
		ep := p.Episodes[0]
		if len(ep.Events) != 2 {
			t.Fatalf("p1 episode has %d events, want 2", len(ep.Events))
		}
		if !ep.StrokeEpisode || !ep.Correct {
			t.Errorf("p1 episode stroke/correct = %v/%v", ep.StrokeEpisode, ep.Correct)
		}
		if ep.Events[0].Kind() != "URG" || ep.Events[1].Kind() != "HOSP" {
			t.Errorf("event order = %s, %s", ep.Events[0].Kind(), ep.Events[1].Kind())
		}
	}
	if !found {
		t.Fatal("p1 not in result")
	}
}

func TestBuild_MissingInputFails(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.StrokeCodes = filepath.Join(t.TempDir(), "nope.csv")

	_, err := run.Build(cfg, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing stroke codes file")
	}
	var perr *run.PipelineError
	if !errors.As(err, &perr) || perr.Phase != "load" {
		t.Errorf("error = %v, want load-phase PipelineError", err)
	}
}

func TestPrintStats(t *testing.T) {
	cfg := writeFixtures(t)
	res, err := run.Build(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var sb strings.Builder
	run.PrintStats(&sb, res.Summary)
	out := sb.String()

	for _, want := range []string{
		"Total episodes processed = 2",
		"Identified episodes = 1",
		"Non-stroke episodes = 1",
		"Missing patients = 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}
