package episode

import (
	"testing"

	"github.com/strokecare/epilink/internal/model"
)

func testPatientRow() model.PatientRow {
	return model.PatientRow{
		PatientID:   "p1",
		DateOfBirth: ttp("1948-02-11 00:00:00"),
		Sex:         "F",
		Locations: []model.LocationInterval{
			{LocationID: 31, From: ttp("2000-01-01 00:00:00"), To: nil},
		},
	}
}

func TestPatient_SplitsUnlinkableEvents(t *testing.T) {
	b := testBuilder()
	p := b.NewPatient(testPatientRow())

	first := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 1))
	// Months later: cannot link, seeds a new episode.
	second := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(2, "2017-07-20 09:30:12", "2017-07-20 15:11:03", 1))

	p.AddEvent(first)
	p.AddEvent(second)

	if len(p.Episodes) != 2 {
		t.Fatalf("got %d episodes, want 2", len(p.Episodes))
	}
	if p.Episodes[0].IsOpen() {
		t.Error("the failed episode must be closed")
	}
	if !p.Episodes[1].IsOpen() {
		t.Error("the new episode must stay open")
	}
	if second.EpisodeID != p.Episodes[1].ID {
		t.Error("the unlinked event must seed the new episode")
	}
}

func TestPatient_FrozenLocationOnSplit(t *testing.T) {
	b := testBuilder()
	p := b.NewPatient(testPatientRow())

	first := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 1))
	second := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(2, "2017-07-20 09:30:12", "2017-07-20 15:11:03", 1))

	p.AddEvent(first)
	p.AddEvent(second)

	if p.Episodes[0].LocationID != 31 {
		t.Errorf("LocationID = %d, want 31", p.Episodes[0].LocationID)
	}
	// The open episode has not been resolved.
	if p.Episodes[1].LocationID != 0 {
		t.Errorf("open episode LocationID = %d, want 0", p.Episodes[1].LocationID)
	}
}

func TestPatient_LinkedChainStaysInOneEpisode(t *testing.T) {
	b := testBuilder()
	p := b.NewPatient(testPatientRow())

	urg := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 2))
	hosp := mustHospital(t, b, strokeCodes(), strokeHospitalRow(2, "2017-03-05 14:00:02", "2017-03-12 09:00:00", 1))
	hosp.HospitalCode = "H777"

	p.AddEvent(urg)
	p.AddEvent(hosp)

	if len(p.Episodes) != 1 {
		t.Fatalf("got %d episodes, want 1", len(p.Episodes))
	}
	if got := len(p.Episodes[0].Events); got != 2 {
		t.Fatalf("got %d events in episode, want 2", got)
	}
	if urg.EpisodeID != hosp.EpisodeID {
		t.Error("linked events must share an episode id")
	}
}

func TestPatient_CloseEpisodesClosesEverything(t *testing.T) {
	b := testBuilder()
	p := b.NewPatient(testPatientRow())

	p.AddEvent(mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 1)))
	p.CloseEpisodes()

	for _, ep := range p.Episodes {
		if ep.IsOpen() {
			t.Error("expected all episodes closed")
		}
	}
	// Second call is a no-op.
	p.CloseEpisodes()
}

func TestPatient_ActivityOnlyForIdentifiedEpisodes(t *testing.T) {
	b := testBuilder()
	p := b.NewPatient(testPatientRow())

	// Correct stroke episode, neutral ending code.
	good := mustUrgentCare(t, b, strokeCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 1))
	// Non-stroke contact months later.
	otherRow := strokeUrgentCareRow(2, "2017-07-20 09:30:12", "2017-07-20 15:11:03", 1)
	otherRow.DiagnosisCode = "J18.9"
	other := mustUrgentCare(t, b, strokeCodes(), otherRow)

	p.AddEvent(good)
	p.AddEvent(other)
	p.CloseEpisodes()

	records := p.ActivityRecords()
	if len(records) != 2 {
		t.Fatalf("got %d activity records, want 2 (admission+discharge of the stroke episode)", len(records))
	}
	for _, r := range records {
		if r.EpisodeID != p.Episodes[0].ID {
			t.Errorf("record %q comes from episode %d, want %d", r.Event, r.EpisodeID, p.Episodes[0].ID)
		}
	}
}
