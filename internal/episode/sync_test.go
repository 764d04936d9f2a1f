package episode

import (
	"testing"
	"time"
)

func TestSync_HospitalReceivingLinkNudgesAdmission(t *testing.T) {
	b := testBuilder()
	prev := mustUrgentCare(t, b, emptyCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 2))
	next := mustHospital(t, b, emptyCodes(), strokeHospitalRow(2, "2017-03-05 14:00:02", "2017-03-12 09:00:00", 1))
	next.HospitalCode = "H777" // different facility; prev code 2 links

	ep := b.newEpisode("p1")
	ep.AddEvent(prev)
	if !ep.AddEvent(next) {
		t.Fatal("expected link")
	}

	wantAdmission := tt("2017-03-05 13:02:34") // one second after prev end
	if !next.AdmissionTime.Equal(wantAdmission) {
		t.Errorf("admission = %v, want %v", next.AdmissionTime, wantAdmission)
	}
	// Discharge was on a different date and is pushed 12 hours.
	wantDischarge := tt("2017-03-12 21:00:00")
	if !next.DischargeTime.Equal(wantDischarge) {
		t.Errorf("discharge = %v, want %v", next.DischargeTime, wantDischarge)
	}
	if !next.StartTime.Equal(next.AdmissionTime) || !next.EndTime.Equal(next.DischargeTime) {
		t.Error("canonical interval must follow the repaired timestamps")
	}
}

func TestSync_SameDateDischargePulledBehindAdmission(t *testing.T) {
	b := testBuilder()
	prev := mustUrgentCare(t, b, emptyCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 2))
	next := mustHospital(t, b, emptyCodes(), strokeHospitalRow(2, "2017-03-05 14:00:02", "2017-03-05 20:00:00", 1))
	next.HospitalCode = "H777"

	ep := b.newEpisode("p1")
	ep.AddEvent(prev)
	if !ep.AddEvent(next) {
		t.Fatal("expected link")
	}

	if got := next.DischargeTime.Sub(next.AdmissionTime); got != time.Second {
		t.Errorf("discharge - admission = %v, want 1s", got)
	}
}

func TestSync_SurgeryReanchoredWithAdmission(t *testing.T) {
	b := testBuilder()
	prev := mustUrgentCare(t, b, emptyCodes(), strokeUrgentCareRow(1, "2017-03-05 08:12:41", "2017-03-05 13:02:33", 2))
	row := strokeHospitalRow(2, "2017-03-05 14:00:02", "2017-03-12 09:00:00", 1)
	row.SurgeryTime = ttp("2017-03-05 16:30:11")
	next := mustHospital(t, b, emptyCodes(), row)
	next.HospitalCode = "H777"

	ep := b.newEpisode("p1")
	ep.AddEvent(prev)
	if !ep.AddEvent(next) {
		t.Fatal("expected link")
	}

	// Surgery shared the admission date and follows the new admission.
	want := next.AdmissionTime.Add(time.Second)
	if next.SurgeryTime == nil || !next.SurgeryTime.Equal(want) {
		t.Errorf("surgery = %v, want %v", next.SurgeryTime, want)
	}
}

// Scenario: a hospital stay discharged with code 20 hands over to urgent care
// on the discharge date. The events link, the hospital admission anchor is
// untouched, and the discharge is pulled to one second before the urgent-care
// start.
func TestSync_HospitalDischargePulledBeforeUrgentCareStart(t *testing.T) {
	b := testBuilder()
	prev := mustHospital(t, b, emptyCodes(), strokeHospitalRow(1, "2017-03-01 10:00:00", "2017-03-05 11:00:00", 20))
	nextRow := strokeUrgentCareRow(2, "2017-03-05 12:30:11", "2017-03-05 18:42:07", 1)
	nextRow.FacilityCode = "U777"
	next := mustUrgentCare(t, b, emptyCodes(), nextRow)

	ep := b.newEpisode("p1")
	ep.AddEvent(prev)
	if !ep.AddEvent(next) {
		t.Fatal("expected link")
	}

	if !prev.AdmissionTime.Equal(tt("2017-03-01 10:00:00")) {
		t.Errorf("admission moved to %v; sync-from-next must never touch it", prev.AdmissionTime)
	}
	wantDischarge := tt("2017-03-05 12:30:10")
	if !prev.DischargeTime.Equal(wantDischarge) {
		t.Errorf("discharge = %v, want %v", prev.DischargeTime, wantDischarge)
	}
	if !prev.EndTime.Equal(prev.DischargeTime) {
		t.Error("canonical end must follow the repaired discharge")
	}
	// The urgent-care event's own timestamps are untouched.
	if !next.StartTime.Equal(tt("2017-03-05 12:30:11")) {
		t.Error("urgent-care events never rewrite their own timestamps on receipt")
	}
}

func TestSync_CollidingSurgeryPulledBeforeDischarge(t *testing.T) {
	b := testBuilder()
	row := strokeHospitalRow(1, "2017-03-01 10:00:00", "2017-03-05 11:00:00", 20)
	row.SurgeryTime = ttp("2017-03-05 09:15:27")
	prev := mustHospital(t, b, emptyCodes(), row)
	next := mustUrgentCare(t, b, emptyCodes(), strokeUrgentCareRow(2, "2017-03-05 12:30:11", "2017-03-05 18:42:07", 1))

	ep := b.newEpisode("p1")
	ep.AddEvent(prev)
	if !ep.AddEvent(next) {
		t.Fatal("expected link")
	}

	want := prev.DischargeTime.Add(-time.Second)
	if prev.SurgeryTime == nil || !prev.SurgeryTime.Equal(want) {
		t.Errorf("surgery = %v, want %v", prev.SurgeryTime, want)
	}
}

func TestSync_FirstEventOffsetWithoutPredecessor(t *testing.T) {
	b := testBuilder()
	ev := mustHospital(t, b, emptyCodes(), strokeHospitalRow(1, "2017-03-01 10:00:00", "2017-03-05 11:00:00", 1))

	ev.syncTimestamps(nil)

	if !ev.AdmissionTime.Equal(tt("2017-03-01 22:00:00")) {
		t.Errorf("admission = %v, want raw admission + 12h", ev.AdmissionTime)
	}
	if !ev.DischargeTime.Equal(tt("2017-03-05 23:00:00")) {
		t.Errorf("discharge = %v, want raw discharge + 12h", ev.DischargeTime)
	}
}
