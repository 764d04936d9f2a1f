package episode

import (
	"time"

	"github.com/strokecare/epilink/internal/normalize"
)

// Discharge codes with continuity meaning. The numeric values are fixed by
// the regional dataset's coding manual.
const (
	// dischargeHome and dischargeHomeAlt end care at home.
	dischargeHome    = 2
	dischargeHomeAlt = 20
	// dischargeLongStay and dischargeLongStayAlt transfer to extended care.
	dischargeLongStay    = 5
	dischargeLongStayAlt = 50
	// dischargeToOwnHospital admits from urgent care into the same facility.
	dischargeToOwnHospital = 6
	// dischargeToOtherUrgentCare transfers between urgent-care facilities.
	dischargeToOtherUrgentCare = 11
)

const urgentCareChainGap = 3 * time.Hour

// linked decides whether next continues the episode that prev belongs to.
// Both events are already temporally ordered for the same patient. Failed
// endpoint validations mark the episode's BadEndpoint flag even though no
// link is made: the reason the episode ended looks anomalous regardless of
// whether care continued.
func (e *Episode) linked(prev, next Event) bool {
	prevStart := prev.Meta().StartTime
	prevEnd := prev.Meta().EndTime
	nextStart := next.Meta().StartTime

	// Containment guard: an event starting strictly inside the previous
	// event's interval never links.
	if normalize.DateOf(prevStart).Before(normalize.DateOf(nextStart)) &&
		normalize.DateOf(prevEnd).After(normalize.DateOf(nextStart)) {
		return false
	}

	switch p := prev.(type) {
	case *HospitalEvent:
		switch n := next.(type) {
		case *HospitalEvent:
			return e.linkHospitalToHospital(p, n)
		case *UrgentCareEvent:
			return linkHospitalToUrgentCare(p, n)
		}
	case *UrgentCareEvent:
		switch n := next.(type) {
		case *HospitalEvent:
			return e.linkUrgentCareToHospital(p, n)
		case *UrgentCareEvent:
			return e.linkUrgentCareToUrgentCare(p, n)
		}
	}
	return false
}

// Hospital → Hospital: a same-date discharge chains only on a home or
// long-stay code; long-stay codes mark the next admission. A same-date pair
// with any other code is an anomalous endpoint.
func (e *Episode) linkHospitalToHospital(prev, next *HospitalEvent) bool {
	if !normalize.SameDate(prev.EndTime, next.StartTime) {
		return false
	}
	switch prev.DischargeCode {
	case dischargeHome, dischargeHomeAlt, dischargeLongStay, dischargeLongStayAlt:
		if prev.DischargeCode == dischargeLongStay || prev.DischargeCode == dischargeLongStayAlt {
			next.LongStay = true
		}
		return true
	default:
		e.BadEndpoint = true
		return false
	}
}

// Hospital → UrgentCare: urgent care after a hospitalization continues the
// episode only on a same-date home discharge.
func linkHospitalToUrgentCare(prev *HospitalEvent, next *UrgentCareEvent) bool {
	if !normalize.SameDate(prev.EndTime, next.StartTime) {
		return false
	}
	return prev.DischargeCode == dischargeHome || prev.DischargeCode == dischargeHomeAlt
}

// UrgentCare → Hospital: same-date or next-day admission chains, with a
// fallback on the second-to-last urgent-care timestamp for exit times
// recorded a day late. A chained endpoint must also be code-consistent:
// admission into the same facility needs code 6, into a different facility
// code 2.
func (e *Episode) linkUrgentCareToHospital(prev *UrgentCareEvent, next *HospitalEvent) bool {
	prevEndDate := normalize.DateOf(prev.EndTime)
	nextStartDate := normalize.DateOf(next.StartTime)

	ok := prevEndDate.Equal(nextStartDate) || prevEndDate.AddDate(0, 0, 1).Equal(nextStartDate)

	if !ok && prevEndDate.After(nextStartDate) {
		if stl, has := prev.secondToLastTime(); has && normalize.SameDate(stl, next.StartTime) {
			ok = true
		}
	}

	if ok {
		if prev.FacilityCode == next.HospitalCode && prev.DischargeCode != dischargeToOwnHospital {
			e.BadEndpoint = true
			ok = false
		}
		if prev.FacilityCode != next.HospitalCode && prev.DischargeCode != dischargeHome {
			e.BadEndpoint = true
			ok = false
		}
	}
	return ok
}

// UrgentCare → UrgentCare: chains when the next contact starts at, or within
// three hours after, the previous end. A cross-facility chain needs the
// inter-facility transfer code.
func (e *Episode) linkUrgentCareToUrgentCare(prev, next *UrgentCareEvent) bool {
	prevEnd := prev.EndTime
	nextStart := next.StartTime

	ok := prevEnd.Equal(nextStart) ||
		(nextStart.After(prevEnd) && !nextStart.After(prevEnd.Add(urgentCareChainGap)))

	if ok && prev.FacilityCode != next.FacilityCode && prev.DischargeCode != dischargeToOtherUrgentCare {
		e.BadEndpoint = true
		ok = false
	}
	return ok
}
