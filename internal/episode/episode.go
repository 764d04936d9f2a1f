package episode

import (
	"sync/atomic"

	"github.com/strokecare/epilink/internal/model"
)

// Endpoint exclusion lists checked when a stroke episode closes: an episode
// ending on one of these discharge codes should have continued into further
// care that was never observed.
var (
	badUrgentCareEndings = []int{dischargeHome, dischargeToOwnHospital, dischargeToOtherUrgentCare}
	badHospitalEndings   = []int{dischargeHome, dischargeHomeAlt, dischargeLongStay, dischargeLongStayAlt}
)

// Builder holds the shared, run-wide collaborators of episode construction:
// the study window, the quality counters and the episode id sequence. The
// sequence is atomic so patients may be processed in parallel.
type Builder struct {
	window  StudyWindow
	quality *Quality
	seq     atomic.Int64
}

// NewBuilder creates a Builder for one run.
func NewBuilder(window StudyWindow, quality *Quality) *Builder {
	return &Builder{window: window, quality: quality}
}

// Quality exposes the run's quality counters.
func (b *Builder) Quality() *Quality { return b.quality }

func (b *Builder) newEpisode(patientID string) *Episode {
	return &Episode{
		ID:        b.seq.Add(1),
		PatientID: patientID,
		Correct:   true,
		open:      true,
		builder:   b,
	}
}

// Episode is a maximal run of linked clinical events for one patient: one
// continuous stroke-care trajectory. It is append-only while open; once
// closed it is never reopened.
type Episode struct {
	ID        int64  `json:"episode_id"`
	PatientID string `json:"-"`

	LocationID int64 `json:"location_id"`

	StrokeEpisode  bool `json:"stroke"`
	Correct        bool `json:"correct"`
	Suspicious     bool `json:"suspicious"`
	LeftCensored   bool `json:"left_censored"`
	RightCensored  bool `json:"right_censored"`
	BadEndpoint    bool `json:"bad_endpoint"`
	IncorrectEvent bool `json:"incorrect_event"`

	Events []Event `json:"event_list"`

	open    bool
	builder *Builder
}

// IsOpen reports whether the episode still accepts events.
func (e *Episode) IsOpen() bool { return e.open }

// AddEvent appends ev if it continues the episode, running the timestamp
// synchronizer on success. A failed link closes the episode and returns
// false; the caller seeds a new episode with the event. An incorrect event
// propagates to the episode's flags without closing it: incorrectness and
// continuity are orthogonal.
func (e *Episode) AddEvent(ev Event) bool {
	included := false

	if len(e.Events) == 0 {
		e.Events = append(e.Events, ev)
		ev.Meta().EpisodeID = e.ID
		included = true
	} else {
		prev := e.Events[len(e.Events)-1]
		if e.linked(prev, ev) {
			e.Events = append(e.Events, ev)
			ev.Meta().EpisodeID = e.ID
			included = true
			ev.syncTimestamps(prev)
		}
	}

	if !included {
		e.Close()
		return false
	}

	switch v := ev.(type) {
	case *HospitalEvent:
		if v.StrokeEvent {
			e.StrokeEpisode = true
		}
	case *UrgentCareEvent:
		if (v.CodeStrokeActivated != nil && *v.CodeStrokeActivated) || v.StrokeSuspect {
			e.StrokeEpisode = true
		}
	}

	if !ev.Meta().Correct {
		e.IncorrectEvent = true
		e.Correct = false
	}

	return true
}

// Close ends the episode. For a stroke episode still marked correct, the
// terminating event's discharge code is checked against the exclusion lists,
// correctness is reduced to the absence of a bad endpoint, and study-window
// censoring runs on whatever remains a correct stroke episode. Closing an
// already-closed episode is a no-op.
func (e *Episode) Close() {
	if e.open && e.StrokeEpisode && e.Correct && len(e.Events) > 0 {
		last := e.Events[len(e.Events)-1]

		switch v := last.(type) {
		case *UrgentCareEvent:
			if containsCode(badUrgentCareEndings, v.DischargeCode) {
				e.Correct = false
				e.BadEndpoint = true
			}
		case *HospitalEvent:
			if containsCode(badHospitalEndings, v.DischargeCode) {
				e.Correct = false
				e.BadEndpoint = true
			}
		}

		e.Correct = !e.BadEndpoint

		if e.StrokeEpisode && e.Correct {
			e.censor()
		}
	}
	e.open = false
}

// censor applies study-window censoring. Left censoring: the first event
// starts before the window opens. Right censoring: only when not left
// censored, the episode ends in urgent care within 30 days of the window's
// closing instant, so the hospital tail may be unobserved.
func (e *Episode) censor() {
	if len(e.Events) == 0 {
		return
	}
	w := e.builder.window

	if !w.FirstDay.IsZero() {
		if e.Events[0].Meta().StartTime.Before(w.FirstDay) {
			e.LeftCensored = true
		}
	}

	if !w.LastDay.IsZero() && !e.LeftCensored {
		last := e.Events[len(e.Events)-1]
		if last.Kind() == KindUrgentCare &&
			last.Meta().EndTime.After(w.closeInstant().Add(-rightCensorMargin)) {
			e.RightCensored = true
		}
	}
}

// ResolveLocation freezes the episode's location from the patient's location
// history at the first event's start time. Runs only for correct stroke
// episodes; with no matching interval the location stays 0.
func (e *Episode) ResolveLocation(history []model.LocationInterval) {
	if !e.StrokeEpisode || !e.Correct || len(e.Events) == 0 {
		return
	}
	ref := e.Events[0].Meta().StartTime
	for _, iv := range history {
		if iv.From == nil {
			continue
		}
		if !ref.Before(*iv.From) && (iv.To == nil || ref.Before(*iv.To)) {
			e.LocationID = iv.LocationID
			return
		}
	}
}

// ActivityRecords flattens all events of the episode for the activity log.
func (e *Episode) ActivityRecords() []ActivityRecord {
	var records []ActivityRecord
	for _, ev := range e.Events {
		records = append(records, ev.ActivityRecords(e.ID)...)
	}
	return records
}

// Identified reports whether the episode is a usable observation: a correct,
// uncensored stroke episode.
func (e *Episode) Identified() bool {
	return e.StrokeEpisode && e.Correct && !e.LeftCensored && !e.RightCensored
}

func containsCode(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
