// Package episode reconstructs stroke care episodes from independently
// recorded hospital-admission and urgent-care event streams: it links
// temporally and causally related events, repairs cross-source timestamps,
// and classifies each episode as a usable or excluded observation.
package episode

import (
	"time"

	"github.com/strokecare/epilink/internal/normalize"
)

// Kind identifies one of the two concrete event kinds.
type Kind string

const (
	KindHospital   Kind = "HOSP"
	KindUrgentCare Kind = "URG"
)

// EventMeta holds the fields shared by both event kinds. Timestamps are civil
// UTC. EpisodeID is 0 until the event is accepted into an episode.
type EventMeta struct {
	ID        int64  `json:"event_id"`
	Type      Kind   `json:"event_type"`
	PatientID string `json:"patient_id"`
	EpisodeID int64  `json:"episode_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Correct    bool `json:"correct"`
	Suspicious bool `json:"suspicious"`
}

// Meta returns the shared event fields.
func (m *EventMeta) Meta() *EventMeta { return m }

// Kind returns the event kind.
func (m *EventMeta) Kind() Kind { return m.Type }

// Event is the closed set of clinical event kinds. Only HospitalEvent and
// UrgentCareEvent implement it; the linking engine and synchronizer
// type-switch over the concrete types.
type Event interface {
	Meta() *EventMeta
	Kind() Kind

	// ActivityRecords flattens the event into one record per clinically
	// meaningful sub-event for the outbound activity log.
	ActivityRecords(episodeID int64) []ActivityRecord

	// syncTimestamps repairs timestamps after this event has been linked
	// behind prev. It also seals the interface.
	syncTimestamps(prev Event)
}

// Less is the total order for same-patient event streams: events of the same
// kind order by start time; events of different kinds on the same calendar
// date put urgent care before hospitalization; otherwise order by date.
func Less(a, b Event) bool {
	am, bm := a.Meta(), b.Meta()
	if a.Kind() == b.Kind() {
		return am.StartTime.Before(bm.StartTime)
	}
	if normalize.SameDate(am.StartTime, bm.StartTime) {
		return a.Kind() == KindUrgentCare
	}
	return normalize.DateOf(am.StartTime).Before(normalize.DateOf(bm.StartTime))
}
