package episode

import (
	"time"

	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/normalize"
)

// Patient owns its chronological event stream and the episodes reconstructed
// from it. A patient is processed by exactly one worker; nothing here needs
// locking.
type Patient struct {
	ID          string     `json:"patient_id"`
	DateOfBirth *time.Time `json:"dob"`
	DateOfDeath *time.Time `json:"dod"`
	Sex         string     `json:"sex"`

	GMAAffectedSystems *int     `json:"gma_n_affected_systems"`
	GMAWeight          *float64 `json:"gma_weight"`

	LocationHistory []model.LocationInterval `json:"location_history"`
	Episodes        []*Episode               `json:"episode_list"`

	builder *Builder
}

// NewPatient builds a Patient from an identity row, normalizing its
// timestamps to civil UTC.
func (b *Builder) NewPatient(row model.PatientRow) *Patient {
	history := make([]model.LocationInterval, len(row.Locations))
	for i, iv := range row.Locations {
		history[i] = model.LocationInterval{
			LocationID: iv.LocationID,
			From:       normalize.CivilPtr(iv.From),
			To:         normalize.CivilPtr(iv.To),
		}
	}
	return &Patient{
		ID:                 row.PatientID,
		DateOfBirth:        normalize.CivilPtr(row.DateOfBirth),
		DateOfDeath:        normalize.CivilPtr(row.DateOfDeath),
		Sex:                row.Sex,
		GMAAffectedSystems: row.GMAAffectedSystems,
		GMAWeight:          row.GMAWeight,
		LocationHistory:    history,
		builder:            b,
	}
}

// AddEvent feeds the next event of the patient's time-sorted stream into the
// currently open episode. When the event does not link, the closed episode's
// location is resolved and frozen, and the event unconditionally seeds a
// fresh episode: an event is never dropped.
func (p *Patient) AddEvent(ev Event) {
	if len(p.Episodes) == 0 {
		p.Episodes = append(p.Episodes, p.builder.newEpisode(p.ID))
	}

	current := p.Episodes[len(p.Episodes)-1]
	if !current.AddEvent(ev) {
		current.ResolveLocation(p.LocationHistory)

		next := p.builder.newEpisode(p.ID)
		p.Episodes = append(p.Episodes, next)
		next.AddEvent(ev)
	}
}

// CloseEpisodes closes every episode once the patient's stream is exhausted.
// Idempotent on already-closed episodes.
func (p *Patient) CloseEpisodes() {
	for _, ep := range p.Episodes {
		ep.Close()
	}
}

// ActivityRecords flattens the activity of every identified episode.
func (p *Patient) ActivityRecords() []ActivityRecord {
	var records []ActivityRecord
	for _, ep := range p.Episodes {
		if ep.Identified() {
			records = append(records, ep.ActivityRecords()...)
		}
	}
	return records
}
