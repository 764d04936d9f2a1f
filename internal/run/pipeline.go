// Package run sequences the phases of an epilink run: load → scatter →
// close → stats, with an optional persist phase writing the result to
// Postgres. The in-memory phases are shared by build and plan.
package run

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/strokecare/epilink/internal/config"
	"github.com/strokecare/epilink/internal/csvread"
	"github.com/strokecare/epilink/internal/episode"
	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/stroke"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result holds everything the in-memory phases produce: the reconstructed
// patients in deterministic order, the raw event stream in its final sorted
// order, and the run summary.
type Result struct {
	Patients []*episode.Patient
	Events   []episode.Event
	Summary  *model.RunSummary
}

// Build executes the in-memory phases. Nothing is written anywhere; the
// caller decides whether to persist the result.
func Build(cfg *config.Config, log zerolog.Logger) (*Result, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{}

	// Phase 1: Load
	loadStart := time.Now()

	codeRows, err := csvread.ReadStrokeCodes(cfg.StrokeCodes)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	codes := stroke.NewCodebook(codeRows)
	summary.StrokeCodesLoaded = codes.Len()

	quality := &episode.Quality{}
	builder := episode.NewBuilder(
		episode.NewStudyWindow(cfg.FirstDayOfStudy, cfg.LastDayOfStudy),
		quality,
	)

	hospitalRows, rejected, err := csvread.ReadHospitalRows(cfg.HospitalEvents, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	summary.HospitalRowsRead = int64(len(hospitalRows)) + rejected
	summary.RowsRejected += rejected

	urgentRows, rejected, err := csvread.ReadUrgentCareRows(cfg.UrgentCareEvents, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	summary.UrgentCareRowsRead = int64(len(urgentRows)) + rejected
	summary.RowsRejected += rejected

	patientRows, rejected, err := csvread.ReadPatientRows(cfg.PatientsData, log)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	summary.PatientRowsRead = int64(len(patientRows)) + rejected
	summary.RowsRejected += rejected

	var events []episode.Event
	for _, row := range hospitalRows {
		ev, err := episode.NewHospitalEvent(row, codes, quality)
		if err != nil {
			summary.RowsRejected++
			log.Warn().Err(err).Int64("event_id", row.EventID).Msg("hospital event rejected")
			continue
		}
		events = append(events, ev)
	}
	for _, row := range urgentRows {
		ev, err := episode.NewUrgentCareEvent(row, codes, quality)
		if err != nil {
			summary.RowsRejected++
			log.Warn().Err(err).Int64("event_id", row.EventID).Msg("urgent care event rejected")
			continue
		}
		events = append(events, ev)
	}

	summary.DurationLoad = time.Since(loadStart)
	log.Info().
		Int("stroke_codes", summary.StrokeCodesLoaded).
		Int("events", len(events)).
		Int("patients", len(patientRows)).
		Int64("rows_rejected", summary.RowsRejected).
		Dur("duration", summary.DurationLoad).
		Msg("load complete")

	// Phase 2: Scatter events over patients in chronological order.
	scatterStart := time.Now()

	sort.SliceStable(events, func(i, j int) bool {
		return episode.Less(events[i], events[j])
	})

	identities := make(map[string]model.PatientRow, len(patientRows))
	for _, row := range patientRows {
		identities[row.PatientID] = row
	}

	patients := make(map[string]*episode.Patient)
	missing := make(map[string]bool)
	var order []*episode.Patient

	for _, ev := range events {
		id := ev.Meta().PatientID
		p, ok := patients[id]
		if !ok {
			if missing[id] {
				continue
			}
			row, found := identities[id]
			if !found {
				missing[id] = true
				quality.MissingPatients.Add(1)
				continue
			}
			p = builder.NewPatient(row)
			patients[id] = p
			order = append(order, p)
		}
		p.AddEvent(ev)
	}

	summary.DurationScatter = time.Since(scatterStart)
	log.Info().
		Int("patients_with_events", len(order)).
		Int("missing_patients", len(missing)).
		Dur("duration", summary.DurationScatter).
		Msg("scatter complete")

	// Phase 3: Close all episodes.
	closeStart := time.Now()
	for _, p := range order {
		p.CloseEpisodes()
	}
	summary.DurationClose = time.Since(closeStart)

	// Phase 4: Classify.
	counts := quality.Snapshot()
	summary.MissingPatients = counts.MissingPatients
	summary.SuspiciousGranularity = counts.SuspiciousGranularity
	summary.SurgeryOutOfBounds = counts.SurgeryOutOfBounds
	summary.PatientsWritten = int64(len(order))

	for _, p := range order {
		for _, ep := range p.Episodes {
			summary.TotalEpisodes++
			if ep.Identified() {
				summary.IdentifiedEpisodes++
				summary.ActivityRecords += int64(len(ep.ActivityRecords()))
				continue
			}
			if !ep.StrokeEpisode {
				summary.NonStrokeEpisodes++
			}
			if !ep.Correct {
				summary.IncorrectEpisodes++
			}
			if ep.StrokeEpisode && !ep.Correct {
				summary.StrokeButIncorrect++
			}
			if ep.IncorrectEvent {
				summary.IncorrectEvents++
			}
			if ep.BadEndpoint {
				summary.BadEndpoint++
			}
			if ep.LeftCensored {
				summary.LeftCensored++
			}
			if ep.RightCensored {
				summary.RightCensored++
			}
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int64("total_episodes", summary.TotalEpisodes).
		Int64("identified", summary.IdentifiedEpisodes).
		Dur("duration", summary.DurationTotal).
		Msg("linking complete")

	return &Result{Patients: order, Events: events, Summary: summary}, nil
}
