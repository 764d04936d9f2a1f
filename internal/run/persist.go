package run

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/strokecare/epilink/internal/config"
	"github.com/strokecare/epilink/internal/db"
	"github.com/strokecare/epilink/internal/episode"
	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/parquetout"
	embedsql "github.com/strokecare/epilink/internal/sql"
)

// Run executes the full pipeline and persists the result: the raw event log,
// one document per patient, the flattened activity log of identified
// episodes, and the run summary. Each run replaces the previous output.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	res, err := Build(cfg, log)
	if err != nil {
		return nil, err
	}

	persistStart := time.Now()
	runID := uuid.New()
	res.Summary.RunID = runID.String()

	if err := persist(ctx, pool, log, runID, res); err != nil {
		return nil, &PipelineError{Phase: "persist", Err: err}
	}
	res.Summary.DurationPersist = time.Since(persistStart)

	if cfg.ActivityParquet != "" {
		records := activityRecords(res.Patients)
		if err := parquetout.WriteActivity(cfg.ActivityParquet, records); err != nil {
			return nil, &PipelineError{Phase: "persist", Err: err}
		}
		log.Info().Str("path", cfg.ActivityParquet).Int("records", len(records)).
			Msg("activity parquet written")
	}

	res.Summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("run_id", res.Summary.RunID).
		Int64("patients", res.Summary.PatientsWritten).
		Int64("activity_records", res.Summary.ActivityRecords).
		Dur("total_duration", res.Summary.DurationTotal).
		Msg("pipeline complete")

	return res.Summary, nil
}

func persist(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID, res *Result) error {
	if _, err := pool.Exec(ctx, embedsql.TruncateOutputs); err != nil {
		return fmt.Errorf("truncate outputs: %w", err)
	}

	// Raw event log: every constructed event, linked or not.
	for _, ev := range res.Events {
		doc, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", ev.Meta().ID, err)
		}
		if _, err := pool.Exec(ctx, embedsql.InsertEvent,
			string(ev.Kind()), ev.Meta().ID, runID, doc); err != nil {
			return fmt.Errorf("insert event %d: %w", ev.Meta().ID, err)
		}
	}
	log.Info().Int("events", len(res.Events)).Msg("event log written")

	// Patient documents with embedded episodes.
	for _, p := range res.Patients {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal patient %s: %w", p.ID, err)
		}
		if _, err := pool.Exec(ctx, embedsql.InsertPatient, p.ID, runID, doc); err != nil {
			return fmt.Errorf("insert patient %s: %w", p.ID, err)
		}
	}
	log.Info().Int("patients", len(res.Patients)).Msg("patient documents written")

	// Activity log via COPY, fed through a channel source.
	records := activityRecords(res.Patients)
	ch := make(chan *episode.ActivityRecord, 256)
	go func() {
		defer close(ch)
		for i := range records {
			select {
			case ch <- &records[i]:
			case <-ctx.Done():
				return
			}
		}
	}()

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"stroke", "activity_log"},
		episode.ActivityColumns(),
		db.NewActivitySource(ch),
	)
	if err != nil {
		return fmt.Errorf("copy activity log: %w", err)
	}
	log.Info().Int64("records", copied).Msg("activity log written")

	summaryDoc, err := json.Marshal(res.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if _, err := pool.Exec(ctx, embedsql.RecordRun, runID, summaryDoc); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func activityRecords(patients []*episode.Patient) []episode.ActivityRecord {
	var records []episode.ActivityRecord
	for _, p := range patients {
		records = append(records, p.ActivityRecords()...)
	}
	return records
}
