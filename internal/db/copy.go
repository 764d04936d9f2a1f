package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/strokecare/epilink/internal/episode"
)

// ActivitySource implements pgx.CopyFromSource by reading activity records
// from a channel. This provides natural backpressure between episode
// flattening and the COPY writer.
type ActivitySource struct {
	ch      <-chan *episode.ActivityRecord
	current *episode.ActivityRecord
	err     error
}

// NewActivitySource creates a CopyFromSource backed by a channel.
func NewActivitySource(ch <-chan *episode.ActivityRecord) *ActivitySource {
	return &ActivitySource{ch: ch}
}

// Next advances to the next record. Returns false when the channel is closed.
func (s *ActivitySource) Next() bool {
	rec, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = rec
	return true
}

// Values returns the current record's values in COPY column order.
func (s *ActivitySource) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err returns any error encountered during iteration.
func (s *ActivitySource) Err() error {
	return s.err
}

// Compile-time check that ActivitySource satisfies the interface.
var _ pgx.CopyFromSource = (*ActivitySource)(nil)
