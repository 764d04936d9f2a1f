package run

import (
	"fmt"
	"io"

	"github.com/strokecare/epilink/internal/model"
)

// PrintTiming writes the per-phase timing block.
func PrintTiming(w io.Writer, s *model.RunSummary) {
	fmt.Fprintln(w, "---------------------------------------------------")
	fmt.Fprintln(w, "TIMING (secs.)")
	fmt.Fprintln(w, "---------------------------------------------------")
	fmt.Fprintf(w, "Load time = %.3f\n", s.DurationLoad.Seconds())
	fmt.Fprintf(w, "Patient event scatter time = %.3f\n", s.DurationScatter.Seconds())
	fmt.Fprintf(w, "Episode closing time = %.3f\n", s.DurationClose.Seconds())
	if s.DurationPersist > 0 {
		fmt.Fprintf(w, "Persistence time = %.3f\n", s.DurationPersist.Seconds())
	}
	fmt.Fprintf(w, "Total time = %.3f\n", s.DurationTotal.Seconds())
}

// PrintStats writes the episode classification block.
func PrintStats(w io.Writer, s *model.RunSummary) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "---------------------------------------------------")
	fmt.Fprintln(w, "STATISTICS")
	fmt.Fprintln(w, "---------------------------------------------------")
	fmt.Fprintf(w, "|---> Total episodes processed = %d\n", s.TotalEpisodes)
	fmt.Fprintf(w, "|---> Identified episodes = %d\n", s.IdentifiedEpisodes)
	fmt.Fprintln(w, "|")
	fmt.Fprintf(w, "|---> Non-stroke episodes = %d\n", s.NonStrokeEpisodes)
	fmt.Fprintf(w, "|---> Stroke episodes and incorrect = %d\n", s.StrokeButIncorrect)
	fmt.Fprintln(w, "|")
	fmt.Fprintf(w, "|---> Incorrect episodes = %d\n", s.IncorrectEpisodes)
	fmt.Fprintf(w, "| |--> Incorrect events = %d\n", s.IncorrectEvents)
	fmt.Fprintf(w, "| |--> Bad endpoint = %d\n", s.BadEndpoint)
	fmt.Fprintln(w, "|")
	fmt.Fprintf(w, "|---> Left censored = %d\n", s.LeftCensored)
	fmt.Fprintf(w, "|---> Right censored = %d\n", s.RightCensored)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "|---> Urgent care suspicious timestamp granularity = %d\n", s.SuspiciousGranularity)
	fmt.Fprintf(w, "|---> Missing patients = %d\n", s.MissingPatients)
}
