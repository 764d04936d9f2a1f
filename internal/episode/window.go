package episode

import (
	"time"

	"github.com/strokecare/epilink/internal/normalize"
)

const rightCensorMargin = 30 * 24 * time.Hour

// StudyWindow is the analysis period used for censoring. Both days are civil
// dates; a zero day disables the corresponding censoring check.
type StudyWindow struct {
	FirstDay time.Time
	LastDay  time.Time
}

// NewStudyWindow builds a window from two calendar dates, truncating any
// time-of-day component.
func NewStudyWindow(first, last time.Time) StudyWindow {
	w := StudyWindow{}
	if !first.IsZero() {
		w.FirstDay = normalize.DateOf(normalize.Civil(first))
	}
	if !last.IsZero() {
		w.LastDay = normalize.DateOf(normalize.Civil(last))
	}
	return w
}

// closeInstant is the last observable instant of the window: LastDay 23:59:59.
func (w StudyWindow) closeInstant() time.Time {
	return w.LastDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
