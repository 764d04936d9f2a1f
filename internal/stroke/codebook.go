// Package stroke holds the reference code table used to classify diagnosis
// codes as stroke or non-stroke. The codebook is loaded once before any event
// is constructed and is read-only afterwards, so it is safe to share across
// patient workers.
package stroke

import (
	"github.com/strokecare/epilink/internal/normalize"
)

// CodeRow is one row of the stroke reference table: the raw code as published
// and its separator-free clean form.
type CodeRow struct {
	RawCode   string
	CleanCode string
}

// Codebook answers "is this diagnosis code a stroke code?" by clean-code lookup.
type Codebook struct {
	clean map[string]struct{}
}

// NewCodebook builds a read-only codebook from reference table rows. Rows with
// an empty clean code fall back to cleaning the raw code.
func NewCodebook(rows []CodeRow) *Codebook {
	cb := &Codebook{clean: make(map[string]struct{}, len(rows))}
	for _, r := range rows {
		code := r.CleanCode
		if code == "" {
			code = normalize.CleanDiagnosisCode(r.RawCode)
		}
		if code == "" {
			continue
		}
		cb.clean[code] = struct{}{}
	}
	return cb
}

// Len returns the number of distinct clean codes loaded.
func (cb *Codebook) Len() int {
	return len(cb.clean)
}

// IsStroke reports whether the diagnosis code matches the reference table.
// An absent code is never a stroke.
func (cb *Codebook) IsStroke(code string) bool {
	if code == "" {
		return false
	}
	_, ok := cb.clean[normalize.CleanDiagnosisCode(code)]
	return ok
}
