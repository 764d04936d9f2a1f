package normalize

import "strings"

// CleanDiagnosisCode strips separator punctuation from a diagnosis code so it
// can be matched against the clean codes of the stroke reference table.
// ICD codes are case- and digit-significant, so only separators are removed.
func CleanDiagnosisCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.NewReplacer(".", "", "-", "", " ", "").Replace(code)
}
