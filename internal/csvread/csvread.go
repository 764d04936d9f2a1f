// Package csvread parses the four CSV extracts feeding a run: hospital
// admissions, urgent-care contacts, patient identities and the stroke
// reference codes. Readers are strict about headers and lenient about row
// content: a malformed row is logged and skipped, never fatal.
package csvread

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/strokecare/epilink/internal/model"
	"github.com/strokecare/epilink/internal/normalize"
	"github.com/strokecare/epilink/internal/stroke"
)

// header maps column names to their index in the CSV header row.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(record))
	for i, name := range record {
		h[name] = i
	}
	return h, nil
}

// require verifies that every named column is present.
func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}
	return nil
}

func (h header) str(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func (h header) timestamp(record []string, name string) *time.Time {
	return normalize.ParseTimestamp(h.str(record, name))
}

func (h header) intVal(record []string, name string) (int, error) {
	s := h.str(record, name)
	if s == "" {
		return 0, nil
	}
	// pandas round-trips integer columns with missing values as floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), nil
	}
	return strconv.Atoi(s)
}

func (h header) int64Val(record []string, name string) (int64, error) {
	s := h.str(record, name)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// boolSN parses the source's S/N flag; blank means unknown.
func (h header) boolSN(record []string, name string) *bool {
	switch h.str(record, name) {
	case "S":
		v := true
		return &v
	case "N":
		v := false
		return &v
	}
	return nil
}

func open(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return f, r, nil
}

// ReadHospitalRows parses the hospital-admissions extract. Returns the parsed
// rows and the count of rejected ones.
func ReadHospitalRows(path string, log zerolog.Logger) ([]model.HospitalRow, int64, error) {
	f, r, err := open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("hospital events: %w", err)
	}
	defer f.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("hospital events: %w", err)
	}
	if err := h.require("event_id", "patient_id", "admission_time", "surgery_time",
		"discharge_time", "hospital_code", "admission_type", "discharge_code",
		"diagnosis_code", "poa1"); err != nil {
		return nil, 0, fmt.Errorf("hospital events: %w", err)
	}

	var rows []model.HospitalRow
	var rejected int64
	var rowNum int64

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejected, fmt.Errorf("hospital events row %d: %w", rowNum+1, err)
		}
		rowNum++

		row := model.HospitalRow{
			PatientID:     h.str(record, "patient_id"),
			AdmissionTime: h.timestamp(record, "admission_time"),
			SurgeryTime:   h.timestamp(record, "surgery_time"),
			DischargeTime: h.timestamp(record, "discharge_time"),
			HospitalCode:  h.str(record, "hospital_code"),
			AdmissionType: h.str(record, "admission_type"),
			DiagnosisCode: h.str(record, "diagnosis_code"),
			POA:           h.str(record, "poa1"),
		}

		row.EventID, err = h.int64Val(record, "event_id")
		if err != nil {
			rejected++
			log.Warn().Err(err).Int64("row", rowNum).Msg("hospital row rejected")
			continue
		}
		row.DischargeCode, err = h.intVal(record, "discharge_code")
		if err != nil {
			rejected++
			log.Warn().Err(err).Int64("row", rowNum).Msg("hospital row rejected")
			continue
		}

		// Secondary diagnosis columns d2..d15 with poa2..poa15.
		for i := 2; i <= 15; i++ {
			code := h.str(record, fmt.Sprintf("d%d", i))
			poa := h.str(record, fmt.Sprintf("poa%d", i))
			if code == "" {
				continue
			}
			row.Secondary = append(row.Secondary, model.SecondaryDiagnosis{Code: code, POA: poa})
		}

		rows = append(rows, row)
	}
	return rows, rejected, nil
}

// ReadUrgentCareRows parses the emergency-department extract.
func ReadUrgentCareRows(path string, log zerolog.Logger) ([]model.UrgentCareRow, int64, error) {
	f, r, err := open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("urgent care events: %w", err)
	}
	defer f.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("urgent care events: %w", err)
	}
	if err := h.require("event_id", "patient_id", "admission_time",
		"first_attention_time", "ct_time", "fibrinolysis_time",
		"observation_room_time", "discharge_time", "exit_time",
		"urgent_care_facility_code", "discharge_code", "diagnosis_code",
		"triage", "code_stroke_activated"); err != nil {
		return nil, 0, fmt.Errorf("urgent care events: %w", err)
	}

	var rows []model.UrgentCareRow
	var rejected int64
	var rowNum int64

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejected, fmt.Errorf("urgent care events row %d: %w", rowNum+1, err)
		}
		rowNum++

		row := model.UrgentCareRow{
			PatientID:           h.str(record, "patient_id"),
			AdmissionTime:       h.timestamp(record, "admission_time"),
			FirstAttentionTime:  h.timestamp(record, "first_attention_time"),
			CTTime:              h.timestamp(record, "ct_time"),
			FibrinolysisTime:    h.timestamp(record, "fibrinolysis_time"),
			ObservationRoomTime: h.timestamp(record, "observation_room_time"),
			DischargeTime:       h.timestamp(record, "discharge_time"),
			ExitTime:            h.timestamp(record, "exit_time"),
			FacilityCode:        h.str(record, "urgent_care_facility_code"),
			DiagnosisCode:       h.str(record, "diagnosis_code"),
			Triage:              h.str(record, "triage"),
			CodeStrokeActivated: h.boolSN(record, "code_stroke_activated"),
		}

		row.EventID, err = h.int64Val(record, "event_id")
		if err != nil {
			rejected++
			log.Warn().Err(err).Int64("row", rowNum).Msg("urgent care row rejected")
			continue
		}
		row.DischargeCode, err = h.intVal(record, "discharge_code")
		if err != nil {
			rejected++
			log.Warn().Err(err).Int64("row", rowNum).Msg("urgent care row rejected")
			continue
		}

		rows = append(rows, row)
	}
	return rows, rejected, nil
}

// ReadPatientRows parses the patient identity extract. One patient may span
// several rows, one per residence interval; identity fields are taken from
// the first row seen.
func ReadPatientRows(path string, log zerolog.Logger) ([]model.PatientRow, int64, error) {
	f, r, err := open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("patients: %w", err)
	}
	defer f.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("patients: %w", err)
	}
	if err := h.require("patient_id", "dob", "dod", "sex",
		"location_id", "from_dt", "to_dt"); err != nil {
		return nil, 0, fmt.Errorf("patients: %w", err)
	}

	byID := make(map[string]*model.PatientRow)
	var order []string
	var rejected int64
	var rowNum int64

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejected, fmt.Errorf("patients row %d: %w", rowNum+1, err)
		}
		rowNum++

		id := h.str(record, "patient_id")
		if id == "" {
			rejected++
			log.Warn().Int64("row", rowNum).Msg("patient row rejected: empty patient_id")
			continue
		}

		p, ok := byID[id]
		if !ok {
			p = &model.PatientRow{
				PatientID:   id,
				DateOfBirth: h.timestamp(record, "dob"),
				DateOfDeath: h.timestamp(record, "dod"),
				Sex:         h.str(record, "sex"),
			}
			if s := h.str(record, "gma_n_affected_systems"); s != "" {
				if n, err := h.intVal(record, "gma_n_affected_systems"); err == nil {
					p.GMAAffectedSystems = &n
				}
			}
			if s := h.str(record, "gma_weight"); s != "" {
				if w, err := strconv.ParseFloat(s, 64); err == nil {
					p.GMAWeight = &w
				}
			}
			byID[id] = p
			order = append(order, id)
		}

		locationID, err := h.int64Val(record, "location_id")
		if err != nil {
			rejected++
			log.Warn().Err(err).Int64("row", rowNum).Msg("patient row rejected")
			continue
		}
		p.Locations = append(p.Locations, model.LocationInterval{
			LocationID: locationID,
			From:       h.timestamp(record, "from_dt"),
			To:         h.timestamp(record, "to_dt"),
		})
	}

	rows := make([]model.PatientRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byID[id])
	}
	return rows, rejected, nil
}

// ReadStrokeCodes parses the semicolon-delimited stroke reference table.
func ReadStrokeCodes(path string) ([]stroke.CodeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stroke codes: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("stroke codes: %w", err)
	}
	if err := h.require("code"); err != nil {
		return nil, fmt.Errorf("stroke codes: %w", err)
	}

	var rows []stroke.CodeRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stroke codes: %w", err)
		}
		rows = append(rows, stroke.CodeRow{
			RawCode:   h.str(record, "code"),
			CleanCode: h.str(record, "clean_code"),
		})
	}
	return rows, nil
}
