// mkfixture generates small synthetic CSV extracts for local runs and tests:
// hospital events, urgent-care events, patient identities and a stroke code
// table. The generated population mixes clean handover chains, lone
// urgent-care contacts, non-stroke admissions and a few anomalies (missing
// identities, rounded timestamps).
// Usage: go run ./cmd/mkfixture --out testdata --patients 50
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

var strokeCodes = []string{"I63.9", "I61.9", "I60.9", "G45.9"}
var otherCodes = []string{"J18.9", "R51", "K92.2", "M54.5"}

func main() {
	out := flag.String("out", "testdata", "output directory")
	patients := flag.Int("patients", 50, "number of patients to generate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}
	rng := rand.New(rand.NewSource(*seed))

	if err := writeAll(*out, *patients, rng); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote fixtures for %d patients to %s\n", *patients, *out)
}

func writeAll(dir string, patients int, rng *rand.Rand) error {
	codes := [][]string{{"code", "clean_code", "description"}}
	for _, c := range strokeCodes {
		codes = append(codes, []string{c, strings.ReplaceAll(c, ".", ""), "synthetic"})
	}
	if err := writeCSV(filepath.Join(dir, "stroke_codes.csv"), ';', codes); err != nil {
		return err
	}

	hospital := [][]string{{
		"event_id", "patient_id", "admission_time", "surgery_time", "discharge_time",
		"hospital_code", "admission_type", "discharge_code", "diagnosis_code", "poa1",
	}}
	urgent := [][]string{{
		"event_id", "patient_id", "admission_time", "first_attention_time", "ct_time",
		"fibrinolysis_time", "observation_room_time", "discharge_time", "exit_time",
		"urgent_care_facility_code", "discharge_code", "diagnosis_code", "triage",
		"code_stroke_activated",
	}}
	identities := [][]string{{"patient_id", "dob", "dod", "sex", "location_id", "from_dt", "to_dt"}}

	eventID := int64(1000)
	for i := 0; i < patients; i++ {
		pid := fmt.Sprintf("p%04d", i+1)

		// Roughly one in ten patients has no identity record.
		if rng.Intn(10) != 0 {
			dob := time.Date(1930+rng.Intn(60), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
			sex := "F"
			if rng.Intn(2) == 0 {
				sex = "M"
			}
			identities = append(identities, []string{
				pid, dob.Format("2006-01-02"), "", sex,
				fmt.Sprintf("%d", 1+rng.Intn(40)),
				"2000-01-01", "",
			})
		}

		start := time.Date(2017, time.Month(1+rng.Intn(12)), 1+rng.Intn(28),
			rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, time.UTC)

		diagnosis := strokeCodes[rng.Intn(len(strokeCodes))]
		activated := "S"
		if rng.Intn(4) == 0 {
			diagnosis = otherCodes[rng.Intn(len(otherCodes))]
			activated = "N"
		}

		switch rng.Intn(3) {
		case 0:
			// Urgent-care contact handed over to a hospital stay.
			urgEnd := start.Add(time.Duration(2+rng.Intn(6)) * time.Hour)
			eventID++
			urgent = append(urgent, []string{
				fmt.Sprintf("%d", eventID), pid,
				start.Format(timeLayout), "", stamp(rng, start.Add(30*time.Minute)), "", "",
				urgEnd.Format(timeLayout), "",
				fmt.Sprintf("U%03d", 1+rng.Intn(5)), "2", diagnosis,
				fmt.Sprintf("%d", 1+rng.Intn(5)), activated,
			})
			eventID++
			hospEnd := urgEnd.Add(time.Duration(3+rng.Intn(20)) * 24 * time.Hour)
			hospital = append(hospital, []string{
				fmt.Sprintf("%d", eventID), pid,
				urgEnd.Add(45 * time.Minute).Format(timeLayout), "",
				hospEnd.Format(timeLayout),
				fmt.Sprintf("H%03d", 1+rng.Intn(5)), "1", "1", diagnosis, "S",
			})
		case 1:
			// Lone urgent-care contact.
			eventID++
			urgent = append(urgent, []string{
				fmt.Sprintf("%d", eventID), pid,
				start.Format(timeLayout), "", "", "", "",
				start.Add(time.Duration(1+rng.Intn(8)) * time.Hour).Format(timeLayout), "",
				fmt.Sprintf("U%03d", 1+rng.Intn(5)),
				fmt.Sprintf("%d", 1+rng.Intn(6)), diagnosis,
				fmt.Sprintf("%d", 1+rng.Intn(5)), activated,
			})
		default:
			// Direct hospital admission.
			eventID++
			hospital = append(hospital, []string{
				fmt.Sprintf("%d", eventID), pid,
				start.Format(timeLayout), "",
				start.Add(time.Duration(2+rng.Intn(25)) * 24 * time.Hour).Format(timeLayout),
				fmt.Sprintf("H%03d", 1+rng.Intn(5)), "1",
				fmt.Sprintf("%d", 1+rng.Intn(3)), diagnosis, "S",
			})
		}
	}

	if err := writeCSV(filepath.Join(dir, "hospital_events.csv"), ',', hospital); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "urgent_care_events.csv"), ',', urgent); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "patients.csv"), ',', identities)
}

// stamp sometimes rounds a timestamp to a 5-minute boundary, imitating
// manually entered values.
func stamp(rng *rand.Rand, t time.Time) string {
	if rng.Intn(3) == 0 {
		t = t.Truncate(5 * time.Minute)
	}
	return t.Format(timeLayout)
}

func writeCSV(path string, comma rune, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
