package event

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"lifehud/internal/config"
	util "lifehud/internal/utils"
)

var csvHeader = []string{"date", "area", "xp", "note", "type"}

// ExportCSV writes the full event dump for backup.
func ExportCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range events {
		record := []string{
			e.Date.String(),
			e.Area,
			strconv.Itoa(e.XP),
			e.Note,
			string(e.Type),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV feeds rows one by one through the ledger. A malformed row is
// skipped and reported; it never aborts the batch.
func ImportCSV(ctx context.Context, svc Service, r io.Reader) (*ImportReport, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	report := &ImportReport{}
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if line == 1 && len(record) > 0 && record[0] == "date" {
			continue // header
		}
		if len(record) < 3 {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: expected at least date, area, xp", line))
			continue
		}

		date, err := util.ParseDate(record[0])
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		xp, err := strconv.Atoi(record[2])
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: invalid xp %q", line, record[2]))
			continue
		}

		in := GrantInput{Date: date, Area: record[1], XP: xp, Type: TypeImport}
		if len(record) > 3 {
			in.Note = record[3]
		}
		if len(record) > 4 && Type(record[4]).IsValid() {
			in.Type = Type(record[4])
		}

		if _, err := svc.Grant(ctx, nil, username, in); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		report.Imported++
	}

	log.WithFields(map[string]interface{}{
		"imported": report.Imported, "skipped": report.Skipped,
	}).Info("CSV import finished")
	return report, nil
}
